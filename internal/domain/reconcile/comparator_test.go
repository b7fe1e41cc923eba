package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

func TestCompare_TresVias(t *testing.T) {
	a := mustApply(newOpenSession("A", "X"),
		scan(keyP1, "U1", 5, 0),
		scan(keyP2, "U1", 2, 0),
	)
	b := mustApply(newOpenSession("B", "X"),
		scan(keyP1, "U2", 7, 3), // misma clave, cantidad distinta
		scan(keyV1, "U2", 1, 0), // solo en B
	)

	res := reconcile.Compare(a, b)

	require.Len(t, res.Matched, 1)
	m := res.Matched[0]
	assert.Equal(t, keyP1, m.Key)
	assert.EqualValues(t, 5, m.QuantityA)
	assert.EqualValues(t, 7, m.QuantityB)
	assert.EqualValues(t, 2, m.Diff)
	assert.False(t, m.IsMatch)

	require.Len(t, res.OnlyInA, 1)
	assert.Equal(t, keyP2, res.OnlyInA[0].Key)
	assert.EqualValues(t, 2, res.OnlyInA[0].Quantity)

	require.Len(t, res.OnlyInB, 1)
	assert.Equal(t, keyV1, res.OnlyInB[0].Key)

	assert.Equal(t, reconcile.CompareSummary{
		TotalMatched:      1,
		QuantitySameCount: 0,
		QuantityDiffCount: 1,
		OnlyInACount:      1,
		OnlyInBCount:      1,
	}, res.Summary)
}

// Solo las cantidades aceptadas participan en la detección de discrepancias;
// las rechazadas no cuentan.
func TestCompare_IgnoraRechazadas(t *testing.T) {
	a := mustApply(newOpenSession("A", "X"), scan(keyP1, "U1", 5, 9))
	b := mustApply(newOpenSession("B", "X"), scan(keyP1, "U2", 5, 0))

	res := reconcile.Compare(a, b)

	require.Len(t, res.Matched, 1)
	assert.True(t, res.Matched[0].IsMatch, "rechazadas distintas no generan discrepancia")
	assert.Zero(t, res.Matched[0].Diff)
}

// compare(A,B).onlyInA == compare(B,A).onlyInB y viceversa.
func TestCompare_Simetria(t *testing.T) {
	a := mustApply(newOpenSession("A", "X"),
		scan(keyP1, "U1", 5, 0),
		scan(keyP2, "U1", 2, 0),
	)
	b := mustApply(newOpenSession("B", "X"),
		scan(keyP1, "U2", 5, 0),
		scan(keyV1, "U2", 1, 0),
	)

	ab := reconcile.Compare(a, b)
	ba := reconcile.Compare(b, a)

	assert.Equal(t, ab.OnlyInA, ba.OnlyInB)
	assert.Equal(t, ab.OnlyInB, ba.OnlyInA)
	assert.Equal(t, ab.Summary.QuantitySameCount, ba.Summary.QuantitySameCount)
	assert.Equal(t, ab.Summary.QuantityDiffCount, ba.Summary.QuantityDiffCount)
}

func TestCompare_ConsigoMisma(t *testing.T) {
	a := mustApply(newOpenSession("A", "X"),
		scan(keyP1, "U1", 5, 0),
		scan(keyP2, "U1", 2, 0),
	)

	res := reconcile.Compare(a, a)

	assert.Empty(t, res.OnlyInA)
	assert.Empty(t, res.OnlyInB)
	require.Len(t, res.Matched, 2)
	for _, m := range res.Matched {
		assert.True(t, m.IsMatch)
	}
	assert.Equal(t, 2, res.Summary.QuantitySameCount)
}

func TestCompare_NoMutaYOrdenaPorClave(t *testing.T) {
	a := mustApply(newOpenSession("A", "X"),
		scan(keyP2, "U1", 1, 0),
		scan(keyV1, "U1", 2, 0),
		scan(keyP1, "U1", 3, 0),
	)
	b := newOpenSession("B", "X")

	linesBefore := len(a.Lines)
	res := reconcile.Compare(a, b)
	assert.Len(t, a.Lines, linesBefore)

	// Orden estable: P1, P1/V1, P2.
	require.Len(t, res.OnlyInA, 3)
	assert.Equal(t, keyP1, res.OnlyInA[0].Key)
	assert.Equal(t, keyV1, res.OnlyInA[1].Key)
	assert.Equal(t, keyP2, res.OnlyInA[2].Key)
}

// Escenario del flujo completo: dos escáneres sobre S1, merge de una sesión
// vacía (identidad) y comparación contra una sesión con una línea extra.
func TestCompare_EscenarioColaborativo(t *testing.T) {
	s1 := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 2, 0),
		scan(keyP1, "U2", 3, 0),
	)
	require.EqualValues(t, 5, s1.Lines[keyP1].TotalAccepted())
	require.Len(t, s1.Lines[keyP1].Contributions, 2)

	s2 := newOpenSession("S2", "X")
	merged, _, _, err := reconcile.Merge(s1, s2, testNow)
	require.NoError(t, err)
	assert.Equal(t, s1.Lines, merged.Lines, "fusionar una sesión vacía no cambia nada")

	s3 := mustApply(newOpenSession("S3", "X"),
		scan(keyP1, "U3", 5, 0),
		scan(keyP2, "U3", 1, 0),
	)
	res := reconcile.Compare(merged, s3)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, keyP1, res.Matched[0].Key)
	assert.True(t, res.Matched[0].IsMatch)
	assert.Empty(t, res.OnlyInA)
	require.Len(t, res.OnlyInB, 1)
	assert.Equal(t, keyP2, res.OnlyInB[0].Key)
	assert.EqualValues(t, 1, res.OnlyInB[0].Quantity)
}
