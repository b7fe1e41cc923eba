package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

func TestMerge_ClavesDisjuntasConservaTodo(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"), scan(keyP1, "U1", 5, 0))
	source := mustApply(newOpenSession("S", "X"), scan(keyP2, "U2", 3, 1))

	merged, retired, result, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	// Conservación: ninguna línea de las entradas falta en el resultado y la
	// cantidad total es la suma.
	assert.Len(t, merged.Lines, 2)
	assert.Equal(t, target.TotalAccepted()+source.TotalAccepted(), merged.TotalAccepted())
	assert.Contains(t, merged.Lines, keyP1)
	assert.Contains(t, merged.Lines, keyP2)

	// La línea nueva se copia con su desglose completo.
	assert.EqualValues(t, 3, merged.Lines[keyP2].Contributions["U2"].Accepted)
	assert.EqualValues(t, 1, merged.Lines[keyP2].Contributions["U2"].Rejected)

	assert.Equal(t, []reconcile.LineDelta(nil), result.IncreasedLines)
	require.Len(t, result.NewLines, 1)
	assert.Equal(t, keyP2, result.NewLines[0])

	// El source queda retirado con back-reference, nunca borrado.
	assert.False(t, retired.IsActive)
	assert.Equal(t, "T", retired.MergedInto)
	assert.Len(t, retired.Lines, 1, "las líneas del source quedan intactas para la vista histórica")
	require.NotNil(t, retired.CompletedAt)
}

func TestMerge_ClaveCompartidaSumaPorContribuyente(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"),
		scan(keyP1, "U1", 5, 0),
		scan(keyP1, "U2", 1, 0),
	)
	source := mustApply(newOpenSession("S", "X"),
		scan(keyP1, "U2", 2, 1), // U2 también escaneó en el target
		scan(keyP1, "U3", 4, 0), // U3 solo en el source
	)

	merged, _, result, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	line := merged.Lines[keyP1]
	require.Len(t, line.Contributions, 3)
	assert.EqualValues(t, 5, line.Contributions["U1"].Accepted)
	assert.EqualValues(t, 3, line.Contributions["U2"].Accepted, "contribuyente común: cantidades sumadas")
	assert.EqualValues(t, 1, line.Contributions["U2"].Rejected)
	assert.EqualValues(t, 4, line.Contributions["U3"].Accepted, "contribuyente nuevo: entrada creada")
	assert.EqualValues(t, 12, line.TotalAccepted(), "totales recalculados sobre el map fusionado")

	require.Len(t, result.IncreasedLines, 1)
	assert.Equal(t, keyP1, result.IncreasedLines[0].Key)
	assert.EqualValues(t, 6, result.IncreasedLines[0].QuantityBefore)
	assert.EqualValues(t, 12, result.IncreasedLines[0].QuantityAfter)
	assert.Empty(t, result.NewLines)
}

func TestMerge_MiembrosUnion(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"), scan(keyP1, "U1", 1, 0))
	source := mustApply(newOpenSession("S", "X"),
		scan(keyP2, "U1", 1, 0), // ya es miembro del target
		scan(keyP2, "U2", 1, 0),
	)

	merged, _, result, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	assert.Len(t, merged.Members, 2)
	assert.Equal(t, 1, result.MembersAdded)
	assert.Equal(t, 1, result.MembersBefore)
	assert.Equal(t, 2, result.MembersAfter)
}

// Fusionar un source vacío no cambia líneas ni totales del target (solo
// podrían crecer los miembros).
func TestMerge_SourceVacioEsIdentidad(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"), scan(keyP1, "U1", 5, 0))
	source := newOpenSession("S", "X")

	merged, _, result, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	assert.Equal(t, target.Lines, merged.Lines)
	assert.Equal(t, target.TotalAccepted(), merged.TotalAccepted())
	assert.Zero(t, result.ItemsCopied)
	assert.Zero(t, result.QuantityCopied)
}

func TestMerge_Auditoria(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"), scan(keyP1, "U1", 5, 0))
	source := mustApply(newOpenSession("S", "X"),
		scan(keyP1, "U2", 2, 0),
		scan(keyP2, "U2", 3, 0),
	)

	_, _, result, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemsBefore)
	assert.Equal(t, 2, result.ItemsAfter)
	assert.EqualValues(t, 5, result.QuantityBefore)
	assert.EqualValues(t, 10, result.QuantityAfter)
	assert.Equal(t, 2, result.ItemsCopied)
	assert.EqualValues(t, 5, result.QuantityCopied)
}

func TestMerge_NoMutaLasEntradas(t *testing.T) {
	target := mustApply(newOpenSession("T", "X"), scan(keyP1, "U1", 5, 0))
	source := mustApply(newOpenSession("S", "X"), scan(keyP1, "U2", 2, 0))

	_, _, _, err := reconcile.Merge(target, source, testNow)
	require.NoError(t, err)

	assert.EqualValues(t, 5, target.Lines[keyP1].TotalAccepted(), "el target de entrada no cambia")
	assert.True(t, source.IsActive, "el source de entrada sigue activo; el retiro es un valor derivado")
	assert.Empty(t, source.MergedInto)
}

func TestMerge_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(target, source *sessionPair)
		reason reconcile.MergeReason
	}{
		{"self merge", func(t_, s *sessionPair) { s.id = t_.id }, reconcile.MergeReasonSelfMerge},
		{"cross store", func(t_, s *sessionPair) { s.store = "Y" }, reconcile.MergeReasonCrossStore},
		{"target final", func(t_, s *sessionPair) { t_.final = true }, reconcile.MergeReasonTargetFinal},
		{"target inactivo", func(t_, s *sessionPair) { t_.inactive = true }, reconcile.MergeReasonTargetInactive},
		{"source final", func(t_, s *sessionPair) { s.final = true }, reconcile.MergeReasonSourceFinal},
		{"source inactivo (re-merge)", func(t_, s *sessionPair) { s.inactive = true }, reconcile.MergeReasonSourceInactive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tp := &sessionPair{id: "T", store: "X"}
			sp := &sessionPair{id: "S", store: "X"}
			tc.mutate(tp, sp)

			_, _, _, err := reconcile.Merge(tp.build(), sp.build(), testNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrSessionNotMergeable)

			var merr *reconcile.MergeError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, tc.reason, merr.Reason)
		})
	}
}

// sessionPair fixture mínimo para la tabla de rechazos de Merge.
type sessionPair struct {
	id       string
	store    string
	final    bool
	inactive bool
}

func (p *sessionPair) build() *entity.Session {
	s := newOpenSession(p.id, p.store)
	s.IsFinal = p.final
	if p.inactive {
		s.IsActive = false
	}
	return s
}
