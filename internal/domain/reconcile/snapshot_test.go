package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vectores exactos del cálculo de snapshot: si alguien cambia la aritmética
// antes/después o la regla de needs_display, estos tests fallan de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeSnapshots_VectorReposicion(t *testing.T) {
	// Base 5, recibido 3 (1 rechazado): después 8, sin necesidad de exhibir.
	s := mustApply(newOpenSession("S1", "X"), scan(keyP1, "U1", 3, 1))
	baseline := map[entity.ItemKey]int64{keyP1: 5}

	snaps, err := reconcile.ComputeSnapshots(s, baseline)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	assert.Equal(t, entity.StockSnapshotLine{
		Key:              keyP1,
		DisplayName:      "Producto P1",
		SKU:              "SKU-P1",
		QuantityBefore:   5,
		QuantityReceived: 3,
		QuantityRejected: 1,
		QuantityAfter:    8,
		NeedsDisplay:     false,
	}, snaps[0])
}

func TestComputeSnapshots_VectorProductoNuevoEnPiso(t *testing.T) {
	// Base 0, recibido 4: después 4 y pasa a exhibición.
	s := mustApply(newOpenSession("S1", "X"), scan(keyP2, "U1", 4, 0))
	baseline := map[entity.ItemKey]int64{keyP2: 0}

	snaps, err := reconcile.ComputeSnapshots(s, baseline)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.EqualValues(t, 4, snaps[0].QuantityAfter)
	assert.True(t, snaps[0].NeedsDisplay, "de cero a existencias: hay que exhibir")
}

// Las unidades rechazadas nunca entran al stock: solo se reportan.
func TestComputeSnapshots_RechazadasNoSuman(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"), scan(keyP1, "U1", 2, 10))

	snaps, err := reconcile.ComputeSnapshots(s, map[entity.ItemKey]int64{keyP1: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, snaps[0].QuantityAfter)
	assert.EqualValues(t, 10, snaps[0].QuantityRejected)
}

// La línea base debe cubrir todas las claves; el motor no asume cero para no
// enmascarar un bug del caller como "producto nuevo".
func TestComputeSnapshots_LineaBaseIncompleta(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 1, 0),
		scan(keyP2, "U1", 2, 0),
		scan(keyV1, "U1", 3, 0),
	)
	baseline := map[entity.ItemKey]int64{keyP1: 5} // faltan P1/V1 y P2

	_, err := reconcile.ComputeSnapshots(s, baseline)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingStockBaseline)

	var berr *reconcile.BaselineError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, []entity.ItemKey{keyV1, keyP2}, berr.Missing, "claves faltantes en orden estable")
	assert.Equal(t, "S1", berr.SessionID)
}

// La base de la variante es independiente de la base del producto sin
// variante: faltar una no se cubre con la otra.
func TestComputeSnapshots_BaseDeVarianteEsIndependiente(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"), scan(keyV1, "U1", 2, 0))

	_, err := reconcile.ComputeSnapshots(s, map[entity.ItemKey]int64{keyP1: 5})
	assert.ErrorIs(t, err, domain.ErrMissingStockBaseline)
}

func TestComputeSnapshots_OrdenEstablePorClave(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP2, "U1", 1, 0),
		scan(keyV1, "U1", 2, 0),
		scan(keyP1, "U1", 3, 0),
	)
	baseline := map[entity.ItemKey]int64{keyP1: 0, keyP2: 0, keyV1: 0}

	snaps, err := reconcile.ComputeSnapshots(s, baseline)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, keyP1, snaps[0].Key)
	assert.Equal(t, keyV1, snaps[1].Key)
	assert.Equal(t, keyP2, snaps[2].Key)
}

// El snapshot se calcula para CAUSAR la finalización; sobre una sesión ya
// final nunca se recalcula.
func TestComputeSnapshots_SesionYaFinal(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"), scan(keyP1, "U1", 1, 0))
	s.IsFinal = true

	_, err := reconcile.ComputeSnapshots(s, map[entity.ItemKey]int64{keyP1: 0})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestComputeSnapshots_SesionSinLineas(t *testing.T) {
	s := newOpenSession("S1", "X")

	snaps, err := reconcile.ComputeSnapshots(s, map[entity.ItemKey]int64{})
	require.NoError(t, err)
	assert.Empty(t, snaps)
}
