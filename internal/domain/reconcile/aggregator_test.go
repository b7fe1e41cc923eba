package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
)

var (
	keyP1 = entity.NewItemKey("P1")
	keyP2 = entity.NewItemKey("P2")
	keyV1 = entity.NewVariantKey("P1", "V1")
)

func TestApplyScan_CreaLineaYMiembro(t *testing.T) {
	s := newOpenSession("S1", "X")

	out, err := reconcile.ApplyScan(s, scan(keyP1, "U1", 2, 1), testNow)
	require.NoError(t, err)

	line, ok := out.Lines[keyP1]
	require.True(t, ok, "la línea debe crearse para una clave nueva")
	assert.EqualValues(t, 2, line.TotalAccepted())
	assert.EqualValues(t, 1, line.TotalRejected())
	assert.Equal(t, "Producto P1", line.DisplayName)
	assert.Contains(t, out.Members, "U1", "el escáner debe sumarse a los miembros")

	// La sesión original no se muta (estilo functional update).
	assert.Empty(t, s.Lines)
	assert.Empty(t, s.Members)
}

// Escanear dos veces registra dos unidades: la repetición es aditiva por
// diseño, cada escaneo representa una unidad física.
func TestApplyScan_Aditividad(t *testing.T) {
	s := newOpenSession("S1", "X")

	dosVeces := mustApply(s, scan(keyP1, "U1", 3, 0), scan(keyP1, "U1", 3, 0))
	unaDoble := mustApply(s, scan(keyP1, "U1", 6, 0))

	assert.Equal(t, unaDoble.Lines[keyP1].TotalAccepted(), dosVeces.Lines[keyP1].TotalAccepted())
	assert.Len(t, dosVeces.Lines[keyP1].Contributions, 1, "mismo usuario: una sola contribución acumulada")
}

// Deltas sobre pares (clave, usuario) distintos conmutan: aplicarlos en
// cualquier orden produce el mismo agregado.
func TestApplyScan_Conmutatividad(t *testing.T) {
	s := newOpenSession("S1", "X")
	d1 := scan(keyP1, "U1", 2, 0)
	d2 := scan(keyP2, "U2", 5, 1)

	ab := mustApply(s, d1, d2)
	ba := mustApply(s, d2, d1)

	assert.Equal(t, ab.Lines, ba.Lines)
	assert.Equal(t, ab.TotalAccepted(), ba.TotalAccepted())
	assert.Equal(t, ab.TotalRejected(), ba.TotalRejected())
}

func TestApplyScan_DosContribuyentesMismaLinea(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 2, 0),
		scan(keyP1, "U2", 3, 0),
	)

	line := s.Lines[keyP1]
	assert.EqualValues(t, 5, line.TotalAccepted())
	require.Len(t, line.Contributions, 2)
	assert.EqualValues(t, 2, line.Contributions["U1"].Accepted)
	assert.EqualValues(t, 3, line.Contributions["U2"].Accepted)
	assert.Len(t, s.Members, 2)
}

func TestApplyScan_VarianteYProductoNoSeConfunden(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 1, 0),
		scan(keyV1, "U1", 4, 0),
	)

	require.Len(t, s.Lines, 2, "producto sin variante y variante son líneas separadas")
	assert.EqualValues(t, 1, s.Lines[keyP1].TotalAccepted())
	assert.EqualValues(t, 4, s.Lines[keyV1].TotalAccepted())
}

func TestApplyScan_SesionCerrada(t *testing.T) {
	inactiva := newOpenSession("S1", "X")
	inactiva.IsActive = false

	final := newOpenSession("S2", "X")
	final.IsFinal = true

	for _, s := range []*entity.Session{inactiva, final} {
		_, err := reconcile.ApplyScan(s, scan(keyP1, "U1", 1, 0), testNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSessionClosed)

		var closed *reconcile.ClosedError
		require.ErrorAs(t, err, &closed)
		assert.Equal(t, s.ID, closed.SessionID, "el error debe identificar la sesión ofendida")
	}
}

// Un delta negativo nunca se acepta: las correcciones son una operación set
// explícita, no una resta silenciosa.
func TestApplyScan_DeltaNegativo(t *testing.T) {
	s := newOpenSession("S1", "X")

	_, err := reconcile.ApplyScan(s, scan(keyP1, "U1", -1, 0), testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	var qerr *reconcile.QuantityError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, keyP1, qerr.Key)

	_, err = reconcile.ApplyScan(s, scan(keyP1, "U1", 0, -2), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyScan_EntradaInvalida(t *testing.T) {
	s := newOpenSession("S1", "X")

	_, err := reconcile.ApplyScan(s, reconcile.ScanDelta{UserID: "U1", Accepted: 1}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clave vacía")

	_, err = reconcile.ApplyScan(s, reconcile.ScanDelta{Key: keyP1, Accepted: 1}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "usuario vacío")
}

func TestSetScan_CorrigeLaContribucionDelUsuario(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 7, 2),
		scan(keyP1, "U2", 3, 0),
	)

	out, err := reconcile.SetScan(s, scan(keyP1, "U1", 5, 0), testNow)
	require.NoError(t, err)

	line := out.Lines[keyP1]
	assert.EqualValues(t, 5, line.Contributions["U1"].Accepted, "set reemplaza, no suma")
	assert.EqualValues(t, 0, line.Contributions["U1"].Rejected)
	assert.EqualValues(t, 3, line.Contributions["U2"].Accepted, "la contribución ajena no se toca")
	assert.EqualValues(t, 8, line.TotalAccepted())
}

func TestSetScan_EnCeroEliminaContribucionYLineaVacia(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"), scan(keyP1, "U1", 7, 2))

	out, err := reconcile.SetScan(s, scan(keyP1, "U1", 0, 0), testNow)
	require.NoError(t, err)
	assert.NotContains(t, out.Lines, keyP1, "línea sin contribuyentes desaparece")

	// Con otro contribuyente presente, la línea sobrevive.
	s2 := mustApply(s, scan(keyP1, "U2", 1, 0))
	out2, err := reconcile.SetScan(s2, scan(keyP1, "U1", 0, 0), testNow)
	require.NoError(t, err)
	line := out2.Lines[keyP1]
	require.Len(t, line.Contributions, 1)
	assert.EqualValues(t, 1, line.TotalAccepted())
}

func TestSetScan_RechazaNegativosYSesionCerrada(t *testing.T) {
	s := newOpenSession("S1", "X")

	_, err := reconcile.SetScan(s, scan(keyP1, "U1", -3, 0), testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	s.IsActive = false
	_, err = reconcile.SetScan(s, scan(keyP1, "U1", 3, 0), testNow)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

// El invariante central: los totales de línea son siempre exactamente la suma
// de los contribuyentes, sin campo independiente que pueda derivar.
func TestSessionLine_TotalesSiempreDerivados(t *testing.T) {
	s := mustApply(newOpenSession("S1", "X"),
		scan(keyP1, "U1", 2, 1),
		scan(keyP1, "U2", 3, 0),
		scan(keyP1, "U1", 1, 0),
	)

	line := s.Lines[keyP1]
	var sumA, sumR int64
	for _, c := range line.Contributions {
		sumA += c.Accepted
		sumR += c.Rejected
	}
	assert.Equal(t, sumA, line.TotalAccepted())
	assert.Equal(t, sumR, line.TotalRejected())
}
