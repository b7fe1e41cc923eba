package reconcile

import (
	"fmt"
	"strings"

	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// Errores tipados del motor. Todos hacen Unwrap a los sentinelas de
// internal/domain, así el caller puede hacer errors.Is contra el sentinel y a
// la vez extraer el detalle (sesión, clave, sub-razón) para construir el
// mensaje sin re-derivar contexto.

// ClosedError mutación intentada sobre una sesión inactiva o final.
type ClosedError struct {
	SessionID string
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("sesión %s cerrada: no admite más contribuciones", e.SessionID)
}

func (e *ClosedError) Unwrap() error { return domain.ErrSessionClosed }

// QuantityError delta negativo (las correcciones van por la operación set,
// nunca como delta negativo).
type QuantityError struct {
	SessionID string
	Key       entity.ItemKey
	Accepted  int64
	Rejected  int64
}

func (e *QuantityError) Error() string {
	return fmt.Sprintf("cantidad inválida para %s en sesión %s: accepted=%d rejected=%d",
		e.Key, e.SessionID, e.Accepted, e.Rejected)
}

func (e *QuantityError) Unwrap() error { return domain.ErrInvalidQuantity }

// MergeReason sub-razón por la que dos sesiones no se pueden fusionar.
type MergeReason string

const (
	MergeReasonSelfMerge      MergeReason = "self_merge"
	MergeReasonCrossStore     MergeReason = "cross_store"
	MergeReasonTargetFinal    MergeReason = "target_final"
	MergeReasonTargetInactive MergeReason = "target_inactive"
	MergeReasonSourceFinal    MergeReason = "source_final"
	MergeReasonSourceInactive MergeReason = "source_inactive"
)

// MergeError fusión rechazada, con la sub-razón y las sesiones involucradas.
type MergeError struct {
	Reason   MergeReason
	TargetID string
	SourceID string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("no se puede fusionar %s en %s: %s", e.SourceID, e.TargetID, e.Reason)
}

func (e *MergeError) Unwrap() error { return domain.ErrSessionNotMergeable }

// BaselineError finalize sin línea base de stock para todas las claves.
// El motor no asume cero para claves faltantes: una línea base incompleta es
// un bug del caller, no un producto nuevo.
type BaselineError struct {
	SessionID string
	Missing   []entity.ItemKey
}

func (e *BaselineError) Error() string {
	keys := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		keys[i] = k.String()
	}
	return fmt.Sprintf("sesión %s: falta línea base de stock para: %s",
		e.SessionID, strings.Join(keys, ", "))
}

func (e *BaselineError) Unwrap() error { return domain.ErrMissingStockBaseline }
