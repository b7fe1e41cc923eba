package reconcile

import (
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// ComputeSnapshots calcula el snapshot antes/después de stock para finalizar
// una sesión de recepción: quantityAfter = base + aceptado por línea, y marca
// needsDisplay cuando la existencia pasa de cero a positiva.
//
// Requiere línea base para TODAS las claves de la sesión; cualquier faltante
// produce BaselineError con las claves ofendidas (el motor no asume cero).
// Las cantidades rechazadas se reportan para auditoría pero nunca entran al
// stock.
//
// Función pura sobre un snapshot congelado: no muta la sesión ni confirma
// nada. Persistir los cambios y marcar is_final en una sola transacción es
// obligación del caller. Se invoca con la sesión todavía no-final (es el
// cálculo que CAUSA la finalización); sobre una sesión ya final falla con
// ClosedError, porque un snapshot nunca se recalcula.
func ComputeSnapshots(s *entity.Session, before map[entity.ItemKey]int64) ([]entity.StockSnapshotLine, error) {
	if s.IsFinal {
		return nil, &ClosedError{SessionID: s.ID}
	}

	var missing []entity.ItemKey
	lines := s.SortedLines()
	for _, l := range lines {
		if _, ok := before[l.Key]; !ok {
			missing = append(missing, l.Key)
		}
	}
	if len(missing) > 0 {
		// SortedLines ya dejó las claves en orden estable.
		return nil, &BaselineError{SessionID: s.ID, Missing: missing}
	}

	out := make([]entity.StockSnapshotLine, 0, len(lines))
	for _, l := range lines {
		base := before[l.Key]
		received := l.TotalAccepted()
		after := base + received
		out = append(out, entity.StockSnapshotLine{
			Key:              l.Key,
			DisplayName:      l.DisplayName,
			SKU:              l.SKU,
			QuantityBefore:   base,
			QuantityReceived: received,
			QuantityRejected: l.TotalRejected(),
			QuantityAfter:    after,
			NeedsDisplay:     base == 0 && after > 0,
		})
	}
	return out, nil
}
