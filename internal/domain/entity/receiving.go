package entity

import "time"

// Receiving registro de recepción creado al finalizar una sesión de tipo
// receiving: número consecutivo, snapshot de stock congelado y metadatos de
// auditoría. Inmutable una vez persistido (la sesión queda is_final).
type Receiving struct {
	ID              string
	SessionID       string
	ReceivingNumber string
	ReceivedAt      time.Time
	CreatedBy       string
	Notes           string
	Snapshot        []StockSnapshotLine
}

// StockSnapshotLine una línea del snapshot antes/después de stock.
// QuantityRejected se conserva para auditoría pero nunca entra al stock.
type StockSnapshotLine struct {
	Key              ItemKey
	DisplayName      string
	SKU              string
	QuantityBefore   int64
	QuantityReceived int64
	QuantityRejected int64
	QuantityAfter    int64
	NeedsDisplay     bool // pasó de cero a existencias: hay que exhibirlo
}

// NewDisplayCount cuántas líneas del snapshot requieren exhibición.
func (r *Receiving) NewDisplayCount() int {
	n := 0
	for _, l := range r.Snapshot {
		if l.NeedsDisplay {
			n++
		}
	}
	return n
}
