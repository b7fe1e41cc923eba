package dto

import "time"

// FinalizeRequest cierra definitivamente una sesión de recepción y aplica
// las cantidades aceptadas al stock de la tienda.
type FinalizeRequest struct {
	Notes string `json:"notes,omitempty"`
}

// SnapshotLineResponse línea del snapshot de stock congelado al finalizar.
type SnapshotLineResponse struct {
	ProductID        string `json:"product_id"`
	VariantID        string `json:"variant_id,omitempty"`
	DisplayName      string `json:"display_name"`
	SKU              string `json:"sku,omitempty"`
	QuantityBefore   int64  `json:"quantity_before"`
	QuantityReceived int64  `json:"quantity_received"`
	QuantityRejected int64  `json:"quantity_rejected"`
	QuantityAfter    int64  `json:"quantity_after"`
	NeedsDisplay     bool   `json:"needs_display"`
}

// FinalizeResponse resultado de la recepción registrada.
type FinalizeResponse struct {
	ReceivingID      string                 `json:"receiving_id"`
	ReceivingNumber  string                 `json:"receiving_number"`
	SessionID        string                 `json:"session_id"`
	ReceivedAt       time.Time              `json:"received_at"`
	TotalReceived    int64                  `json:"total_received"`
	TotalRejected    int64                  `json:"total_rejected"`
	ItemCount        int                    `json:"item_count"`
	NeedDisplayCount int                    `json:"need_display_count"`
	Lines            []SnapshotLineResponse `json:"lines"`
}

// ReceivingResponse registro de recepción consultado después del cierre.
type ReceivingResponse struct {
	ID              string                 `json:"id"`
	SessionID       string                 `json:"session_id"`
	ReceivingNumber string                 `json:"receiving_number"`
	ReceivedAt      time.Time              `json:"received_at"`
	CreatedBy       string                 `json:"created_by"`
	Notes           string                 `json:"notes,omitempty"`
	Lines           []SnapshotLineResponse `json:"lines"`
}
