package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia actual de una ItemKey en una tienda
// (cantidad en NUMERIC; el libro de stock admite fracciones aunque el motor
// de sesiones trabaje en unidades enteras).
type Stock struct {
	StoreID   string
	Key       ItemKey
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
