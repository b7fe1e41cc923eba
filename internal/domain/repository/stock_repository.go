package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// StockRepository puerto de lectura/escritura del libro de stock por tienda.
type StockRepository interface {
	// GetBaseline devuelve la existencia actual por clave para una tienda.
	// Cubre toda clave conocida por el catálogo (sin fila de stock = cero);
	// las claves ajenas al catálogo quedan ausentes del map, para que el
	// motor pueda señalar la línea base incompleta.
	GetBaseline(storeID string, keys []entity.ItemKey) (map[entity.ItemKey]decimal.Decimal, error)
	// Upsert fija la existencia de una clave (usado al aplicar un snapshot de
	// recepción, dentro de la transacción de finalización).
	Upsert(stock *entity.Stock) error
}
