package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con
// pool o tx). En store_stock variant_id usa cadena vacía para "sin variante".
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetBaseline existencia actual por clave para una tienda. Toda clave que el
// catálogo conoce entra al map (sin fila de stock cuenta como cero); las
// claves ajenas al catálogo quedan ausentes, para que el motor señale la
// línea base incompleta en vez de asumir cero.
func (r *StockRepo) GetBaseline(storeID string, keys []entity.ItemKey) (map[entity.ItemKey]decimal.Decimal, error) {
	ctx := context.Background()
	out := make(map[entity.ItemKey]decimal.Decimal, len(keys))

	var productIDs []string
	var variantProducts, variantIDs []string
	for _, k := range keys {
		if v, ok := k.VariantID(); ok {
			variantProducts = append(variantProducts, k.ProductID())
			variantIDs = append(variantIDs, v)
		} else {
			productIDs = append(productIDs, k.ProductID())
		}
	}

	if len(productIDs) > 0 {
		query := `
			SELECT p.id, COALESCE(s.quantity, 0)
			FROM products p
			LEFT JOIN store_stock s
				ON s.product_id = p.id AND s.variant_id = '' AND s.store_id = $1
			WHERE p.id = ANY($2)`
		rows, err := r.q.Query(ctx, query, storeID, productIDs)
		if err != nil {
			return nil, fmt.Errorf("query stock baseline: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			var qty decimal.Decimal
			if err := rows.Scan(&id, &qty); err != nil {
				return nil, fmt.Errorf("scan stock baseline: %w", err)
			}
			out[entity.NewItemKey(id)] = qty
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate stock baseline: %w", err)
		}
	}

	if len(variantIDs) > 0 {
		query := `
			SELECT v.product_id, v.id, COALESCE(s.quantity, 0)
			FROM product_variants v
			JOIN unnest($2::text[], $3::text[]) AS k(product_id, variant_id)
				ON k.product_id = v.product_id AND k.variant_id = v.id
			LEFT JOIN store_stock s
				ON s.product_id = v.product_id AND s.variant_id = v.id AND s.store_id = $1`
		rows, err := r.q.Query(ctx, query, storeID, variantProducts, variantIDs)
		if err != nil {
			return nil, fmt.Errorf("query variant stock baseline: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var productID, variantID string
			var qty decimal.Decimal
			if err := rows.Scan(&productID, &variantID, &qty); err != nil {
				return nil, fmt.Errorf("scan variant stock baseline: %w", err)
			}
			out[entity.NewVariantKey(productID, variantID)] = qty
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate variant stock baseline: %w", err)
		}
	}
	return out, nil
}

// Upsert fija la existencia de una clave en una tienda.
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	variantID, _ := stock.Key.VariantID()
	query := `
		INSERT INTO store_stock (store_id, product_id, variant_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (store_id, product_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.StoreID, stock.Key.ProductID(), variantID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}
