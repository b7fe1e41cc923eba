package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo consulta del catálogo sobre PostgreSQL, solo lectura: nombre y
// SKU a mostrar por clave, delimitado por empresa.
type ProductRepo struct {
	pool *pgxpool.Pool
}

// NewProductRepository construye el adaptador de catálogo.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// GetInfo resuelve la proyección de catálogo para las claves dadas. Claves
// desconocidas (o de otra empresa) quedan ausentes del map.
func (r *ProductRepo) GetInfo(companyID string, keys []entity.ItemKey) (map[entity.ItemKey]entity.ProductInfo, error) {
	ctx := context.Background()
	out := make(map[entity.ItemKey]entity.ProductInfo, len(keys))

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
			SELECT id, name, sku, has_variants
			FROM products WHERE company_id = $1 AND id = ANY($2)`
		rows, err := r.pool.Query(ctx, query, companyID, productIDs)
		if err != nil {
			return nil, fmt.Errorf("query products: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var info entity.ProductInfo
			var id string
			if err := rows.Scan(&id, &info.ProductName, &info.SKU, &info.HasVariants); err != nil {
				return nil, fmt.Errorf("scan product: %w", err)
			}
			info.Key = entity.NewItemKey(id)
			info.DisplayName = info.ProductName
			out[info.Key] = info
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate products: %w", err)
		}
	}

	if len(variantIDs) > 0 {
		query := `
			SELECT p.id, v.id, p.name, v.name, COALESCE(NULLIF(v.sku, ''), p.sku)
			FROM product_variants v
			JOIN products p ON p.id = v.product_id AND p.company_id = $1
			JOIN unnest($2::text[], $3::text[]) AS k(product_id, variant_id)
				ON k.product_id = v.product_id AND k.variant_id = v.id`
		rows, err := r.pool.Query(ctx, query, companyID, variantProducts, variantIDs)
		if err != nil {
			return nil, fmt.Errorf("query product variants: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var info entity.ProductInfo
			var productID, variantID string
			err := rows.Scan(&productID, &variantID, &info.ProductName, &info.VariantName, &info.SKU)
			if err != nil {
				return nil, fmt.Errorf("scan product variant: %w", err)
			}
			info.Key = entity.NewVariantKey(productID, variantID)
			info.HasVariants = true
			info.DisplayName = info.ProductName + " - " + info.VariantName
			out[info.Key] = info
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate product variants: %w", err)
		}
	}
	return out, nil
}
