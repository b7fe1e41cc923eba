package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// ProductRepository puerto de consulta del catálogo para enriquecer líneas de
// sesión (nombre a mostrar y SKU por clave).
type ProductRepository interface {
	// GetInfo resuelve la proyección de catálogo para las claves dadas,
	// delimitada por empresa. Claves desconocidas quedan ausentes del map.
	GetInfo(companyID string, keys []entity.ItemKey) (map[entity.ItemKey]entity.ProductInfo, error)
}
