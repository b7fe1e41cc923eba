package entity

// ProductInfo proyección del catálogo para enriquecer líneas de sesión:
// nombre y SKU a mostrar para una ItemKey (producto o variante).
type ProductInfo struct {
	Key         ItemKey
	ProductName string
	VariantName string
	DisplayName string
	SKU         string
	HasVariants bool
}
