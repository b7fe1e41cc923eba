package entity

// ItemKey identifica una línea de producto dentro de una sesión: producto más
// variante opcional. Es un value object comparable (sirve como clave de map).
//
// La ausencia de variante es un estado explícito, no un string vacío por
// convención: un producto sin variantes nunca se confunde con una variante del
// mismo producto. Los campos no exportados obligan a pasar por los
// constructores.
type ItemKey struct {
	productID  string
	variantID  string
	hasVariant bool
}

// NewItemKey crea la clave de un producto sin variante.
func NewItemKey(productID string) ItemKey {
	return ItemKey{productID: productID}
}

// NewVariantKey crea la clave de una variante concreta de un producto.
// Con variantID vacío degrada a la clave sin variante.
func NewVariantKey(productID, variantID string) ItemKey {
	if variantID == "" {
		return NewItemKey(productID)
	}
	return ItemKey{productID: productID, variantID: variantID, hasVariant: true}
}

// ProductID devuelve el ID del producto.
func (k ItemKey) ProductID() string { return k.productID }

// VariantID devuelve el ID de la variante y si existe.
func (k ItemKey) VariantID() (string, bool) { return k.variantID, k.hasVariant }

// HasVariant indica si la clave refiere a una variante concreta.
func (k ItemKey) HasVariant() bool { return k.hasVariant }

// IsZero indica si la clave no fue construida (sin producto).
func (k ItemKey) IsZero() bool { return k.productID == "" }

// Less define el orden estable: por producto, luego sin-variante antes que
// cualquier variante, luego por ID de variante. Usado para salidas
// reproducibles (snapshots, comparaciones).
func (k ItemKey) Less(o ItemKey) bool {
	if k.productID != o.productID {
		return k.productID < o.productID
	}
	if k.hasVariant != o.hasVariant {
		return !k.hasVariant
	}
	return k.variantID < o.variantID
}

// String representación legible para logs y mensajes de error.
func (k ItemKey) String() string {
	if k.hasVariant {
		return k.productID + "/" + k.variantID
	}
	return k.productID
}
