package dto

// MergeRequest absorbe la sesión fuente dentro de la sesión destino.
type MergeRequest struct {
	SourceSessionID string `json:"source_session_id"`
}

// LineDeltaResponse cambio de cantidad sobre una línea existente del destino.
type LineDeltaResponse struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	QuantityBefore int64  `json:"quantity_before"`
	QuantityAfter  int64  `json:"quantity_after"`
}

// MergeResponse cifras de auditoría de la fusión.
type MergeResponse struct {
	TargetSessionID string              `json:"target_session_id"`
	SourceSessionID string              `json:"source_session_id"`
	ItemsBefore     int                 `json:"items_before"`
	ItemsAfter      int                 `json:"items_after"`
	QuantityBefore  int64               `json:"quantity_before"`
	QuantityAfter   int64               `json:"quantity_after"`
	MembersBefore   int                 `json:"members_before"`
	MembersAfter    int                 `json:"members_after"`
	ItemsCopied     int                 `json:"items_copied"`
	QuantityCopied  int64               `json:"quantity_copied"`
	MembersAdded    int                 `json:"members_added"`
	NewItems        []string            `json:"new_items"`
	IncreasedItems  []LineDeltaResponse `json:"increased_items"`
}

// CompareLineResponse línea presente en ambas sesiones.
type CompareLineResponse struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	DisplayName string `json:"display_name"`
	SKU         string `json:"sku,omitempty"`
	QuantityA   int64  `json:"quantity_a"`
	QuantityB   int64  `json:"quantity_b"`
	Diff        int64  `json:"diff"`
	IsMatch     bool   `json:"is_match"`
}

// CompareOnlyLineResponse línea presente en una sola sesión.
type CompareOnlyLineResponse struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	DisplayName string `json:"display_name"`
	SKU         string `json:"sku,omitempty"`
	Quantity    int64  `json:"quantity"`
}

// CompareSummaryResponse conteos agregados de la comparación.
type CompareSummaryResponse struct {
	TotalMatched      int `json:"total_matched"`
	QuantitySameCount int `json:"quantity_same_count"`
	QuantityDiffCount int `json:"quantity_diff_count"`
	OnlyInACount      int `json:"only_in_a_count"`
	OnlyInBCount      int `json:"only_in_b_count"`
}

// CompareResponse diferencia de tres vías entre dos sesiones.
type CompareResponse struct {
	SessionAID string                    `json:"session_a_id"`
	SessionBID string                    `json:"session_b_id"`
	Matched    []CompareLineResponse     `json:"matched"`
	OnlyInA    []CompareOnlyLineResponse `json:"only_in_a"`
	OnlyInB    []CompareOnlyLineResponse `json:"only_in_b"`
	Summary    CompareSummaryResponse    `json:"summary"`
}
