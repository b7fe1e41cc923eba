package dto

import "time"

// CreateSessionRequest arranca una sesión de conteo o recepción.
type CreateSessionRequest struct {
	Name        string `json:"name"`
	SessionType string `json:"session_type"`
	StoreID     string `json:"store_id"`
	ShipmentID  string `json:"shipment_id,omitempty"`
}

// ScanItemRequest una lectura agregada por un contador: cantidades acumuladas
// del lote de escaneos desde la última sincronización del cliente.
type ScanItemRequest struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Accepted    int64  `json:"accepted"`
	Rejected    int64  `json:"rejected"`
}

// AddItemsRequest lote de deltas aditivos de escaneo.
type AddItemsRequest struct {
	Items []ScanItemRequest `json:"items"`
}

// SetItemRequest corrección absoluta: reemplaza el aporte del usuario sobre
// una clave por los valores dados. Ambos en cero borra el aporte.
type SetItemRequest struct {
	ProductID   string `json:"product_id"`
	VariantID   string `json:"variant_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Accepted    int64  `json:"accepted"`
	Rejected    int64  `json:"rejected"`
}

// ContributionResponse aporte de un usuario dentro de una línea.
type ContributionResponse struct {
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Accepted     int64     `json:"accepted"`
	Rejected     int64     `json:"rejected"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SessionItemResponse línea de sesión con totales derivados y desglose.
type SessionItemResponse struct {
	ProductID     string                 `json:"product_id"`
	VariantID     string                 `json:"variant_id,omitempty"`
	DisplayName   string                 `json:"display_name"`
	SKU           string                 `json:"sku,omitempty"`
	TotalAccepted int64                  `json:"total_accepted"`
	TotalRejected int64                  `json:"total_rejected"`
	Contributions []ContributionResponse `json:"contributions"`
}

// MemberResponse participante de la sesión.
type MemberResponse struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	ProfileImage string    `json:"profile_image,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

// SessionResponse estado completo de una sesión.
type SessionResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	SessionType   string                `json:"session_type"`
	StoreID       string                `json:"store_id"`
	ShipmentID    string                `json:"shipment_id,omitempty"`
	IsActive      bool                  `json:"is_active"`
	IsFinal       bool                  `json:"is_final"`
	MergedInto    string                `json:"merged_into,omitempty"`
	CreatedBy     string                `json:"created_by"`
	CreatedAt     time.Time             `json:"created_at"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
	TotalAccepted int64                 `json:"total_accepted"`
	TotalRejected int64                 `json:"total_rejected"`
	ItemCount     int                   `json:"item_count"`
	Members       []MemberResponse      `json:"members"`
	Items         []SessionItemResponse `json:"items,omitempty"`
}

// SessionSummaryResponse fila de listado, sin líneas.
type SessionSummaryResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	SessionType   string     `json:"session_type"`
	StoreID       string     `json:"store_id"`
	IsActive      bool       `json:"is_active"`
	IsFinal       bool       `json:"is_final"`
	MergedInto    string     `json:"merged_into,omitempty"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	TotalAccepted int64      `json:"total_accepted"`
	ItemCount     int        `json:"item_count"`
	MemberCount   int        `json:"member_count"`
}

// SessionListResponse página de sesiones.
type SessionListResponse struct {
	Sessions []SessionSummaryResponse `json:"sessions"`
	Page     PageResponse             `json:"page"`
}

// ListSessionsRequest filtros del listado de sesiones.
type ListSessionsRequest struct {
	StoreID     string `query:"store_id"`
	SessionType string `query:"session_type"`
	IsActive    string `query:"is_active"`
	StartDate   string `query:"start_date"`
	EndDate     string `query:"end_date"`
	Search      string `query:"search"`
	PageRequest
}
