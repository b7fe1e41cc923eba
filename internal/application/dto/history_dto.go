package dto

// SessionHistoryResponse rastro de auditoría de una sesión: su estado, las
// sesiones que fueron absorbidas dentro de ella y, si ya se finalizó, el
// registro de recepción resultante.
type SessionHistoryResponse struct {
	Session        SessionResponse          `json:"session"`
	MergedSessions []SessionSummaryResponse `json:"merged_sessions"`
	Receiving      *ReceivingResponse       `json:"receiving,omitempty"`
}
