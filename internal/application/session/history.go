package session

import (
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// History reconstruye el rastro de auditoría de una sesión: estado completo,
// sesiones absorbidas por merge y el registro de recepción si ya finalizó.
func (uc *SessionUseCase) History(sessionID, companyID string) (*dto.SessionHistoryResponse, error) {
	s, err := uc.owned(sessionID, companyID)
	if err != nil {
		return nil, err
	}

	merged, err := uc.sessionRepo.ListMergedInto(s.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.SessionHistoryResponse{
		Session:        *uc.toResponse(s, true),
		MergedSessions: make([]dto.SessionSummaryResponse, 0, len(merged)),
	}
	for _, m := range merged {
		out.MergedSessions = append(out.MergedSessions, toSummary(m))
	}

	if s.IsFinal {
		recv, err := uc.recvRepo.GetBySessionID(s.ID)
		if err != nil {
			return nil, err
		}
		if recv != nil {
			out.Receiving = toReceivingResponse(recv)
		}
	}
	return out, nil
}

func toReceivingResponse(r *entity.Receiving) *dto.ReceivingResponse {
	return &dto.ReceivingResponse{
		ID:              r.ID,
		SessionID:       r.SessionID,
		ReceivingNumber: r.ReceivingNumber,
		ReceivedAt:      r.ReceivedAt,
		CreatedBy:       r.CreatedBy,
		Notes:           r.Notes,
		Lines:           toSnapshotLines(r.Snapshot),
	}
}
