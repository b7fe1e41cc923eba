package session

import (
	"fmt"

	"github.com/jhoicas/conteo-api/internal/domain"
)

// Report genera el PDF de una recepción finalizada. Devuelve los bytes del
// documento y el nombre de archivo sugerido.
func (uc *SessionUseCase) Report(sessionID, companyID string) ([]byte, string, error) {
	s, err := uc.owned(sessionID, companyID)
	if err != nil {
		return nil, "", err
	}
	recv, err := uc.recvRepo.GetBySessionID(s.ID)
	if err != nil {
		return nil, "", err
	}
	if recv == nil {
		return nil, "", domain.ErrNotFound
	}
	pdf, err := uc.reportGen.ReceivingReport(recv, s)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("recepcion-%s.pdf", recv.ReceivingNumber), nil
}
