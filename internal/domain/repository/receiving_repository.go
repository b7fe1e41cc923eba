package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// ReceivingRepository puerto de persistencia de registros de recepción
// (número consecutivo + snapshot de stock congelado por sesión finalizada).
type ReceivingRepository interface {
	Create(receiving *entity.Receiving) error
	GetBySessionID(sessionID string) (*entity.Receiving, error)
}
