package session

import (
	"context"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Toda mutación de sesión corre aquí dentro:
// el bloqueo de fila (GetForUpdate) más el Commit/Rollback dan la
// serialización leer-agregar-escribir que el motor de reconciliación exige.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sessionRepo repository.SessionRepository,
		stockRepo repository.StockRepository,
		receivingRepo repository.ReceivingRepository,
	) error) error
}

// ReportGenerator puerto de generación del reporte PDF de una recepción.
type ReportGenerator interface {
	ReceivingReport(receiving *entity.Receiving, session *entity.Session) ([]byte, error)
}
