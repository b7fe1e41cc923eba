package repository

import (
	"time"

	"github.com/jhoicas/conteo-api/internal/domain/entity"
)

// SessionFilter filtros para listado e historial de sesiones.
type SessionFilter struct {
	CompanyID   string
	StoreID     string
	SessionType string // counting | receiving | "" (todas)
	IsActive    *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Search      string // nombre de sesión o de producto, ya normalizado
	Limit       int
	Offset      int
}

// SessionRepository puerto de persistencia de sesiones con sus líneas,
// contribuciones y miembros.
//
// GetForUpdate bloquea la fila de la sesión (SELECT FOR UPDATE): es el
// mecanismo con el que la capa de aplicación serializa el ciclo
// leer-agregar-escribir que el motor exige al caller.
type SessionRepository interface {
	Create(session *entity.Session) error
	GetByID(sessionID string) (*entity.Session, error)
	GetForUpdate(sessionID string) (*entity.Session, error)
	// Save reemplaza el estado completo de la sesión (fila, líneas,
	// contribuciones y miembros) por el valor derivado que devuelve el motor.
	Save(session *entity.Session) error
	List(filter SessionFilter) ([]*entity.Session, int, error)
	// ListMergedInto sesiones retiradas cuyos conteos viven ahora en la
	// sesión dada (reconstrucción del rastro de auditoría).
	ListMergedInto(sessionID string) ([]*entity.Session, error)
}
