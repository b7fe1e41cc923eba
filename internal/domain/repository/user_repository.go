package repository

import "github.com/jhoicas/conteo-api/internal/domain/entity"

// UserRepository puerto del directorio de usuarios: autenticación y
// atribución de escaneos (nombre/avatar por ID opaco).
type UserRepository interface {
	FindByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	// GetInfo proyección mínima para atribución; IDs desconocidos quedan
	// ausentes del map.
	GetInfo(userIDs []string) (map[string]entity.UserInfo, error)
}
