package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrConflict             = errors.New("conflicto con el estado actual")
	ErrSessionClosed        = errors.New("la sesión está cerrada")
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrSessionNotMergeable  = errors.New("las sesiones no se pueden fusionar")
	ErrMissingStockBaseline = errors.New("falta la línea base de stock")
)
