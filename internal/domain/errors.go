package domain

import "errors"

// Errores de dominio (sin dependencias externas). La capa HTTP los traduce a
// códigos de estado en internal/interfaces/http/errors.go.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrPreconditionFailed = errors.New("precondición no cumplida")
	ErrModuleNotEnabled   = errors.New("el módulo no está habilitado para la empresa")
)
