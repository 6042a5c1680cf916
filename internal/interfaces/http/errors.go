package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
)

// respondError mapea los errores centinela del dominio al status HTTP y al
// sobre de error uniforme. Todo handler delega aquí su rama de error.
//
//	ErrValidation          → 400
//	ErrUnauthorized        → 401
//	ErrForbidden           → 403
//	ErrNotFound            → 404  (incluye acceso cross-tenant)
//	ErrConflict            → 409
//	ErrPreconditionFailed  → 412  (módulo no habilitado a nivel empresa)
//	resto                  → 500
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("UNAUTHORIZED", "credenciales inválidas"))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Err("FORBIDDEN", "acceso denegado"))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Err("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.Err("EMAIL_EXISTS", "el email ya está registrado"))
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.Err("CONFLICT", err.Error()))
	case errors.Is(err, domain.ErrPreconditionFailed), errors.Is(err, domain.ErrModuleNotEnabled):
		return c.Status(fiber.StatusPreconditionFailed).JSON(dto.Err("MODULE_NOT_ENABLED", "el módulo no está habilitado para la empresa"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Err("INTERNAL", err.Error()))
	}
}
