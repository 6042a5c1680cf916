package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
)

// moduleChecker es el contrato mínimo que necesita el middleware para
// verificar el aprovisionamiento. Lo implementa *usecase.ProvisioningUseCase;
// el uso de interfaz evita el import circular.
type moduleChecker interface {
	IsModuleEnabled(ctx context.Context, companyID, moduleID string) (bool, error)
}

// RequireModule devuelve un middleware Fiber que verifica si la empresa del
// token tiene el módulo habilitado. Debe usarse DESPUÉS de AuthMiddleware
// (necesita LocalCompanyID). Es la compuerta para rutas de funcionalidad
// atada a un módulo licenciable; RequirePermission cubre la clave puntual.
//
// Comportamiento:
//   - 403 Forbidden → módulo no contratado o deshabilitado.
//   - 503 Service Unavailable → fallo de infraestructura al consultar.
//   - Sin company_id en el contexto responde 401.
func RequireModule(moduleID string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("UNAUTHORIZED", "company_id no encontrado en el token"))
		}

		enabled, err := checker.IsModuleEnabled(c.Context(), companyID, moduleID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Err("MODULE_CHECK_FAILED", "no se pudo verificar el módulo, intente más tarde"))
		}
		if !enabled {
			return c.Status(fiber.StatusForbidden).JSON(dto.Err("MODULE_DISABLED", "el módulo '"+moduleID+"' no está habilitado para esta empresa"))
		}
		return c.Next()
	}
}
