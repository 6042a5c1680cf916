package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
)

// permissionChecker es el contrato mínimo que necesita el middleware para
// verificar permisos resueltos. Lo implementa *usecase.ResolverUseCase; el uso
// de interfaz evita el import circular.
type permissionChecker interface {
	Check(ctx context.Context, userID, permissionKey, companyID string) (bool, error)
}

// RequirePermission devuelve un middleware Fiber que verifica si el usuario
// del token tiene la clave en su set resuelto (rol + módulos + overrides).
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 403 Forbidden → la clave no está en el set efectivo (por rol, por módulo
//     deshabilitado o por override de revocación; para el caller da igual).
//   - 503 Service Unavailable → fallo de infraestructura al resolver.
//   - Sin user_id/company_id en el contexto responde 401.
func RequirePermission(permissionKey string, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		companyID := GetCompanyID(c)
		if userID == "" || companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Err("UNAUTHORIZED", "token inválido"))
		}

		granted, err := checker.Check(c.Context(), userID, permissionKey, companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Err("PERMISSION_CHECK_FAILED", "no se pudo resolver el permiso, intente más tarde"))
		}
		if !granted {
			return c.Status(fiber.StatusForbidden).JSON(dto.Err("PERMISSION_DENIED", "el permiso '"+permissionKey+"' no está en su set efectivo"))
		}
		return c.Next()
	}
}
