package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// PermissionHandler expone la resolución de permisos: set efectivo con
// procedencia, verificación puntual y safe actions para la UI.
type PermissionHandler struct {
	resolver *usecase.ResolverUseCase
	users    *usecase.UserUseCase
}

// NewPermissionHandler construye el handler del resolver.
func NewPermissionHandler(resolver *usecase.ResolverUseCase, users *usecase.UserUseCase) *PermissionHandler {
	return &PermissionHandler{resolver: resolver, users: users}
}

// Effective godoc
// @Summary      Set efectivo de permisos de un usuario, con procedencia
// @Tags         permissions
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope{data=dto.EffectivePermissionsResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/permissions/effective/{userId} [get]
func (h *PermissionHandler) Effective(c *fiber.Ctx) error {
	userID := c.Params("userId")
	// Un usuario puede consultar su propio set; ver el de otros requiere admin.
	if userID != GetUserID(c) {
		role := GetRole(c)
		if role != entity.RoleAdmin && role != entity.RoleSuperAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.Err("FORBIDDEN", "solo puede consultar su propio set de permisos"))
		}
	}
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.resolver.Effective(c.Context(), userID, companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Check godoc
// @Summary      Verificar si el usuario del token tiene una clave de permiso
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckPermissionRequest  true  "Clave a verificar"
// @Success      200  {object}  dto.Envelope{data=dto.CheckPermissionResponse}
// @Router       /api/permissions/check [post]
func (h *PermissionHandler) Check(c *fiber.Ctx) error {
	var in dto.CheckPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	if in.PermissionKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", "permission_key es requerido"))
	}
	granted, err := h.resolver.Check(c.Context(), GetUserID(c), in.PermissionKey, GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(dto.CheckPermissionResponse{PermissionKey: in.PermissionKey, Granted: granted}))
}

// SafeActions godoc
// @Summary      Particionar claves en allowed/disabled/hidden para la UI
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SafeActionsRequest  true  "Claves solicitadas"
// @Success      200  {object}  dto.Envelope{data=dto.SafeActionsResponse}
// @Router       /api/permissions/safe-actions [post]
func (h *PermissionHandler) SafeActions(c *fiber.Ctx) error {
	var in dto.SafeActionsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	if len(in.PermissionKeys) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", "permission_keys no puede estar vacío"))
	}
	out, err := h.resolver.SafeActions(c.Context(), GetUserID(c), GetCompanyID(c), in.PermissionKeys)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}
