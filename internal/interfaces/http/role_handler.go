package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
)

// RoleHandler maneja roles personalizados, plantillas y asignaciones.
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler de roles.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol personalizado
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomRoleRequest  true  "Nombre y set de permisos"
// @Success      201   {object}  dto.Envelope{data=dto.CustomRoleResponse}
// @Failure      400   {object}  dto.Envelope
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", "name es requerido"))
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// CreateFromTemplate godoc
// @Summary      Crear rol personalizado a partir de una plantilla
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        templateId  path  string  true  "ID de la plantilla"
// @Param        body        body  dto.CreateRoleFromTemplateRequest  true  "Personalizaciones"
// @Success      201  {object}  dto.Envelope{data=dto.CustomRoleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/roles/from-template/{templateId} [post]
func (h *RoleHandler) CreateFromTemplate(c *fiber.Ctx) error {
	var in dto.CreateRoleFromTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", "name es requerido"))
	}
	out, err := h.uc.CreateFromTemplate(c.Context(), c.Params("templateId"), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar roles personalizados de la empresa
// @Tags         roles
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.CustomRoleResponse}
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByCompany(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener rol personalizado con su set de permisos
// @Tags         roles
// @Produce      json
// @Param        id  path  string  true  "ID del rol"
// @Success      200  {object}  dto.Envelope{data=dto.CustomRoleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListTemplates godoc
// @Summary      Listar plantillas globales de roles
// @Tags         roles
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.RoleTemplateResponse}
// @Router       /api/role-templates [get]
func (h *RoleHandler) ListTemplates(c *fiber.Ctx) error {
	out, err := h.uc.ListTemplates(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Validate godoc
// @Summary      Validar un rol antes de asignarlo
// @Tags         roles
// @Produce      json
// @Param        id  path  string  true  "ID del rol"
// @Success      200  {object}  dto.Envelope{data=dto.RoleValidationResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/roles/{id}/validate [get]
func (h *RoleHandler) Validate(c *fiber.Ctx) error {
	issues, err := h.uc.ValidateAssignment(c.Context(), c.Params("id"), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(dto.RoleValidationResponse{Valid: len(issues) == 0, Issues: issues}))
}

// Assign godoc
// @Summary      Asignar un rol personalizado a un usuario
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del rol"
// @Param        userId  path  string  true  "ID del usuario"
// @Param        body    body  dto.AssignRoleRequest  false  "expires_at opcional"
// @Success      200  {object}  dto.Envelope{data=dto.RoleAssignmentResponse}
// @Failure      422  {object}  dto.Envelope{data=dto.RoleValidationResponse}
// @Router       /api/roles/{id}/assign/{userId} [post]
func (h *RoleHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRoleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
		}
	}
	out, issues, err := h.uc.Assign(c.Context(), c.Params("id"), c.Params("userId"), GetCompanyID(c), GetUserID(c), in.ExpiresAt)
	if err != nil {
		return respondError(c, err)
	}
	if len(issues) > 0 {
		// La asignación no procede; se devuelven todos los problemas juntos.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Envelope{
			Success: false,
			Data:    dto.RoleValidationResponse{Valid: false, Issues: issues},
			Error:   &dto.APIError{Code: "ROLE_NOT_ASSIGNABLE", Message: "el rol no puede asignarse en su estado actual"},
		})
	}
	return c.JSON(dto.OK(out))
}
