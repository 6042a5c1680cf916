package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
)

// ModuleHandler maneja el catálogo de módulos, el aprovisionamiento por
// empresa y el acceso por usuario.
type ModuleHandler struct {
	provisioning *usecase.ProvisioningUseCase
	userModules  *usecase.UserModuleUseCase
	users        *usecase.UserUseCase
}

// NewModuleHandler construye el handler inyectando los casos de uso.
func NewModuleHandler(provisioning *usecase.ProvisioningUseCase, userModules *usecase.UserModuleUseCase, users *usecase.UserUseCase) *ModuleHandler {
	return &ModuleHandler{provisioning: provisioning, userModules: userModules, users: users}
}

// ListCatalog godoc
// @Summary      Listar catálogo de módulos
// @Tags         modules
// @Produce      json
// @Success      200  {object}  dto.Envelope{data=[]dto.ModuleResponse}
// @Router       /api/modules [get]
func (h *ModuleHandler) ListCatalog(c *fiber.Ctx) error {
	out, err := h.provisioning.ListModules(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListCompanyModules godoc
// @Summary      Listar módulos habilitados de una empresa
// @Tags         modules
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.Envelope{data=[]dto.CompanyModuleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/modules/company/{companyId} [get]
func (h *ModuleHandler) ListCompanyModules(c *fiber.Ctx) error {
	companyID := c.Params("companyId")
	if !companyInScope(c, companyID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.Err("NOT_FOUND", "empresa no encontrada"))
	}
	out, err := h.provisioning.ListCompanyModules(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// EnableCompanyModule godoc
// @Summary      Habilitar un módulo para una empresa
// @Tags         modules
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        moduleId   path  string  true  "ID del módulo"
// @Success      200  {object}  dto.Envelope{data=dto.CompanyModuleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/modules/company/{companyId}/enable/{moduleId} [post]
func (h *ModuleHandler) EnableCompanyModule(c *fiber.Ctx) error {
	out, err := h.provisioning.EnableModule(c.Context(), c.Params("companyId"), c.Params("moduleId"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DisableCompanyModule godoc
// @Summary      Deshabilitar un módulo para una empresa (cascada a usuarios)
// @Tags         modules
// @Produce      json
// @Param        companyId  path  string  true  "ID de la empresa"
// @Param        moduleId   path  string  true  "ID del módulo"
// @Success      200  {object}  dto.Envelope{data=dto.DisableModuleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/modules/company/{companyId}/disable/{moduleId} [post]
func (h *ModuleHandler) DisableCompanyModule(c *fiber.Ctx) error {
	out, err := h.provisioning.DisableModule(c.Context(), c.Params("companyId"), c.Params("moduleId"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ChangeClassification godoc
// @Summary      Cambiar la clasificación de licenciamiento de un módulo
// @Tags         modules
// @Accept       json
// @Produce      json
// @Param        moduleId  path  string  true  "ID del módulo"
// @Param        body      body  dto.ChangeClassificationRequest  true  "Nueva clasificación"
// @Success      200  {object}  dto.Envelope{data=dto.ModuleResponse}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/modules/{moduleId}/classification [patch]
func (h *ModuleHandler) ChangeClassification(c *fiber.Ctx) error {
	var in dto.ChangeClassificationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	out, err := h.provisioning.ChangeClassification(c.Context(), c.Params("moduleId"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListUserModules godoc
// @Summary      Listar módulos de un usuario (solo los habilitados en empresa)
// @Tags         modules
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope{data=dto.UserModuleListResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/modules/user/{userId} [get]
func (h *ModuleHandler) ListUserModules(c *fiber.Ctx) error {
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.userModules.ListForUser(c.Context(), userID, companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// EnableUserModule godoc
// @Summary      Otorgar acceso de un usuario a un módulo
// @Tags         modules
// @Produce      json
// @Param        userId    path  string  true  "ID del usuario"
// @Param        moduleId  path  string  true  "ID del módulo"
// @Success      200  {object}  dto.Envelope{data=dto.UserModuleResponse}
// @Failure      412  {object}  dto.Envelope  "Módulo no habilitado a nivel empresa"
// @Router       /api/modules/user/{userId}/enable/{moduleId} [post]
func (h *ModuleHandler) EnableUserModule(c *fiber.Ctx) error {
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.userModules.Grant(c.Context(), userID, c.Params("moduleId"), companyID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// DisableUserModule godoc
// @Summary      Revocar acceso de un usuario a un módulo
// @Tags         modules
// @Produce      json
// @Param        userId    path  string  true  "ID del usuario"
// @Param        moduleId  path  string  true  "ID del módulo"
// @Success      200  {object}  dto.Envelope{data=dto.UserModuleResponse}
// @Failure      404  {object}  dto.Envelope
// @Router       /api/modules/user/{userId}/disable/{moduleId} [post]
func (h *ModuleHandler) DisableUserModule(c *fiber.Ctx) error {
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.userModules.Revoke(c.Context(), userID, c.Params("moduleId"), companyID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}
