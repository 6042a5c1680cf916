package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// DataPermissionHandler maneja overrides por usuario y el libro de auditoría.
type DataPermissionHandler struct {
	perms *usecase.DataPermissionUseCase
	audit *usecase.AuditUseCase
	users *usecase.UserUseCase
}

// NewDataPermissionHandler construye el handler.
func NewDataPermissionHandler(perms *usecase.DataPermissionUseCase, audit *usecase.AuditUseCase, users *usecase.UserUseCase) *DataPermissionHandler {
	return &DataPermissionHandler{perms: perms, audit: audit, users: users}
}

// Grant godoc
// @Summary      Otorgar o denegar un permiso puntual a un usuario
// @Tags         data-permissions
// @Accept       json
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Param        body    body  dto.GrantDataPermissionRequest  true  "Clave, sentido, vencimiento y razón"
// @Success      200  {object}  dto.Envelope{data=dto.DataPermissionResponse}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/data-permissions/user/{userId}/grant [post]
func (h *DataPermissionHandler) Grant(c *fiber.Ctx) error {
	var in dto.GrantDataPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.perms.Grant(c.Context(), userID, companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// Revoke godoc
// @Summary      Revocar explícitamente un permiso a un usuario
// @Tags         data-permissions
// @Accept       json
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Param        body    body  dto.GrantDataPermissionRequest  true  "Clave, vencimiento y razón"
// @Success      200  {object}  dto.Envelope{data=dto.DataPermissionResponse}
// @Failure      400  {object}  dto.Envelope
// @Router       /api/data-permissions/user/{userId}/revoke [post]
func (h *DataPermissionHandler) Revoke(c *fiber.Ctx) error {
	var in dto.GrantDataPermissionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	// Un revoke es un override con sentido negativo; prevalece sobre el rol.
	in.IsGranted = false
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.perms.Grant(c.Context(), userID, companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// BulkGrant godoc
// @Summary      Aplicar un lote de overrides de forma atómica
// @Tags         data-permissions
// @Accept       json
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Param        body    body  dto.BulkGrantRequest  true  "Lote de overrides"
// @Success      200  {object}  dto.Envelope{data=[]dto.DataPermissionResponse}
// @Failure      400  {object}  dto.Envelope  "Nada del lote se aplica si una entrada es inválida"
// @Router       /api/data-permissions/user/{userId}/bulk-grant [post]
func (h *DataPermissionHandler) BulkGrant(c *fiber.Ctx) error {
	var in dto.BulkGrantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("INVALID_BODY", "cuerpo inválido"))
	}
	if len(in.Grants) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Err("VALIDATION", "grants no puede estar vacío"))
	}
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.perms.BulkGrant(c.Context(), userID, companyID, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ListForUser godoc
// @Summary      Listar overrides vigentes y vencidos de un usuario
// @Tags         data-permissions
// @Produce      json
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope{data=[]dto.DataPermissionResponse}
// @Router       /api/data-permissions/user/{userId} [get]
func (h *DataPermissionHandler) ListForUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	companyID, err := targetUserCompany(c, h.users, userID)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.perms.ListForUser(c.Context(), userID, companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// auditFilterFromQuery arma el filtro desde la query string.
func auditFilterFromQuery(c *fiber.Ctx) repository.AuditFilter {
	return repository.AuditFilter{
		ActorID:       c.Query("actor_id"),
		SubjectUserID: c.Query("subject_user_id"),
		CompanyID:     c.Query("company_id"),
		Limit:         c.QueryInt("limit", 50),
		Offset:        c.QueryInt("offset", 0),
	}
}

// QueryAudit godoc
// @Summary      Consultar el libro de auditoría
// @Tags         data-permissions
// @Produce      json
// @Param        actor_id         query  string  false  "Filtrar por actor"
// @Param        subject_user_id  query  string  false  "Filtrar por usuario afectado"
// @Param        company_id       query  string  false  "Filtrar por empresa"
// @Success      200  {object}  dto.Envelope{data=dto.AuditListResponse}
// @Router       /api/data-permissions/audit [get]
func (h *DataPermissionHandler) QueryAudit(c *fiber.Ctx) error {
	out, err := h.audit.Query(c.Context(), auditFilterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// ExportAudit godoc
// @Summary      Exportar el trail de auditoría filtrado como PDF
// @Tags         data-permissions
// @Produce      application/pdf
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Success      200  {file}  binary
// @Router       /api/data-permissions/audit/export [get]
func (h *DataPermissionHandler) ExportAudit(c *fiber.Ctx) error {
	pdfBytes, err := h.audit.ExportPDF(c.Context(), auditFilterFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="audit-trail.pdf"`)
	return c.Send(pdfBytes)
}
