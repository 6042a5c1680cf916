package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
)

// UserHandler expone las lecturas administrativas de usuarios.
type UserHandler struct {
	users *usecase.UserUseCase
}

// NewUserHandler construye el handler inyectando el caso de uso.
func NewUserHandler(users *usecase.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @Summary      Listar usuarios de la empresa del actor
// @Tags         users
// @Produce      json
// @Param        limit   query  int  false  "Límite de resultados"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.Envelope{data=[]dto.UserResponse}
// @Security     BearerAuth
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	out, err := h.users.ListByCompany(GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(out))
}

// GetByID godoc
// @Summary      Obtener un usuario por ID
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.Envelope{data=dto.UserResponse}
// @Failure      404  {object}  dto.Envelope
// @Security     BearerAuth
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	// Un usuario de otra empresa se reporta igual que uno inexistente.
	if user == nil || !companyInScope(c, user.CompanyID) {
		return c.Status(fiber.StatusNotFound).JSON(dto.Err("NOT_FOUND", "usuario no encontrado"))
	}
	return c.JSON(dto.OK(user))
}
