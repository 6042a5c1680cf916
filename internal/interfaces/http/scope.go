package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// userFinder es el contrato mínimo para resolver la empresa de un usuario
// objetivo. Lo implementa *usecase.UserUseCase.
type userFinder interface {
	GetByID(id string) (*dto.UserResponse, error)
}

// companyInScope verifica que el actor pueda operar sobre la empresa del path.
// super-admin alcanza cualquier empresa; el resto solo la propia. Una empresa
// ajena se reporta como 404, nunca 403: no se confirma su existencia.
func companyInScope(c *fiber.Ctx, companyID string) bool {
	if GetRole(c) == entity.RoleSuperAdmin {
		return true
	}
	return companyID == GetCompanyID(c)
}

// targetUserCompany resuelve la empresa contra la que opera un endpoint
// dirigido a un usuario. Para super-admin la empresa es la del usuario
// objetivo (puede estar en cualquier tenant); para el resto es la del token,
// y el caso de uso reporta 404 si el usuario no pertenece a ella.
func targetUserCompany(c *fiber.Ctx, users userFinder, userID string) (string, error) {
	if GetRole(c) != entity.RoleSuperAdmin {
		return GetCompanyID(c), nil
	}
	user, err := users.GetByID(userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrNotFound
	}
	return user.CompanyID, nil
}
