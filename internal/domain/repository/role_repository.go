package repository

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// CustomRoleRepository define el puerto para roles personalizados por empresa.
type CustomRoleRepository interface {
	Create(ctx context.Context, role *entity.CustomRole) error
	GetByID(ctx context.Context, id string) (*entity.CustomRole, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CustomRole, error)
	Update(ctx context.Context, role *entity.CustomRole) error
	// ReplacePermissions borra el set completo del rol y lo reinserta
	// (delete-all-then-insert): el set almacenado queda exactamente igual al
	// recibido, sin filas obsoletas.
	ReplacePermissions(ctx context.Context, roleID string, perms []entity.CustomRolePermission) error
	ListPermissions(ctx context.Context, roleID string) ([]entity.CustomRolePermission, error)
}

// RoleTemplateRepository define el puerto para plantillas globales de roles.
type RoleTemplateRepository interface {
	List(ctx context.Context) ([]*entity.RoleTemplate, error)
	GetByID(ctx context.Context, id string) (*entity.RoleTemplate, error)
}

// RoleAssignmentRepository define el puerto para asignaciones rol-usuario.
type RoleAssignmentRepository interface {
	// ActiveForUser devuelve la asignación activa del usuario en la empresa,
	// o nil si no tiene.
	ActiveForUser(ctx context.Context, userID, companyID string) (*entity.RoleAssignment, error)
	// DeactivateForUser expira (soft) cualquier asignación activa previa.
	DeactivateForUser(ctx context.Context, userID, companyID string) error
	Create(ctx context.Context, a *entity.RoleAssignment) error
}
