package repository

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// DataPermissionRepository define el puerto para overrides por usuario.
type DataPermissionRepository interface {
	// Upsert inserta o actualiza por la clave única (user_id, company_id, permission_key).
	Upsert(ctx context.Context, p *entity.UserDataPermission) error
	ListByUser(ctx context.Context, userID, companyID string) ([]entity.UserDataPermission, error)
	Get(ctx context.Context, userID, companyID, permissionKey string) (*entity.UserDataPermission, error)
}
