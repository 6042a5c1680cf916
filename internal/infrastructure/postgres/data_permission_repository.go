package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que DataPermissionRepo implementa repository.DataPermissionRepository.
var _ repository.DataPermissionRepository = (*DataPermissionRepo)(nil)

// DataPermissionRepo implementación de overrides por usuario.
type DataPermissionRepo struct {
	q Querier
}

// NewDataPermissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDataPermissionRepository(q Querier) *DataPermissionRepo {
	return &DataPermissionRepo{q: q}
}

const dataPermColumns = `id, user_id, company_id, permission_key, is_granted, granted_by, expires_at, reason, created_at, updated_at`

// Upsert inserta o actualiza por la clave única (user_id, company_id, permission_key).
func (r *DataPermissionRepo) Upsert(ctx context.Context, p *entity.UserDataPermission) error {
	query := `
		INSERT INTO user_data_permissions (` + dataPermColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, company_id, permission_key) DO UPDATE SET
			is_granted = EXCLUDED.is_granted,
			granted_by = EXCLUDED.granted_by,
			expires_at = EXCLUDED.expires_at,
			reason = EXCLUDED.reason,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.CompanyID, p.PermissionKey, p.IsGranted,
		p.GrantedBy, p.ExpiresAt, p.Reason, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert data permission: %w", err)
	}
	return nil
}

// ListByUser lista los overrides del usuario en la empresa.
func (r *DataPermissionRepo) ListByUser(ctx context.Context, userID, companyID string) ([]entity.UserDataPermission, error) {
	query := `
		SELECT ` + dataPermColumns + `
		FROM user_data_permissions
		WHERE user_id = $1 AND company_id = $2 ORDER BY permission_key`
	rows, err := r.q.Query(ctx, query, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list data permissions: %w", err)
	}
	defer rows.Close()

	var list []entity.UserDataPermission
	for rows.Next() {
		var p entity.UserDataPermission
		if err := rows.Scan(&p.ID, &p.UserID, &p.CompanyID, &p.PermissionKey, &p.IsGranted, &p.GrantedBy, &p.ExpiresAt, &p.Reason, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan data permission: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Get obtiene un override puntual, o nil si no existe.
func (r *DataPermissionRepo) Get(ctx context.Context, userID, companyID, permissionKey string) (*entity.UserDataPermission, error) {
	query := `
		SELECT ` + dataPermColumns + `
		FROM user_data_permissions
		WHERE user_id = $1 AND company_id = $2 AND permission_key = $3`
	var p entity.UserDataPermission
	err := r.q.QueryRow(ctx, query, userID, companyID, permissionKey).Scan(
		&p.ID, &p.UserID, &p.CompanyID, &p.PermissionKey, &p.IsGranted,
		&p.GrantedBy, &p.ExpiresAt, &p.Reason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get data permission: %w", err)
	}
	return &p, nil
}
