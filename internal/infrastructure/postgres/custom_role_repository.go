package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que CustomRoleRepo implementa repository.CustomRoleRepository.
var _ repository.CustomRoleRepository = (*CustomRoleRepo)(nil)

// CustomRoleRepo implementación de roles personalizados sobre PostgreSQL.
type CustomRoleRepo struct {
	q Querier
}

// NewCustomRoleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomRoleRepository(q Querier) *CustomRoleRepo {
	return &CustomRoleRepo{q: q}
}

const customRoleColumns = `id, company_id, name, description, based_on_role, is_active, created_by, created_at, updated_at`

// Create persiste un rol personalizado nuevo.
func (r *CustomRoleRepo) Create(ctx context.Context, role *entity.CustomRole) error {
	query := `
		INSERT INTO custom_roles (` + customRoleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		role.ID, role.CompanyID, role.Name, role.Description, role.BasedOnRole,
		role.IsActive, role.CreatedBy, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert custom role: %w", err)
	}
	return nil
}

// GetByID obtiene un rol por ID, o nil si no existe.
func (r *CustomRoleRepo) GetByID(ctx context.Context, id string) (*entity.CustomRole, error) {
	query := `SELECT ` + customRoleColumns + ` FROM custom_roles WHERE id = $1`
	var role entity.CustomRole
	err := r.q.QueryRow(ctx, query, id).Scan(
		&role.ID, &role.CompanyID, &role.Name, &role.Description, &role.BasedOnRole,
		&role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom role: %w", err)
	}
	return &role, nil
}

// ListByCompany lista los roles personalizados de una empresa.
func (r *CustomRoleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CustomRole, error) {
	query := `
		SELECT ` + customRoleColumns + `
		FROM custom_roles WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list custom roles: %w", err)
	}
	defer rows.Close()

	var list []*entity.CustomRole
	for rows.Next() {
		var role entity.CustomRole
		if err := rows.Scan(&role.ID, &role.CompanyID, &role.Name, &role.Description, &role.BasedOnRole, &role.IsActive, &role.CreatedBy, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan custom role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// Update actualiza los metadatos del rol.
func (r *CustomRoleRepo) Update(ctx context.Context, role *entity.CustomRole) error {
	query := `
		UPDATE custom_roles SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, role.ID, role.Name, role.Description, role.IsActive, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update custom role: %w", err)
	}
	return nil
}

// ReplacePermissions borra el set completo del rol y lo reinserta.
func (r *CustomRoleRepo) ReplacePermissions(ctx context.Context, roleID string, perms []entity.CustomRolePermission) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM custom_role_permissions WHERE role_id = $1`, roleID); err != nil {
		return fmt.Errorf("delete role permissions: %w", err)
	}
	query := `
		INSERT INTO custom_role_permissions (id, role_id, permission_key, is_granted)
		VALUES ($1, $2, $3, $4)`
	for _, p := range perms {
		if _, err := r.q.Exec(ctx, query, p.ID, roleID, p.PermissionKey, p.IsGranted); err != nil {
			return fmt.Errorf("insert role permission %s: %w", p.PermissionKey, err)
		}
	}
	return nil
}

// ListPermissions devuelve el set de permisos del rol.
func (r *CustomRoleRepo) ListPermissions(ctx context.Context, roleID string) ([]entity.CustomRolePermission, error) {
	query := `
		SELECT id, role_id, permission_key, is_granted
		FROM custom_role_permissions WHERE role_id = $1 ORDER BY permission_key`
	rows, err := r.q.Query(ctx, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}
	defer rows.Close()

	var list []entity.CustomRolePermission
	for rows.Next() {
		var p entity.CustomRolePermission
		if err := rows.Scan(&p.ID, &p.RoleID, &p.PermissionKey, &p.IsGranted); err != nil {
			return nil, fmt.Errorf("scan role permission: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
