package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que UserModuleRepo implementa repository.UserModuleRepository.
var _ repository.UserModuleRepository = (*UserModuleRepo)(nil)

// UserModuleRepo implementación del acceso por usuario a módulos.
type UserModuleRepo struct {
	q Querier
}

// NewUserModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUserModuleRepository(q Querier) *UserModuleRepo {
	return &UserModuleRepo{q: q}
}

const userModuleColumns = `id, user_id, module_id, company_id, is_enabled, granted_by, created_at, updated_at`

// Get obtiene el registro del usuario para un módulo, o nil si nunca existió.
func (r *UserModuleRepo) Get(ctx context.Context, userID, moduleID, companyID string) (*entity.UserModule, error) {
	query := `
		SELECT ` + userModuleColumns + `
		FROM user_modules WHERE user_id = $1 AND module_id = $2 AND company_id = $3`
	var um entity.UserModule
	err := r.q.QueryRow(ctx, query, userID, moduleID, companyID).Scan(
		&um.ID, &um.UserID, &um.ModuleID, &um.CompanyID,
		&um.IsEnabled, &um.GrantedBy, &um.CreatedAt, &um.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user module: %w", err)
	}
	return &um, nil
}

// Upsert inserta o actualiza por la clave única (user_id, module_id, company_id).
func (r *UserModuleRepo) Upsert(ctx context.Context, um *entity.UserModule) error {
	query := `
		INSERT INTO user_modules (` + userModuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, module_id, company_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			granted_by = EXCLUDED.granted_by,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		um.ID, um.UserID, um.ModuleID, um.CompanyID,
		um.IsEnabled, um.GrantedBy, um.CreatedAt, um.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user module: %w", err)
	}
	return nil
}

// ListByUser lista los registros del usuario en la empresa.
func (r *UserModuleRepo) ListByUser(ctx context.Context, userID, companyID string) ([]*entity.UserModule, error) {
	query := `
		SELECT ` + userModuleColumns + `
		FROM user_modules WHERE user_id = $1 AND company_id = $2 ORDER BY module_id`
	rows, err := r.q.Query(ctx, query, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("list user modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.UserModule
	for rows.Next() {
		var um entity.UserModule
		if err := rows.Scan(&um.ID, &um.UserID, &um.ModuleID, &um.CompanyID, &um.IsEnabled, &um.GrantedBy, &um.CreatedAt, &um.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user module: %w", err)
		}
		list = append(list, &um)
	}
	return list, rows.Err()
}

// EnabledModuleIDs devuelve el set de módulos habilitados del usuario.
func (r *UserModuleRepo) EnabledModuleIDs(ctx context.Context, userID, companyID string) (map[string]bool, error) {
	query := `
		SELECT module_id FROM user_modules
		WHERE user_id = $1 AND company_id = $2 AND is_enabled = true`
	rows, err := r.q.Query(ctx, query, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("enabled user modules: %w", err)
	}
	defer rows.Close()

	enabled := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan module id: %w", err)
		}
		enabled[id] = true
	}
	return enabled, rows.Err()
}

// DisableAllForCompanyModule apaga todas las filas habilitadas del módulo en
// la empresa y devuelve cuántas cambió. Debe correr dentro de la misma
// transacción que el cambio del CompanyModule.
func (r *UserModuleRepo) DisableAllForCompanyModule(ctx context.Context, companyID, moduleID string) (int, error) {
	query := `
		UPDATE user_modules SET is_enabled = false, updated_at = now()
		WHERE company_id = $1 AND module_id = $2 AND is_enabled = true`
	tag, err := r.q.Exec(ctx, query, companyID, moduleID)
	if err != nil {
		return 0, fmt.Errorf("disable user modules for company module: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
