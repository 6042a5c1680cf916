package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que CompanyModuleRepo implementa repository.CompanyModuleRepository.
var _ repository.CompanyModuleRepository = (*CompanyModuleRepo)(nil)

// CompanyModuleRepo implementación del aprovisionamiento por empresa.
type CompanyModuleRepo struct {
	q Querier
}

// NewCompanyModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyModuleRepository(q Querier) *CompanyModuleRepo {
	return &CompanyModuleRepo{q: q}
}

const companyModuleColumns = `id, company_id, module_id, is_enabled, enabled_by, enabled_at, price_override, created_at, updated_at`

// Get obtiene el registro (company_id, module_id), o nil si nunca existió.
func (r *CompanyModuleRepo) Get(ctx context.Context, companyID, moduleID string) (*entity.CompanyModule, error) {
	query := `
		SELECT ` + companyModuleColumns + `
		FROM company_modules WHERE company_id = $1 AND module_id = $2`
	var cm entity.CompanyModule
	err := r.q.QueryRow(ctx, query, companyID, moduleID).Scan(
		&cm.ID, &cm.CompanyID, &cm.ModuleID, &cm.IsEnabled, &cm.EnabledBy,
		&cm.EnabledAt, &cm.PriceOverride, &cm.CreatedAt, &cm.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company module: %w", err)
	}
	return &cm, nil
}

// Upsert inserta o actualiza por la clave única (company_id, module_id).
func (r *CompanyModuleRepo) Upsert(ctx context.Context, cm *entity.CompanyModule) error {
	query := `
		INSERT INTO company_modules (` + companyModuleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, module_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			enabled_by = EXCLUDED.enabled_by,
			enabled_at = EXCLUDED.enabled_at,
			price_override = EXCLUDED.price_override,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		cm.ID, cm.CompanyID, cm.ModuleID, cm.IsEnabled, cm.EnabledBy,
		cm.EnabledAt, cm.PriceOverride, cm.CreatedAt, cm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert company module: %w", err)
	}
	return nil
}

// ListByCompany lista el aprovisionamiento completo de una empresa.
func (r *CompanyModuleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyModule, error) {
	query := `
		SELECT ` + companyModuleColumns + `
		FROM company_modules WHERE company_id = $1 ORDER BY module_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.CompanyModule
	for rows.Next() {
		var cm entity.CompanyModule
		if err := rows.Scan(&cm.ID, &cm.CompanyID, &cm.ModuleID, &cm.IsEnabled, &cm.EnabledBy, &cm.EnabledAt, &cm.PriceOverride, &cm.CreatedAt, &cm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company module: %w", err)
		}
		list = append(list, &cm)
	}
	return list, rows.Err()
}

// EnabledModuleIDs devuelve el set de módulos habilitados de la empresa.
func (r *CompanyModuleRepo) EnabledModuleIDs(ctx context.Context, companyID string) (map[string]bool, error) {
	query := `SELECT module_id FROM company_modules WHERE company_id = $1 AND is_enabled = true`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("enabled company modules: %w", err)
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
