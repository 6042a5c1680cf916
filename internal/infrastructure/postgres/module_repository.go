package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que ModuleRepo implementa repository.ModuleRepository.
var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo implementación del catálogo de módulos sobre PostgreSQL.
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

const moduleColumns = `id, name, module_type, is_core_required, is_active, default_price, created_at, updated_at`

// List devuelve el catálogo de módulos, opcionalmente solo los activos.
func (r *ModuleRepo) List(ctx context.Context, onlyActive bool) ([]*entity.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules`
	if onlyActive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.Module
	for rows.Next() {
		var m entity.Module
		if err := rows.Scan(&m.ID, &m.Name, &m.ModuleType, &m.IsCoreRequired, &m.IsActive, &m.DefaultPrice, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// GetByID obtiene un módulo por ID, o nil si no existe.
func (r *ModuleRepo) GetByID(ctx context.Context, id string) (*entity.Module, error) {
	query := `SELECT ` + moduleColumns + ` FROM modules WHERE id = $1`
	var m entity.Module
	err := r.q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.ModuleType, &m.IsCoreRequired, &m.IsActive,
		&m.DefaultPrice, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get module: %w", err)
	}
	return &m, nil
}

// UpdateClassification cambia la clasificación de licenciamiento del módulo.
func (r *ModuleRepo) UpdateClassification(ctx context.Context, moduleID, moduleType string, isCoreRequired bool) error {
	query := `
		UPDATE modules SET module_type = $2, is_core_required = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, moduleID, moduleType, isCoreRequired)
	if err != nil {
		return fmt.Errorf("update module classification: %w", err)
	}
	return nil
}

// CountCompaniesUsingAsCore cuenta empresas con el módulo habilitado mientras
// sigue clasificado como core.
func (r *ModuleRepo) CountCompaniesUsingAsCore(ctx context.Context, moduleID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM company_modules cm
		JOIN modules m ON m.id = cm.module_id
		WHERE cm.module_id = $1 AND cm.is_enabled = true AND m.module_type = $2`
	var count int
	if err := r.q.QueryRow(ctx, query, moduleID, entity.ModuleTypeCore).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies using core module: %w", err)
	}
	return count, nil
}
