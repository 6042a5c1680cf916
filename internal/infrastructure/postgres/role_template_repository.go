package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que RoleTemplateRepo implementa repository.RoleTemplateRepository.
var _ repository.RoleTemplateRepository = (*RoleTemplateRepo)(nil)

// RoleTemplateRepo lectura de plantillas globales de roles. Las columnas de
// listas (base_permissions, required_modules, target_use_cases) son text[].
type RoleTemplateRepo struct {
	q Querier
}

// NewRoleTemplateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleTemplateRepository(q Querier) *RoleTemplateRepo {
	return &RoleTemplateRepo{q: q}
}

const roleTemplateColumns = `id, name, description, base_permissions, required_modules, target_use_cases, created_at`

// List devuelve todas las plantillas disponibles.
func (r *RoleTemplateRepo) List(ctx context.Context) ([]*entity.RoleTemplate, error) {
	query := `SELECT ` + roleTemplateColumns + ` FROM role_templates ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list role templates: %w", err)
	}
	defer rows.Close()

	var list []*entity.RoleTemplate
	for rows.Next() {
		var t entity.RoleTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.BasePermissions, &t.RequiredModules, &t.TargetUseCases, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role template: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// GetByID obtiene una plantilla por ID, o nil si no existe.
func (r *RoleTemplateRepo) GetByID(ctx context.Context, id string) (*entity.RoleTemplate, error) {
	query := `SELECT ` + roleTemplateColumns + ` FROM role_templates WHERE id = $1`
	var t entity.RoleTemplate
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.BasePermissions,
		&t.RequiredModules, &t.TargetUseCases, &t.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role template: %w", err)
	}
	return &t, nil
}
