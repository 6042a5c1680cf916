package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que RoleAssignmentRepo implementa repository.RoleAssignmentRepository.
var _ repository.RoleAssignmentRepository = (*RoleAssignmentRepo)(nil)

// RoleAssignmentRepo implementación de asignaciones rol-usuario.
type RoleAssignmentRepo struct {
	q Querier
}

// NewRoleAssignmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRoleAssignmentRepository(q Querier) *RoleAssignmentRepo {
	return &RoleAssignmentRepo{q: q}
}

const roleAssignmentColumns = `id, user_id, company_id, role_id, assigned_by, assigned_at, expires_at, is_active`

// ActiveForUser devuelve la asignación activa y no vencida del usuario en la
// empresa, o nil si no tiene.
func (r *RoleAssignmentRepo) ActiveForUser(ctx context.Context, userID, companyID string) (*entity.RoleAssignment, error) {
	query := `
		SELECT ` + roleAssignmentColumns + `
		FROM role_assignments
		WHERE user_id = $1 AND company_id = $2 AND is_active = true
			AND (expires_at IS NULL OR expires_at > now())
		ORDER BY assigned_at DESC LIMIT 1`
	var a entity.RoleAssignment
	err := r.q.QueryRow(ctx, query, userID, companyID).Scan(
		&a.ID, &a.UserID, &a.CompanyID, &a.RoleID,
		&a.AssignedBy, &a.AssignedAt, &a.ExpiresAt, &a.IsActive,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active role assignment: %w", err)
	}
	return &a, nil
}

// DeactivateForUser expira (soft) cualquier asignación activa previa.
func (r *RoleAssignmentRepo) DeactivateForUser(ctx context.Context, userID, companyID string) error {
	query := `
		UPDATE role_assignments SET is_active = false, expires_at = now()
		WHERE user_id = $1 AND company_id = $2 AND is_active = true`
	if _, err := r.q.Exec(ctx, query, userID, companyID); err != nil {
		return fmt.Errorf("deactivate role assignments: %w", err)
	}
	return nil
}

// Create persiste una asignación nueva.
func (r *RoleAssignmentRepo) Create(ctx context.Context, a *entity.RoleAssignment) error {
	query := `
		INSERT INTO role_assignments (` + roleAssignmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.UserID, a.CompanyID, a.RoleID,
		a.AssignedBy, a.AssignedAt, a.ExpiresAt, a.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert role assignment: %w", err)
	}
	return nil
}
