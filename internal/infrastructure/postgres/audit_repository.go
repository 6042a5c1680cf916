package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que AuditLogRepo implementa repository.AuditLogRepository.
var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo libro de auditoría append-only sobre PostgreSQL. No expone
// UPDATE ni DELETE: las entradas son inmutables.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const auditColumns = `id, actor_id, subject_user_id, company_id, action, before_state, after_state, affected_users, created_at`

// Create inserta una entrada. Se invoca dentro de la misma transacción que la
// mutación que describe.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ActorID, e.SubjectUserID, e.CompanyID, e.Action,
		e.Before, e.After, e.AffectedUsers, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List consulta el libro con filtros opcionales, de más reciente a más antiguo.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLogEntry, error) {
	var conds []string
	var args []any
	add := func(cond, value string) {
		args = append(args, value)
		conds = append(conds, cond+" = $"+strconv.Itoa(len(args)))
	}
	if f.ActorID != "" {
		add("actor_id", f.ActorID)
	}
	if f.SubjectUserID != "" {
		add("subject_user_id", f.SubjectUserID)
	}
	if f.CompanyID != "" {
		add("company_id", f.CompanyID)
	}

	query := `SELECT ` + auditColumns + ` FROM audit_log`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, f.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.SubjectUserID, &e.CompanyID, &e.Action, &e.Before, &e.After, &e.AffectedUsers, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
