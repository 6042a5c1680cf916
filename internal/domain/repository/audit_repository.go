package repository

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// AuditFilter filtros de consulta del libro de auditoría.
type AuditFilter struct {
	ActorID       string
	SubjectUserID string
	CompanyID     string
	Limit         int
	Offset        int
}

// AuditLogRepository define el puerto del libro de auditoría.
// Solo inserción y lectura: las entradas jamás se actualizan ni se borran.
type AuditLogRepository interface {
	Create(ctx context.Context, e *entity.AuditLogEntry) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLogEntry, error)
}
