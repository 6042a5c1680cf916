package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// AuditUseCase consulta el libro de auditoría. Solo lectura: las entradas se
// escriben dentro de las transacciones de los casos de uso mutadores y jamás
// se modifican después.
type AuditUseCase struct {
	audit     repository.AuditLogRepository
	companies repository.CompanyRepository
	exporter  AuditPDFExporter
}

// NewAuditUseCase construye el caso de uso de auditoría.
func NewAuditUseCase(audit repository.AuditLogRepository, companies repository.CompanyRepository, exporter AuditPDFExporter) *AuditUseCase {
	return &AuditUseCase{audit: audit, companies: companies, exporter: exporter}
}

// Query devuelve entradas filtradas por actor, sujeto afectado o empresa.
func (uc *AuditUseCase) Query(ctx context.Context, f repository.AuditFilter) (*dto.AuditListResponse, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 200 {
		f.Limit = 200
	}
	list, err := uc.audit.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, auditToResponse(e))
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// ExportPDF genera la representación PDF de un trail filtrado.
func (uc *AuditUseCase) ExportPDF(ctx context.Context, f repository.AuditFilter) ([]byte, error) {
	if f.Limit <= 0 {
		f.Limit = 200
	}
	list, err := uc.audit.List(ctx, f)
	if err != nil {
		return nil, err
	}
	companyName := "todas las empresas"
	if f.CompanyID != "" {
		if company, err := uc.companies.GetByID(f.CompanyID); err == nil && company != nil {
			companyName = company.Name
		}
	}
	rows := make([]AuditTrailRow, 0, len(list))
	for _, e := range list {
		rows = append(rows, AuditTrailRow{
			When:          e.CreatedAt.Format(time.RFC3339),
			ActorID:       e.ActorID,
			SubjectUserID: e.SubjectUserID,
			Action:        e.Action,
			AffectedUsers: e.AffectedUsers,
		})
	}
	return uc.exporter.ExportAuditTrail(ctx, companyName, rows)
}

func auditToResponse(e *entity.AuditLogEntry) dto.AuditEntryResponse {
	return dto.AuditEntryResponse{
		ID:            e.ID,
		ActorID:       e.ActorID,
		SubjectUserID: e.SubjectUserID,
		CompanyID:     e.CompanyID,
		Action:        e.Action,
		Before:        string(e.Before),
		After:         string(e.After),
		AffectedUsers: e.AffectedUsers,
		CreatedAt:     e.CreatedAt,
	}
}
