package usecase

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Puertos de transacción. Cada operación mutadora del motor de autorización
// corre como UNA transacción relacional: el cambio de estado y su entrada de
// auditoría comparten commit, sin punto intermedio. La implementación vive en
// infrastructure/postgres (TxRunner); los tests usan infrastructure/memory.

// ProvisioningTx agrupa las transacciones de aprovisionamiento de módulos.
type ProvisioningTx interface {
	// RunProvisioning ejecuta fn con repos de company_modules, user_modules y
	// auditoría atados a la misma transacción (cascadas de §disableModule).
	RunProvisioning(ctx context.Context, fn func(
		companyModules repository.CompanyModuleRepository,
		userModules repository.UserModuleRepository,
		audit repository.AuditLogRepository,
	) error) error

	// RunModuleCatalog ejecuta fn con el catálogo de módulos y auditoría
	// (cambios de clasificación, siempre auditados).
	RunModuleCatalog(ctx context.Context, fn func(
		modules repository.ModuleRepository,
		audit repository.AuditLogRepository,
	) error) error
}

// RoleTx agrupa las transacciones de roles personalizados y asignaciones.
type RoleTx interface {
	RunRoles(ctx context.Context, fn func(
		roles repository.CustomRoleRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AuditLogRepository,
	) error) error
}

// DataPermissionTx agrupa las transacciones de overrides por usuario.
type DataPermissionTx interface {
	RunDataPermissions(ctx context.Context, fn func(
		perms repository.DataPermissionRepository,
		audit repository.AuditLogRepository,
	) error) error
}

// AuditPDFExporter genera la representación PDF de un trail de auditoría.
// La implementación (Maroto) vive en infrastructure/pdf.
type AuditPDFExporter interface {
	ExportAuditTrail(ctx context.Context, companyName string, entries []AuditTrailRow) ([]byte, error)
}

// AuditTrailRow fila plana para el exportador PDF.
type AuditTrailRow struct {
	When          string
	ActorID       string
	SubjectUserID string
	Action        string
	AffectedUsers int
}
