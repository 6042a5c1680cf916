package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de transacción del motor.
var _ usecase.ProvisioningTx = (*TxRunner)(nil)
var _ usecase.RoleTx = (*TxRunner)(nil)
var _ usecase.DataPermissionTx = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada Run*
// hace Begin, ata los repos a la tx y hace Commit o Rollback: el cambio de
// estado y su auditoría comparten commit sin punto intermedio.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunProvisioning transacción de aprovisionamiento: company_modules +
// user_modules + audit_log (cascada de disableModule incluida).
func (r *TxRunner) RunProvisioning(ctx context.Context, fn func(
	companyModules repository.CompanyModuleRepository,
	userModules repository.UserModuleRepository,
	audit repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewCompanyModuleRepository(tx),
		NewUserModuleRepository(tx),
		NewAuditLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunModuleCatalog transacción sobre el catálogo de módulos + audit_log.
func (r *TxRunner) RunModuleCatalog(ctx context.Context, fn func(
	modules repository.ModuleRepository,
	audit repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewModuleRepository(tx), NewAuditLogRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRoles transacción de roles personalizados + asignaciones + audit_log.
func (r *TxRunner) RunRoles(ctx context.Context, fn func(
	roles repository.CustomRoleRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewCustomRoleRepository(tx),
		NewRoleAssignmentRepository(tx),
		NewAuditLogRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunDataPermissions transacción de overrides + audit_log (bulk atómico).
func (r *TxRunner) RunDataPermissions(ctx context.Context, fn func(
	perms repository.DataPermissionRepository,
	audit repository.AuditLogRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewDataPermissionRepository(tx), NewAuditLogRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
