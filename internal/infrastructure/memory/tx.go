package memory

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que Store implementa los puertos de transacción del motor.
var _ usecase.ProvisioningTx = (*Store)(nil)
var _ usecase.RoleTx = (*Store)(nil)
var _ usecase.DataPermissionTx = (*Store)(nil)

// Semántica transaccional: cada Run* toma un snapshot del estado mutable antes
// de invocar el callback y lo restaura completo si el callback falla. Así los
// tests pueden verificar la atomicidad (p. ej. un bulk grant que falla a mitad
// no deja overrides parciales ni entradas de auditoría).

func (s *Store) run(fn func() error) error {
	s.mu.Lock()
	snap := s.takeSnapshot()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

// RunProvisioning transacción de aprovisionamiento en memoria.
func (s *Store) RunProvisioning(_ context.Context, fn func(
	companyModules repository.CompanyModuleRepository,
	userModules repository.UserModuleRepository,
	audit repository.AuditLogRepository,
) error) error {
	return s.run(func() error {
		return fn(s.CompanyModules(), s.UserModules(), s.AuditLog())
	})
}

// RunModuleCatalog transacción sobre el catálogo de módulos en memoria.
func (s *Store) RunModuleCatalog(_ context.Context, fn func(
	modules repository.ModuleRepository,
	audit repository.AuditLogRepository,
) error) error {
	return s.run(func() error {
		return fn(s.Modules(), s.AuditLog())
	})
}

// RunRoles transacción de roles y asignaciones en memoria.
func (s *Store) RunRoles(_ context.Context, fn func(
	roles repository.CustomRoleRepository,
	assignments repository.RoleAssignmentRepository,
	audit repository.AuditLogRepository,
) error) error {
	return s.run(func() error {
		return fn(s.CustomRoles(), s.RoleAssignments(), s.AuditLog())
	})
}

// RunDataPermissions transacción de overrides en memoria.
func (s *Store) RunDataPermissions(_ context.Context, fn func(
	perms repository.DataPermissionRepository,
	audit repository.AuditLogRepository,
) error) error {
	return s.run(func() error {
		return fn(s.DataPermissions(), s.AuditLog())
	})
}
