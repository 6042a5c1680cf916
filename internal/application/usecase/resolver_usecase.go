package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/authz"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// ResolverUseCase carga el snapshot de estado de un (usuario, empresa) y
// delega la decisión en la función pura de internal/domain/authz. Es el único
// punto por donde se calculan permisos efectivos: middleware de servidor y
// endpoints de UI consumen esto mismo, así que no pueden discrepar.
//
// Las lecturas no tienen efectos secundarios y no se cachean: cada chequeo
// observa el último estado commiteado (una revocación ya aplicada nunca puede
// servirse como concedida).
type ResolverUseCase struct {
	users          repository.UserRepository
	roles          repository.CustomRoleRepository
	assignments    repository.RoleAssignmentRepository
	companyModules repository.CompanyModuleRepository
	userModules    repository.UserModuleRepository
	perms          repository.DataPermissionRepository
}

// NewResolverUseCase construye el resolver con sus puertos de lectura.
func NewResolverUseCase(
	users repository.UserRepository,
	roles repository.CustomRoleRepository,
	assignments repository.RoleAssignmentRepository,
	companyModules repository.CompanyModuleRepository,
	userModules repository.UserModuleRepository,
	perms repository.DataPermissionRepository,
) *ResolverUseCase {
	return &ResolverUseCase{
		users: users, roles: roles, assignments: assignments,
		companyModules: companyModules, userModules: userModules, perms: perms,
	}
}

// snapshot lee el estado actual de las cuatro fuentes de verdad.
func (uc *ResolverUseCase) snapshot(ctx context.Context, userID, companyID string) (authz.Snapshot, error) {
	var s authz.Snapshot

	user, err := uc.users.GetByID(userID)
	if err != nil {
		return s, err
	}
	if user == nil || user.CompanyID != companyID {
		return s, domain.ErrNotFound
	}
	s.SystemRole = user.Role
	s.Now = time.Now()

	assignment, err := uc.assignments.ActiveForUser(ctx, userID, companyID)
	if err != nil {
		return s, err
	}
	if assignment != nil {
		role, err := uc.roles.GetByID(ctx, assignment.RoleID)
		if err != nil {
			return s, err
		}
		if role != nil {
			perms, err := uc.roles.ListPermissions(ctx, role.ID)
			if err != nil {
				return s, err
			}
			s.RoleAssignment = assignment
			s.CustomRole = role
			s.CustomRolePerms = perms
		}
	}

	s.CompanyModules, err = uc.companyModules.EnabledModuleIDs(ctx, companyID)
	if err != nil {
		return s, err
	}
	s.UserModules, err = uc.userModules.EnabledModuleIDs(ctx, userID, companyID)
	if err != nil {
		return s, err
	}
	s.Overrides, err = uc.perms.ListByUser(ctx, userID, companyID)
	if err != nil {
		return s, err
	}
	return s, nil
}

// Effective devuelve el set resuelto completo con procedencia por clave.
func (uc *ResolverUseCase) Effective(ctx context.Context, userID, companyID string) (*dto.EffectivePermissionsResponse, error) {
	s, err := uc.snapshot(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	resolved := authz.Resolve(s)
	items := make([]dto.EffectivePermissionResponse, 0, len(resolved))
	for _, key := range entity.AllPermissionKeys() {
		eff := resolved[key]
		items = append(items, dto.EffectivePermissionResponse{
			PermissionKey: eff.PermissionKey,
			Granted:       eff.Granted,
			Source:        eff.Source,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].PermissionKey < items[j].PermissionKey })
	return &dto.EffectivePermissionsResponse{
		UserID:      userID,
		CompanyID:   companyID,
		Permissions: items,
	}, nil
}

// Check es el wrapper fino: pertenencia de una clave en el set resuelto.
// "Sin permiso" es un resultado normal (false, nil), nunca un error.
func (uc *ResolverUseCase) Check(ctx context.Context, userID, permissionKey, companyID string) (bool, error) {
	s, err := uc.snapshot(ctx, userID, companyID)
	if err != nil {
		return false, err
	}
	return authz.CheckPermission(s, permissionKey), nil
}

// SafeActions particiona las claves pedidas en allowed/disabled/hidden para
// consumo de UI sin exponer los internos de la resolución.
func (uc *ResolverUseCase) SafeActions(ctx context.Context, userID, companyID string, keys []string) (*dto.SafeActionsResponse, error) {
	s, err := uc.snapshot(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	sa := authz.PartitionSafeActions(s, keys)
	return &dto.SafeActionsResponse{
		Allowed:  sa.Allowed,
		Disabled: sa.Disabled,
		Hidden:   sa.Hidden,
	}, nil
}
