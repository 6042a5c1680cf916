package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// RoleUseCase administra roles personalizados, plantillas y asignaciones.
// Un rol puede crearse con permisos "a futuro" (módulos aún sin licenciar),
// pero no puede asignarse mientras sus módulos requeridos no estén
// habilitados para la empresa.
type RoleUseCase struct {
	tx             RoleTx
	roles          repository.CustomRoleRepository
	templates      repository.RoleTemplateRepository
	assignments    repository.RoleAssignmentRepository
	companyModules repository.CompanyModuleRepository
	users          repository.UserRepository
}

// NewRoleUseCase construye el caso de uso de roles.
func NewRoleUseCase(
	tx RoleTx,
	roles repository.CustomRoleRepository,
	templates repository.RoleTemplateRepository,
	assignments repository.RoleAssignmentRepository,
	companyModules repository.CompanyModuleRepository,
	users repository.UserRepository,
) *RoleUseCase {
	return &RoleUseCase{
		tx: tx, roles: roles, templates: templates, assignments: assignments,
		companyModules: companyModules, users: users,
	}
}

// Create persiste un CustomRole y reemplaza su set de permisos completo
// (delete-all-then-insert) en la misma transacción, junto con la auditoría.
func (uc *RoleUseCase) Create(ctx context.Context, companyID, actorID string, in dto.CreateCustomRoleRequest) (*dto.CustomRoleResponse, error) {
	for _, p := range in.Permissions {
		if !entity.IsKnownPermission(p.PermissionKey) {
			return nil, fmt.Errorf("%w: clave de permiso desconocida %q", domain.ErrValidation, p.PermissionKey)
		}
	}
	if in.BasedOnRole != "" && !entity.IsSystemRole(in.BasedOnRole) {
		return nil, fmt.Errorf("%w: based_on_role debe ser un rol de sistema", domain.ErrValidation)
	}

	now := time.Now()
	role := &entity.CustomRole{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Description: in.Description,
		BasedOnRole: in.BasedOnRole,
		IsActive:    true,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	perms := make([]entity.CustomRolePermission, 0, len(in.Permissions))
	for _, p := range in.Permissions {
		perms = append(perms, entity.CustomRolePermission{
			ID:            uuid.New().String(),
			RoleID:        role.ID,
			PermissionKey: p.PermissionKey,
			IsGranted:     p.IsGranted,
		})
	}

	err := uc.tx.RunRoles(ctx, func(
		roles repository.CustomRoleRepository,
		_ repository.RoleAssignmentRepository,
		audit repository.AuditLogRepository,
	) error {
		if err := roles.Create(ctx, role); err != nil {
			return err
		}
		if err := roles.ReplacePermissions(ctx, role.ID, perms); err != nil {
			return err
		}
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:        uuid.New().String(),
			ActorID:   actorID,
			CompanyID: companyID,
			Action:    entity.AuditRoleCreated,
			After:     marshalState(role),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return roleToResponse(role, perms), nil
}

// CreateFromTemplate siembra un CustomRole desde una plantilla global:
// finalPermissions = base ∪ additional \ removed — unión y luego diferencia,
// en ese orden: una remoción explícita siempre gana sobre una adición de la
// misma clave. La plantilla no se vuelve a consultar después.
func (uc *RoleUseCase) CreateFromTemplate(ctx context.Context, templateID, companyID, actorID string, in dto.CreateRoleFromTemplateRequest) (*dto.CustomRoleResponse, error) {
	tpl, err := uc.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrNotFound
	}

	final := mergeTemplatePermissions(tpl.BasePermissions, in.AdditionalPermissions, in.RemovedPermissions)
	grants := make([]dto.PermissionGrant, 0, len(final))
	for _, key := range final {
		grants = append(grants, dto.PermissionGrant{PermissionKey: key, IsGranted: true})
	}
	return uc.Create(ctx, companyID, actorID, dto.CreateCustomRoleRequest{
		Name:        in.Name,
		Description: in.Description,
		Permissions: grants,
	})
}

// mergeTemplatePermissions aplica base ∪ additional \ removed en orden estable.
func mergeTemplatePermissions(base, additional, removed []string) []string {
	set := make(map[string]bool, len(base)+len(additional))
	for _, k := range base {
		set[k] = true
	}
	for _, k := range additional {
		set[k] = true
	}
	for _, k := range removed {
		delete(set, k)
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// GetByID devuelve un rol con su set de permisos. Un rol de otra empresa se
// reporta como no encontrado.
func (uc *RoleUseCase) GetByID(ctx context.Context, roleID, companyID string) (*dto.CustomRoleResponse, error) {
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	perms, err := uc.roles.ListPermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return roleToResponse(role, perms), nil
}

// ListByCompany lista los roles de la empresa.
func (uc *RoleUseCase) ListByCompany(ctx context.Context, companyID string) ([]dto.CustomRoleResponse, error) {
	list, err := uc.roles.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomRoleResponse, 0, len(list))
	for _, role := range list {
		perms, err := uc.roles.ListPermissions(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *roleToResponse(role, perms))
	}
	return out, nil
}

// ListTemplates lista las plantillas globales disponibles.
func (uc *RoleUseCase) ListTemplates(ctx context.Context) ([]dto.RoleTemplateResponse, error) {
	list, err := uc.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleTemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.RoleTemplateResponse{
			ID:              t.ID,
			Name:            t.Name,
			Description:     t.Description,
			BasePermissions: t.BasePermissions,
			RequiredModules: t.RequiredModules,
			TargetUseCases:  t.TargetUseCases,
		})
	}
	return out, nil
}

// ValidateAssignment verifica que la asignación sea usable y devuelve la
// lista de problemas en lenguaje humano (no un booleano único): la UI puede
// mostrar todos a la vez.
func (uc *RoleUseCase) ValidateAssignment(ctx context.Context, roleID, companyID string) ([]string, error) {
	role, err := uc.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}

	var issues []string
	if role.CompanyID != companyID {
		// Rol de otra empresa: mismo trato que inexistente.
		return nil, domain.ErrNotFound
	}
	if !role.IsActive {
		issues = append(issues, fmt.Sprintf("el rol %q está inactivo", role.Name))
	}

	perms, err := uc.roles.ListPermissions(ctx, roleID)
	if err != nil {
		return nil, err
	}
	enabled, err := uc.companyModules.EnabledModuleIDs(ctx, companyID)
	if err != nil {
		return nil, err
	}
	missing := map[string]bool{}
	for _, p := range perms {
		if !p.IsGranted {
			continue
		}
		moduleID := entity.ModuleForPermission(p.PermissionKey)
		if moduleID != "" && !enabled[moduleID] && !missing[moduleID] {
			missing[moduleID] = true
			issues = append(issues, fmt.Sprintf("el módulo %q requerido por el permiso %q no está habilitado para la empresa", moduleID, p.PermissionKey))
		}
	}
	sort.Strings(issues)
	return issues, nil
}

// Assign asigna el rol a un usuario. Valida primero (issues → la asignación
// no procede); luego, en una transacción, expira la asignación activa previa
// y crea la nueva con su entrada de auditoría. Un usuario tiene a lo sumo una
// asignación activa por empresa.
func (uc *RoleUseCase) Assign(ctx context.Context, roleID, userID, companyID, actorID string, expiresAt *time.Time) (*dto.RoleAssignmentResponse, []string, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, nil, domain.ErrNotFound
	}
	issues, err := uc.ValidateAssignment(ctx, roleID, companyID)
	if err != nil {
		return nil, nil, err
	}
	if len(issues) > 0 {
		return nil, issues, nil
	}

	now := time.Now()
	assignment := &entity.RoleAssignment{
		ID:         uuid.New().String(),
		UserID:     userID,
		CompanyID:  companyID,
		RoleID:     roleID,
		AssignedBy: actorID,
		AssignedAt: now,
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}
	err = uc.tx.RunRoles(ctx, func(
		_ repository.CustomRoleRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AuditLogRepository,
	) error {
		if err := assignments.DeactivateForUser(ctx, userID, companyID); err != nil {
			return err
		}
		if err := assignments.Create(ctx, assignment); err != nil {
			return err
		}
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ActorID:       actorID,
			SubjectUserID: userID,
			CompanyID:     companyID,
			Action:        entity.AuditRoleAssigned,
			After:         marshalState(assignment),
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return &dto.RoleAssignmentResponse{
		ID:         assignment.ID,
		UserID:     assignment.UserID,
		RoleID:     assignment.RoleID,
		AssignedBy: assignment.AssignedBy,
		AssignedAt: assignment.AssignedAt,
		ExpiresAt:  assignment.ExpiresAt,
	}, nil, nil
}

func roleToResponse(role *entity.CustomRole, perms []entity.CustomRolePermission) *dto.CustomRoleResponse {
	grants := make([]dto.PermissionGrant, 0, len(perms))
	for _, p := range perms {
		grants = append(grants, dto.PermissionGrant{PermissionKey: p.PermissionKey, IsGranted: p.IsGranted})
	}
	return &dto.CustomRoleResponse{
		ID:          role.ID,
		CompanyID:   role.CompanyID,
		Name:        role.Name,
		Description: role.Description,
		BasedOnRole: role.BasedOnRole,
		IsActive:    role.IsActive,
		Permissions: grants,
		CreatedAt:   role.CreatedAt,
	}
}
