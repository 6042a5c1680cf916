package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// Asegura que los adaptadores implementan sus puertos.
var _ repository.CompanyRepository = (*CompanyStore)(nil)
var _ repository.UserRepository = (*UserStore)(nil)
var _ repository.ModuleRepository = (*ModuleStore)(nil)
var _ repository.CompanyModuleRepository = (*CompanyModuleStore)(nil)
var _ repository.UserModuleRepository = (*UserModuleStore)(nil)
var _ repository.CustomRoleRepository = (*CustomRoleStore)(nil)
var _ repository.RoleTemplateRepository = (*RoleTemplateStore)(nil)
var _ repository.RoleAssignmentRepository = (*RoleAssignmentStore)(nil)
var _ repository.DataPermissionRepository = (*DataPermissionStore)(nil)
var _ repository.AuditLogRepository = (*AuditLogStore)(nil)

func cmKey(companyID, moduleID string) string       { return companyID + "|" + moduleID }
func umKey(userID, moduleID, companyID string) string { return userID + "|" + moduleID + "|" + companyID }
func dpKey(userID, companyID, key string) string      { return userID + "|" + companyID + "|" + key }

// ── Company ──────────────────────────────────────────────────────────────────

// CompanyStore adaptador en memoria de CompanyRepository.
type CompanyStore struct{ s *Store }

// Companies devuelve el adaptador de empresas.
func (s *Store) Companies() *CompanyStore { return &CompanyStore{s: s} }

func (r *CompanyStore) Create(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.NIT == c.NIT {
			return domain.ErrConflict
		}
	}
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyStore) GetByID(id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CompanyStore) GetByNIT(nit string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.NIT == nit {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CompanyStore) Update(c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.companies[c.ID] = &cp
	return nil
}

func (r *CompanyStore) List(limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Company
	for _, c := range r.s.companies {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// ── User ─────────────────────────────────────────────────────────────────────

// UserStore adaptador en memoria de UserRepository.
type UserStore struct{ s *Store }

// Users devuelve el adaptador de usuarios.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func (r *UserStore) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserStore) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserStore) GetByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserStore) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.CompanyID == companyID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserStore) Update(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *UserStore) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			cp := *u
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, limit, offset), nil
}

// ── Module ───────────────────────────────────────────────────────────────────

// ModuleStore adaptador en memoria del catálogo de módulos.
type ModuleStore struct{ s *Store }

// Modules devuelve el adaptador del catálogo.
func (s *Store) Modules() *ModuleStore { return &ModuleStore{s: s} }

func (r *ModuleStore) List(_ context.Context, onlyActive bool) ([]*entity.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Module
	for _, m := range r.s.modules {
		if onlyActive && !m.IsActive {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ModuleStore) GetByID(_ context.Context, id string) (*entity.Module, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.modules[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *ModuleStore) UpdateClassification(_ context.Context, moduleID, moduleType string, isCoreRequired bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.modules[moduleID]
	if !ok {
		return domain.ErrNotFound
	}
	m.ModuleType = moduleType
	m.IsCoreRequired = isCoreRequired
	m.UpdatedAt = time.Now()
	return nil
}

func (r *ModuleStore) CountCompaniesUsingAsCore(_ context.Context, moduleID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.modules[moduleID]
	if !ok || m.ModuleType != entity.ModuleTypeCore {
		return 0, nil
	}
	count := 0
	for _, cm := range r.s.companyModules {
		if cm.ModuleID == moduleID && cm.IsEnabled {
			count++
		}
	}
	return count, nil
}

// ── CompanyModule ────────────────────────────────────────────────────────────

// CompanyModuleStore adaptador en memoria del aprovisionamiento por empresa.
type CompanyModuleStore struct{ s *Store }

// CompanyModules devuelve el adaptador de aprovisionamiento.
func (s *Store) CompanyModules() *CompanyModuleStore { return &CompanyModuleStore{s: s} }

func (r *CompanyModuleStore) Get(_ context.Context, companyID, moduleID string) (*entity.CompanyModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cm, ok := r.s.companyModules[cmKey(companyID, moduleID)]
	if !ok {
		return nil, nil
	}
	cp := *cm
	return &cp, nil
}

func (r *CompanyModuleStore) Upsert(_ context.Context, cm *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *cm
	r.s.companyModules[cmKey(cm.CompanyID, cm.ModuleID)] = &cp
	return nil
}

func (r *CompanyModuleStore) ListByCompany(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.CompanyModule
	for _, cm := range r.s.companyModules {
		if cm.CompanyID == companyID {
			cp := *cm
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModuleID < list[j].ModuleID })
	return list, nil
}

func (r *CompanyModuleStore) EnabledModuleIDs(_ context.Context, companyID string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	enabled := make(map[string]bool)
	for _, cm := range r.s.companyModules {
		if cm.CompanyID == companyID && cm.IsEnabled {
			enabled[cm.ModuleID] = true
		}
	}
	return enabled, nil
}

// ── UserModule ───────────────────────────────────────────────────────────────

// UserModuleStore adaptador en memoria del acceso por usuario a módulos.
type UserModuleStore struct{ s *Store }

// UserModules devuelve el adaptador de acceso por usuario.
func (s *Store) UserModules() *UserModuleStore { return &UserModuleStore{s: s} }

func (r *UserModuleStore) Get(_ context.Context, userID, moduleID, companyID string) (*entity.UserModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	um, ok := r.s.userModules[umKey(userID, moduleID, companyID)]
	if !ok {
		return nil, nil
	}
	cp := *um
	return &cp, nil
}

func (r *UserModuleStore) Upsert(_ context.Context, um *entity.UserModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *um
	r.s.userModules[umKey(um.UserID, um.ModuleID, um.CompanyID)] = &cp
	return nil
}

func (r *UserModuleStore) ListByUser(_ context.Context, userID, companyID string) ([]*entity.UserModule, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.UserModule
	for _, um := range r.s.userModules {
		if um.UserID == userID && um.CompanyID == companyID {
			cp := *um
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModuleID < list[j].ModuleID })
	return list, nil
}

func (r *UserModuleStore) EnabledModuleIDs(_ context.Context, userID, companyID string) (map[string]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	enabled := make(map[string]bool)
	for _, um := range r.s.userModules {
		if um.UserID == userID && um.CompanyID == companyID && um.IsEnabled {
			enabled[um.ModuleID] = true
		}
	}
	return enabled, nil
}

func (r *UserModuleStore) DisableAllForCompanyModule(_ context.Context, companyID, moduleID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	changed := 0
	for _, um := range r.s.userModules {
		if um.CompanyID == companyID && um.ModuleID == moduleID && um.IsEnabled {
			um.IsEnabled = false
			um.UpdatedAt = time.Now()
			changed++
		}
	}
	return changed, nil
}

// ── CustomRole ───────────────────────────────────────────────────────────────

// CustomRoleStore adaptador en memoria de roles personalizados.
type CustomRoleStore struct{ s *Store }

// CustomRoles devuelve el adaptador de roles.
func (s *Store) CustomRoles() *CustomRoleStore { return &CustomRoleStore{s: s} }

func (r *CustomRoleStore) Create(_ context.Context, role *entity.CustomRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customRoles {
		if existing.CompanyID == role.CompanyID && existing.Name == role.Name {
			return domain.ErrConflict
		}
	}
	cp := *role
	r.s.customRoles[role.ID] = &cp
	return nil
}

func (r *CustomRoleStore) GetByID(_ context.Context, id string) (*entity.CustomRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.customRoles[id]
	if !ok {
		return nil, nil
	}
	cp := *role
	return &cp, nil
}

func (r *CustomRoleStore) ListByCompany(_ context.Context, companyID string) ([]*entity.CustomRole, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.CustomRole
	for _, role := range r.s.customRoles {
		if role.CompanyID == companyID {
			cp := *role
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CustomRoleStore) Update(_ context.Context, role *entity.CustomRole) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *role
	r.s.customRoles[role.ID] = &cp
	return nil
}

func (r *CustomRoleStore) ReplacePermissions(_ context.Context, roleID string, perms []entity.CustomRolePermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := make([]entity.CustomRolePermission, len(perms))
	copy(cp, perms)
	r.s.rolePerms[roleID] = cp
	return nil
}

func (r *CustomRoleStore) ListPermissions(_ context.Context, roleID string) ([]entity.CustomRolePermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	perms := r.s.rolePerms[roleID]
	out := make([]entity.CustomRolePermission, len(perms))
	copy(out, perms)
	sort.Slice(out, func(i, j int) bool { return out[i].PermissionKey < out[j].PermissionKey })
	return out, nil
}

// ── RoleTemplate ─────────────────────────────────────────────────────────────

// RoleTemplateStore adaptador en memoria de plantillas globales.
type RoleTemplateStore struct{ s *Store }

// RoleTemplates devuelve el adaptador de plantillas.
func (s *Store) RoleTemplates() *RoleTemplateStore { return &RoleTemplateStore{s: s} }

func (r *RoleTemplateStore) List(_ context.Context) ([]*entity.RoleTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.RoleTemplate
	for _, t := range r.s.roleTemplates {
		cp := *t
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *RoleTemplateStore) GetByID(_ context.Context, id string) (*entity.RoleTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.roleTemplates[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// ── RoleAssignment ───────────────────────────────────────────────────────────

// RoleAssignmentStore adaptador en memoria de asignaciones rol-usuario.
type RoleAssignmentStore struct{ s *Store }

// RoleAssignments devuelve el adaptador de asignaciones.
func (s *Store) RoleAssignments() *RoleAssignmentStore { return &RoleAssignmentStore{s: s} }

func (r *RoleAssignmentStore) ActiveForUser(_ context.Context, userID, companyID string) (*entity.RoleAssignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	nowT := time.Now()
	var latest *entity.RoleAssignment
	for _, a := range r.s.assignments {
		if a.UserID != userID || a.CompanyID != companyID || !a.IsCurrent(nowT) {
			continue
		}
		if latest == nil || a.AssignedAt.After(latest.AssignedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *RoleAssignmentStore) DeactivateForUser(_ context.Context, userID, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	nowT := time.Now()
	for _, a := range r.s.assignments {
		if a.UserID == userID && a.CompanyID == companyID && a.IsActive {
			a.IsActive = false
			a.ExpiresAt = &nowT
		}
	}
	return nil
}

func (r *RoleAssignmentStore) Create(_ context.Context, a *entity.RoleAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.assignments = append(r.s.assignments, &cp)
	return nil
}

// ── DataPermission ───────────────────────────────────────────────────────────

// DataPermissionStore adaptador en memoria de overrides por usuario.
type DataPermissionStore struct{ s *Store }

// DataPermissions devuelve el adaptador de overrides.
func (s *Store) DataPermissions() *DataPermissionStore { return &DataPermissionStore{s: s} }

func (r *DataPermissionStore) Upsert(_ context.Context, p *entity.UserDataPermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.dataPerms[dpKey(p.UserID, p.CompanyID, p.PermissionKey)] = &cp
	return nil
}

func (r *DataPermissionStore) ListByUser(_ context.Context, userID, companyID string) ([]entity.UserDataPermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []entity.UserDataPermission
	for _, p := range r.s.dataPerms {
		if p.UserID == userID && p.CompanyID == companyID {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PermissionKey < list[j].PermissionKey })
	return list, nil
}

func (r *DataPermissionStore) Get(_ context.Context, userID, companyID, permissionKey string) (*entity.UserDataPermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.dataPerms[dpKey(userID, companyID, permissionKey)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// ── AuditLog ─────────────────────────────────────────────────────────────────

// AuditLogStore adaptador en memoria del libro de auditoría.
type AuditLogStore struct{ s *Store }

// AuditLog devuelve el adaptador del libro.
func (s *Store) AuditLog() *AuditLogStore { return &AuditLogStore{s: s} }

func (r *AuditLogStore) Create(_ context.Context, e *entity.AuditLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.audit = append(r.s.audit, &cp)
	return nil
}

func (r *AuditLogStore) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.AuditLogEntry
	for _, e := range r.s.audit {
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		if f.SubjectUserID != "" && e.SubjectUserID != f.SubjectUserID {
			continue
		}
		if f.CompanyID != "" && e.CompanyID != f.CompanyID {
			continue
		}
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(list) {
			return nil, nil
		}
		list = list[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	return list, nil
}

// paginate aplica limit/offset a una lista ya ordenada.
func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
