// Package memory implementa los puertos de persistencia sobre mapas en
// memoria. Lo usan los tests de casos de uso y el escenario de extremo a
// extremo; el comportamiento transaccional (rollback ante error del callback)
// replica el del TxRunner de PostgreSQL.
package memory

import (
	"sync"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// Store contiene todo el estado. Las claves compuestas usan "|" como
// separador (IDs son UUIDs, no contienen '|').
type Store struct {
	mu sync.Mutex

	companies      map[string]*entity.Company
	users          map[string]*entity.User
	modules        map[string]*entity.Module
	companyModules map[string]*entity.CompanyModule     // companyID|moduleID
	userModules    map[string]*entity.UserModule        // userID|moduleID|companyID
	customRoles    map[string]*entity.CustomRole
	rolePerms      map[string][]entity.CustomRolePermission // roleID
	roleTemplates  map[string]*entity.RoleTemplate
	assignments    []*entity.RoleAssignment
	dataPerms      map[string]*entity.UserDataPermission // userID|companyID|key
	audit          []*entity.AuditLogEntry
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		companies:      make(map[string]*entity.Company),
		users:          make(map[string]*entity.User),
		modules:        make(map[string]*entity.Module),
		companyModules: make(map[string]*entity.CompanyModule),
		userModules:    make(map[string]*entity.UserModule),
		customRoles:    make(map[string]*entity.CustomRole),
		rolePerms:      make(map[string][]entity.CustomRolePermission),
		roleTemplates:  make(map[string]*entity.RoleTemplate),
		dataPerms:      make(map[string]*entity.UserDataPermission),
	}
}

// ── Siembra para tests ───────────────────────────────────────────────────────

// SeedCompany agrega una empresa.
func (s *Store) SeedCompany(c *entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.companies[c.ID] = &cp
}

// SeedUser agrega un usuario.
func (s *Store) SeedUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

// SeedModule agrega un módulo al catálogo.
func (s *Store) SeedModule(m *entity.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.modules[m.ID] = &cp
}

// SeedRoleTemplate agrega una plantilla global.
func (s *Store) SeedRoleTemplate(t *entity.RoleTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.roleTemplates[t.ID] = &cp
}

// AuditEntries devuelve una copia del libro de auditoría (para aserciones).
func (s *Store) AuditEntries() []*entity.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.AuditLogEntry, len(s.audit))
	for i, e := range s.audit {
		cp := *e
		out[i] = &cp
	}
	return out
}

// ── Snapshot / restore (semántica de transacción) ────────────────────────────

type snapshot struct {
	companyModules map[string]*entity.CompanyModule
	userModules    map[string]*entity.UserModule
	modules        map[string]*entity.Module
	customRoles    map[string]*entity.CustomRole
	rolePerms      map[string][]entity.CustomRolePermission
	assignments    []*entity.RoleAssignment
	dataPerms      map[string]*entity.UserDataPermission
	audit          []*entity.AuditLogEntry
}

// takeSnapshot copia el estado mutable por transacciones. Requiere mu tomado.
func (s *Store) takeSnapshot() snapshot {
	snap := snapshot{
		companyModules: make(map[string]*entity.CompanyModule, len(s.companyModules)),
		userModules:    make(map[string]*entity.UserModule, len(s.userModules)),
		modules:        make(map[string]*entity.Module, len(s.modules)),
		customRoles:    make(map[string]*entity.CustomRole, len(s.customRoles)),
		rolePerms:      make(map[string][]entity.CustomRolePermission, len(s.rolePerms)),
		assignments:    make([]*entity.RoleAssignment, len(s.assignments)),
		dataPerms:      make(map[string]*entity.UserDataPermission, len(s.dataPerms)),
		audit:          make([]*entity.AuditLogEntry, len(s.audit)),
	}
	for k, v := range s.companyModules {
		cp := *v
		snap.companyModules[k] = &cp
	}
	for k, v := range s.userModules {
		cp := *v
		snap.userModules[k] = &cp
	}
	for k, v := range s.modules {
		cp := *v
		snap.modules[k] = &cp
	}
	for k, v := range s.customRoles {
		cp := *v
		snap.customRoles[k] = &cp
	}
	for k, v := range s.rolePerms {
		perms := make([]entity.CustomRolePermission, len(v))
		copy(perms, v)
		snap.rolePerms[k] = perms
	}
	for i, a := range s.assignments {
		cp := *a
		snap.assignments[i] = &cp
	}
	for k, v := range s.dataPerms {
		cp := *v
		snap.dataPerms[k] = &cp
	}
	copy(snap.audit, s.audit)
	return snap
}

// restore repone el estado del snapshot. Requiere mu tomado.
func (s *Store) restore(snap snapshot) {
	s.companyModules = snap.companyModules
	s.userModules = snap.userModules
	s.modules = snap.modules
	s.customRoles = snap.customRoles
	s.rolePerms = snap.rolePerms
	s.assignments = snap.assignments
	s.dataPerms = snap.dataPerms
	s.audit = snap.audit
}
