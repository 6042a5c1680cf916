package usecase_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gastos-pro/internal/application/usecase"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture compartido: dos empresas (acme y globex), usuarios y el catálogo de
// módulos completo. Todo corre sobre el store en memoria, que replica la
// semántica transaccional del TxRunner de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

const (
	acmeID   = "11111111-0000-0000-0000-000000000001"
	globexID = "11111111-0000-0000-0000-000000000002"

	superAdminID = "22222222-0000-0000-0000-000000000001" // super-admin, acme
	adminAnaID   = "22222222-0000-0000-0000-000000000002" // admin, acme
	userCarlosID = "22222222-0000-0000-0000-000000000003" // user, acme
	userDianaID  = "22222222-0000-0000-0000-000000000004" // user, acme
	userGlobexID = "22222222-0000-0000-0000-000000000005" // user, globex
)

// newSeededStore construye el store con empresas, usuarios y catálogo.
func newSeededStore() *memory.Store {
	s := memory.NewStore()
	now := time.Now()

	s.SeedCompany(&entity.Company{ID: acmeID, Name: "Acme Colombia SAS", NIT: "900111222", Status: "active", CreatedAt: now, UpdatedAt: now})
	s.SeedCompany(&entity.Company{ID: globexID, Name: "Globex Ltda", NIT: "900333444", Status: "active", CreatedAt: now, UpdatedAt: now})

	seedUser := func(id, companyID, email, role string) {
		s.SeedUser(&entity.User{
			ID: id, CompanyID: companyID, Email: email, Name: email,
			Role: role, Status: "active", CreatedAt: now, UpdatedAt: now,
		})
	}
	seedUser(superAdminID, acmeID, "root@acme.co", entity.RoleSuperAdmin)
	seedUser(adminAnaID, acmeID, "ana@acme.co", entity.RoleAdmin)
	seedUser(userCarlosID, acmeID, "carlos@acme.co", entity.RoleUser)
	seedUser(userDianaID, acmeID, "diana@acme.co", entity.RoleUser)
	seedUser(userGlobexID, globexID, "bob@globex.co", entity.RoleUser)

	seedModule := func(id, name, moduleType string, core bool, price int64) {
		s.SeedModule(&entity.Module{
			ID: id, Name: name, ModuleType: moduleType, IsCoreRequired: core,
			IsActive: true, DefaultPrice: decimal.NewFromInt(price),
			CreatedAt: now, UpdatedAt: now,
		})
	}
	seedModule(entity.ModuleExpenses, "Gastos", entity.ModuleTypeCore, true, 0)
	seedModule(entity.ModuleVendors, "Proveedores", entity.ModuleTypeCore, true, 0)
	seedModule(entity.ModuleExpenseOCR, "OCR de facturas", entity.ModuleTypeAddOn, false, 45000)
	seedModule(entity.ModuleReports, "Reportes", entity.ModuleTypeAddOn, false, 30000)
	seedModule(entity.ModuleApprovals, "Aprobaciones", entity.ModuleTypeSuper, false, 60000)

	return s
}

// engine agrupa todos los casos de uso cableados sobre un mismo store.
type engine struct {
	store        *memory.Store
	provisioning *usecase.ProvisioningUseCase
	userModules  *usecase.UserModuleUseCase
	roles        *usecase.RoleUseCase
	dataPerms    *usecase.DataPermissionUseCase
	resolver     *usecase.ResolverUseCase
}

// newEngine cablea los casos de uso como lo hace cmd/api/main.go.
func newEngine() *engine {
	s := newSeededStore()
	return &engine{
		store:        s,
		provisioning: usecase.NewProvisioningUseCase(s, s.Modules(), s.Companies(), s.CompanyModules()),
		userModules:  usecase.NewUserModuleUseCase(s, s.Users(), s.Modules(), s.CompanyModules(), s.UserModules()),
		roles:        usecase.NewRoleUseCase(s, s.CustomRoles(), s.RoleTemplates(), s.RoleAssignments(), s.CompanyModules(), s.Users()),
		dataPerms:    usecase.NewDataPermissionUseCase(s, s.Users(), s.DataPermissions(), s.AuditLog()),
		resolver:     usecase.NewResolverUseCase(s.Users(), s.CustomRoles(), s.RoleAssignments(), s.CompanyModules(), s.UserModules(), s.DataPermissions()),
	}
}

// auditCount cuenta entradas del libro por acción.
func (e *engine) auditCount(action string) int {
	n := 0
	for _, entry := range e.store.AuditEntries() {
		if entry.Action == action {
			n++
		}
	}
	return n
}
