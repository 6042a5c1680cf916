package entity

import "time"

// Catálogo cerrado de claves de permiso. Cada clave puede estar atada a un
// módulo; si el módulo no está habilitado para la empresa Y el usuario, la
// clave se descarta durante la resolución (ver internal/domain/authz).
const (
	PermExpensesView   = "expenses.view"
	PermExpensesCreate = "expenses.create"
	PermExpensesEdit   = "expenses.edit"
	PermExpensesDelete = "expenses.delete"
	PermExpenseOCRUse  = "expense-ocr.use"
	PermApprovalsUse   = "approvals.approve"
	PermVendorsView    = "vendors.view"
	PermVendorsManage  = "vendors.manage"
	PermReportsView    = "reports.view"
	PermReportsExport  = "reports.export"
	PermUsersManage    = "users.manage"
	PermRolesManage    = "roles.manage"
	PermDataPermsGrant = "permissions.grant"
	PermCompanyConfig  = "company.settings"
	PermModulesManage  = "modules.manage"
	PermAuditView      = "audit.view"
)

// permissionModules mapea cada clave al módulo que la habilita.
// Las claves administrativas (users.manage, roles.manage, etc.) no dependen
// de ningún módulo y se resuelven solo por rol.
var permissionModules = map[string]string{
	PermExpensesView:   ModuleExpenses,
	PermExpensesCreate: ModuleExpenses,
	PermExpensesEdit:   ModuleExpenses,
	PermExpensesDelete: ModuleExpenses,
	PermExpenseOCRUse:  ModuleExpenseOCR,
	PermApprovalsUse:   ModuleApprovals,
	PermVendorsView:    ModuleVendors,
	PermVendorsManage:  ModuleVendors,
	PermReportsView:    ModuleReports,
	PermReportsExport:  ModuleReports,
}

// AllPermissionKeys devuelve el catálogo completo en orden estable.
func AllPermissionKeys() []string {
	return []string{
		PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
		PermExpenseOCRUse, PermApprovalsUse,
		PermVendorsView, PermVendorsManage,
		PermReportsView, PermReportsExport,
		PermUsersManage, PermRolesManage, PermDataPermsGrant,
		PermCompanyConfig, PermModulesManage, PermAuditView,
	}
}

// IsKnownPermission valida que la clave pertenece al catálogo cerrado.
func IsKnownPermission(key string) bool {
	for _, k := range AllPermissionKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// ModuleForPermission devuelve el ID del módulo que controla la clave,
// o "" si la clave no está atada a ningún módulo.
func ModuleForPermission(key string) string {
	return permissionModules[key]
}

// systemRolePermissions son las líneas base estáticas por rol de sistema.
var systemRolePermissions = map[string][]string{
	RoleUser: {
		PermExpensesView, PermExpensesCreate, PermExpensesEdit,
		PermExpenseOCRUse, PermVendorsView, PermReportsView,
	},
	RoleAdmin: {
		PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
		PermExpenseOCRUse, PermApprovalsUse,
		PermVendorsView, PermVendorsManage,
		PermReportsView, PermReportsExport,
		PermUsersManage, PermRolesManage, PermDataPermsGrant, PermCompanyConfig,
	},
	RoleSuperAdmin: {
		PermExpensesView, PermExpensesCreate, PermExpensesEdit, PermExpensesDelete,
		PermExpenseOCRUse, PermApprovalsUse,
		PermVendorsView, PermVendorsManage,
		PermReportsView, PermReportsExport,
		PermUsersManage, PermRolesManage, PermDataPermsGrant, PermCompanyConfig,
		PermModulesManage, PermAuditView,
	},
}

// SystemRolePermissions devuelve una copia de la línea base del rol de sistema.
// Rol desconocido devuelve vacío (default deny).
func SystemRolePermissions(role string) []string {
	base := systemRolePermissions[role]
	out := make([]string, len(base))
	copy(out, base)
	return out
}

// UserDataPermission es un override explícito por usuario y empresa.
// Prevalece sobre lo que produzca la resolución por rol/módulo, en ambas
// direcciones. Una fila expirada se trata como ausente, no como denegación.
type UserDataPermission struct {
	ID            string
	UserID        string
	CompanyID     string
	PermissionKey string
	IsGranted     bool
	GrantedBy     string
	ExpiresAt     *time.Time // nil = sin vencimiento
	Reason        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsExpired informa si el override venció respecto de now.
func (p *UserDataPermission) IsExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}
