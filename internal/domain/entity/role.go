package entity

import "time"

// CustomRole es un rol definido por la empresa. Al asignarse, sustituye por
// completo la línea base del rol de sistema dentro del contexto de esa empresa
// (no se mezclan: es un reemplazo elegido en el momento de la asignación).
type CustomRole struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	BasedOnRole string // rol de sistema usado como referencia, opcional
	IsActive    bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomRolePermission es una clave del set de permisos de un CustomRole.
// El set se reemplaza completo (delete-all-then-insert) en cada actualización.
type CustomRolePermission struct {
	ID            string
	RoleID        string
	PermissionKey string
	IsGranted     bool
}

// RoleTemplate es una plantilla global reutilizable. Solo siembra CustomRoles
// nuevos; nunca se consulta en tiempo de resolución.
type RoleTemplate struct {
	ID              string
	Name            string
	Description     string
	BasePermissions []string
	RequiredModules []string
	TargetUseCases  []string
	CreatedAt       time.Time
}

// RoleAssignment vincula un usuario con un CustomRole en una empresa.
// Un usuario tiene a lo sumo una asignación activa por empresa: asignar una
// nueva expira (soft) la anterior en la misma transacción.
type RoleAssignment struct {
	ID         string
	UserID     string
	CompanyID  string
	RoleID     string
	AssignedBy string
	AssignedAt time.Time
	ExpiresAt  *time.Time // nil = vigente hasta ser sustituida
	IsActive   bool
}

// IsCurrent informa si la asignación está vigente respecto de now.
func (a *RoleAssignment) IsCurrent(now time.Time) bool {
	if a == nil || !a.IsActive {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}
