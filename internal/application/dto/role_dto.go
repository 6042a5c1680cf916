package dto

import "time"

// PermissionGrant una clave dentro del set de un rol personalizado.
type PermissionGrant struct {
	PermissionKey string `json:"permission_key" validate:"required"`
	IsGranted     bool   `json:"is_granted"`
}

// CreateCustomRoleRequest entrada para crear un rol personalizado.
type CreateCustomRoleRequest struct {
	Name        string            `json:"name" validate:"required,min=1,max=100"`
	Description string            `json:"description"`
	BasedOnRole string            `json:"based_on_role" validate:"omitempty,oneof=user admin super-admin"`
	Permissions []PermissionGrant `json:"permissions" validate:"required,dive"`
}

// CreateRoleFromTemplateRequest personalizaciones sobre una plantilla.
// finalPermissions = base ∪ additional \ removed (la remoción siempre gana).
type CreateRoleFromTemplateRequest struct {
	Name                  string   `json:"name" validate:"required,min=1,max=100"`
	Description           string   `json:"description"`
	AdditionalPermissions []string `json:"additional_permissions"`
	RemovedPermissions    []string `json:"removed_permissions"`
}

// AssignRoleRequest entrada para asignar un rol a un usuario.
type AssignRoleRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

// CustomRoleResponse salida de un rol personalizado con su set de permisos.
type CustomRoleResponse struct {
	ID          string            `json:"id"`
	CompanyID   string            `json:"company_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	BasedOnRole string            `json:"based_on_role,omitempty"`
	IsActive    bool              `json:"is_active"`
	Permissions []PermissionGrant `json:"permissions"`
	CreatedAt   time.Time         `json:"created_at"`
}

// RoleTemplateResponse salida de una plantilla global.
type RoleTemplateResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	BasePermissions []string `json:"base_permissions"`
	RequiredModules []string `json:"required_modules"`
	TargetUseCases  []string `json:"target_use_cases"`
}

// RoleAssignmentResponse salida de una asignación.
type RoleAssignmentResponse struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	RoleID     string     `json:"role_id"`
	AssignedBy string     `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// RoleValidationResponse issues encontrados al validar una asignación.
// La lista permite a la UI mostrar todos los problemas a la vez.
type RoleValidationResponse struct {
	Valid  bool     `json:"valid"`
	Issues []string `json:"issues,omitempty"`
}
