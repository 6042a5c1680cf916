package dto

import "time"

// GrantDataPermissionRequest entrada para un override explícito.
type GrantDataPermissionRequest struct {
	PermissionKey string     `json:"permission_key" validate:"required"`
	IsGranted     bool       `json:"is_granted"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Reason        string     `json:"reason" validate:"required,min=3"`
}

// BulkGrantRequest lote de overrides; se aplica atómico: o todo o nada.
type BulkGrantRequest struct {
	Grants []GrantDataPermissionRequest `json:"grants" validate:"required,min=1,dive"`
}

// DataPermissionResponse salida de un override.
type DataPermissionResponse struct {
	UserID        string     `json:"user_id"`
	CompanyID     string     `json:"company_id"`
	PermissionKey string     `json:"permission_key"`
	IsGranted     bool       `json:"is_granted"`
	GrantedBy     string     `json:"granted_by"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Reason        string     `json:"reason"`
}

// EffectivePermissionResponse decisión resuelta de una clave, con procedencia.
type EffectivePermissionResponse struct {
	PermissionKey string `json:"permission_key"`
	Granted       bool   `json:"granted"`
	Source        string `json:"source"` // system_role | custom_role | override | module_gate | default_deny
}

// EffectivePermissionsResponse set resuelto completo de un usuario.
type EffectivePermissionsResponse struct {
	UserID      string                        `json:"user_id"`
	CompanyID   string                        `json:"company_id"`
	Permissions []EffectivePermissionResponse `json:"permissions"`
}

// CheckPermissionRequest entrada de la verificación puntual.
type CheckPermissionRequest struct {
	PermissionKey string `json:"permission_key" validate:"required"`
}

// CheckPermissionResponse salida de la verificación puntual.
type CheckPermissionResponse struct {
	PermissionKey string `json:"permission_key"`
	Granted       bool   `json:"granted"`
}

// SafeActionsRequest claves solicitadas por la UI.
type SafeActionsRequest struct {
	PermissionKeys []string `json:"permission_keys" validate:"required,min=1"`
}

// SafeActionsResponse partición allowed/disabled/hidden para la UI.
type SafeActionsResponse struct {
	Allowed  []string `json:"allowed"`
	Disabled []string `json:"disabled"`
	Hidden   []string `json:"hidden"`
}

// AuditEntryResponse salida de una entrada de auditoría.
type AuditEntryResponse struct {
	ID            string    `json:"id"`
	ActorID       string    `json:"actor_id"`
	SubjectUserID string    `json:"subject_user_id,omitempty"`
	CompanyID     string    `json:"company_id"`
	Action        string    `json:"action"`
	Before        string    `json:"before,omitempty"`
	After         string    `json:"after,omitempty"`
	AffectedUsers int       `json:"affected_users,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditListResponse listado filtrado del libro de auditoría.
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
