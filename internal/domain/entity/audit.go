package entity

import "time"

// Acciones auditables. Cada mutación de aprovisionamiento/roles/permisos
// escribe exactamente una entrada en la misma transacción que el cambio.
const (
	AuditModuleEnabled        = "module.enabled"
	AuditModuleDisabled       = "module.disabled" // incluye la cascada a user_modules
	AuditModuleReclassified   = "module.reclassified"
	AuditUserModuleGranted    = "user_module.granted"
	AuditUserModuleRevoked    = "user_module.revoked"
	AuditRoleCreated          = "role.created"
	AuditRoleUpdated          = "role.updated"
	AuditRoleAssigned         = "role.assigned"
	AuditDataPermGranted      = "data_permission.granted"
	AuditDataPermRevoked      = "data_permission.revoked"
	AuditDataPermBulkGranted  = "data_permission.bulk_granted"
)

// AuditLogEntry es un registro inmutable: nunca se actualiza ni se borra.
// Before/After guardan el estado serializado (JSON) del registro afectado.
type AuditLogEntry struct {
	ID            string
	ActorID       string
	SubjectUserID string // usuario afectado, vacío si el sujeto es la empresa
	CompanyID     string
	Action        string // ver constantes Audit*
	Before        []byte // JSONB, nil si el registro no existía
	After         []byte // JSONB
	AffectedUsers int    // solo relevante en cascadas (module.disabled)
	CreatedAt     time.Time
}
