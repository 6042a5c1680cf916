package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de módulo (clasificación de licenciamiento).
const (
	ModuleTypeCore  = "core"
	ModuleTypeSuper = "super"
	ModuleTypeAddOn = "add-on"
)

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla modules).
const (
	ModuleExpenses   = "expenses"
	ModuleVendors    = "vendors"
	ModuleExpenseOCR = "expense-ocr"
	ModuleReports    = "reports"
	ModuleApprovals  = "approvals"
)

// Module es una unidad de funcionalidad licenciable que agrupa permisos.
// Una vez referenciado por registros de aprovisionamiento solo se permiten
// cambios de clasificación y precio, y siempre con entrada de auditoría.
type Module struct {
	ID             string
	Name           string
	ModuleType     string // ver constantes ModuleType*
	IsCoreRequired bool
	IsActive       bool
	DefaultPrice   decimal.Decimal // COP/mes
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CompanyModule representa la habilitación de un módulo en una empresa.
// Solo un super-admin lo crea o modifica; es el techo de lo que cualquier
// usuario de la empresa puede usar para ese módulo.
type CompanyModule struct {
	ID            string
	CompanyID     string
	ModuleID      string
	IsEnabled     bool
	EnabledBy     string
	EnabledAt     time.Time
	PriceOverride *decimal.Decimal // nil = precio por defecto del módulo
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Procedencia del acceso de un usuario a un módulo (para la UI y auditoría).
const (
	AccessSourceGranted      = "granted"
	AccessSourceRevoked      = "explicitly_revoked"
	AccessSourceNeverGranted = "never_granted"
)

// UserModule representa el acceso de un usuario a un módulo dentro de una
// empresa. Invariante: IsEnabled solo puede ser true mientras el CompanyModule
// correspondiente esté habilitado; deshabilitar el módulo a nivel empresa
// apaga todas las filas (cascada en la misma transacción).
type UserModule struct {
	ID        string
	UserID    string
	ModuleID  string
	CompanyID string
	IsEnabled bool
	GrantedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessSource deriva la procedencia del acceso a partir del estado de la fila.
// Una fila ausente se reporta como never_granted por el caso de uso.
func (um *UserModule) AccessSource() string {
	if um == nil {
		return AccessSourceNeverGranted
	}
	if um.IsEnabled {
		return AccessSourceGranted
	}
	return AccessSourceRevoked
}
