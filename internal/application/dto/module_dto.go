package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModuleResponse salida del catálogo de módulos.
type ModuleResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ModuleType     string          `json:"module_type"`
	IsCoreRequired bool            `json:"is_core_required"`
	IsActive       bool            `json:"is_active"`
	DefaultPrice   decimal.Decimal `json:"default_price"`
}

// CompanyModuleResponse estado de aprovisionamiento de un módulo en una empresa.
type CompanyModuleResponse struct {
	CompanyID     string           `json:"company_id"`
	ModuleID      string           `json:"module_id"`
	IsEnabled     bool             `json:"is_enabled"`
	EnabledBy     string           `json:"enabled_by,omitempty"`
	EnabledAt     time.Time        `json:"enabled_at"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
}

// DisableModuleResponse resultado de la cascada de deshabilitación.
type DisableModuleResponse struct {
	CompanyModule CompanyModuleResponse `json:"company_module"`
	AffectedUsers int                   `json:"affected_users"`
}

// UserModuleResponse estado de un módulo para un usuario. company_enabled se
// incluye para que la UI pueda mostrar la cascada; los módulos no habilitados
// a nivel empresa se excluyen por completo del listado.
type UserModuleResponse struct {
	ModuleID       string `json:"module_id"`
	ModuleName     string `json:"module_name"`
	IsEnabled      bool   `json:"is_enabled"`
	CompanyEnabled bool   `json:"company_enabled"`
	AccessSource   string `json:"access_source"` // granted | explicitly_revoked | never_granted
}

// UserModuleListResponse listado de módulos de un usuario.
type UserModuleListResponse struct {
	UserID  string               `json:"user_id"`
	Modules []UserModuleResponse `json:"modules"`
}

// ChangeClassificationRequest entrada del PATCH de clasificación.
type ChangeClassificationRequest struct {
	ModuleType     string `json:"module_type" validate:"required,oneof=core super add-on"`
	IsCoreRequired bool   `json:"is_core_required"`
}
