package repository

import (
	"context"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// ModuleRepository define el puerto para el catálogo de módulos licenciables.
type ModuleRepository interface {
	List(ctx context.Context, onlyActive bool) ([]*entity.Module, error)
	GetByID(ctx context.Context, id string) (*entity.Module, error)
	// UpdateClassification cambia module_type/is_core_required. El precio y la
	// clasificación son los únicos campos mutables una vez que existen
	// registros de aprovisionamiento que referencian el módulo.
	UpdateClassification(ctx context.Context, moduleID, moduleType string, isCoreRequired bool) error
	// CountCompaniesUsingAsCore cuenta empresas con el módulo habilitado
	// mientras está clasificado como core (bloquea la reclasificación).
	CountCompaniesUsingAsCore(ctx context.Context, moduleID string) (int, error)
}

// CompanyModuleRepository define el puerto para el aprovisionamiento por empresa.
type CompanyModuleRepository interface {
	Get(ctx context.Context, companyID, moduleID string) (*entity.CompanyModule, error)
	// Upsert inserta o actualiza por la clave única (company_id, module_id).
	Upsert(ctx context.Context, cm *entity.CompanyModule) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
	// EnabledModuleIDs devuelve el set de módulos habilitados de la empresa,
	// listo para el filtro del resolver.
	EnabledModuleIDs(ctx context.Context, companyID string) (map[string]bool, error)
}

// UserModuleRepository define el puerto para el acceso por usuario a módulos.
type UserModuleRepository interface {
	Get(ctx context.Context, userID, moduleID, companyID string) (*entity.UserModule, error)
	// Upsert inserta o actualiza por la clave única (user_id, module_id, company_id).
	Upsert(ctx context.Context, um *entity.UserModule) error
	ListByUser(ctx context.Context, userID, companyID string) ([]*entity.UserModule, error)
	EnabledModuleIDs(ctx context.Context, userID, companyID string) (map[string]bool, error)
	// DisableAllForCompanyModule apaga todas las filas habilitadas de
	// (company_id, module_id) y devuelve cuántas cambió. Es el paso (b) de la
	// cascada de disableModule; debe ejecutarse dentro de la misma transacción
	// que el cambio del CompanyModule.
	DisableAllForCompanyModule(ctx context.Context, companyID, moduleID string) (int, error)
}
