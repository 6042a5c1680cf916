package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// ProvisioningUseCase administra el aprovisionamiento de módulos por empresa.
// Habilitar/deshabilitar es una decisión de licenciamiento: solo el
// super-admin puede invocar estas operaciones (lo garantiza el middleware),
// y deshabilitar cascadea a todos los user_modules en la misma transacción.
type ProvisioningUseCase struct {
	tx             ProvisioningTx
	modules        repository.ModuleRepository
	companies      repository.CompanyRepository
	companyModules repository.CompanyModuleRepository
}

// NewProvisioningUseCase construye el caso de uso de aprovisionamiento.
func NewProvisioningUseCase(
	tx ProvisioningTx,
	modules repository.ModuleRepository,
	companies repository.CompanyRepository,
	companyModules repository.CompanyModuleRepository,
) *ProvisioningUseCase {
	return &ProvisioningUseCase{tx: tx, modules: modules, companies: companies, companyModules: companyModules}
}

// ListModules devuelve el catálogo de módulos activos.
func (uc *ProvisioningUseCase) ListModules(ctx context.Context) ([]dto.ModuleResponse, error) {
	list, err := uc.modules.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ModuleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, moduleToResponse(m))
	}
	return out, nil
}

// IsModuleEnabled informa si la empresa tiene el módulo habilitado. Lo usa el
// middleware RequireModule como compuerta de rutas atadas a un módulo.
func (uc *ProvisioningUseCase) IsModuleEnabled(ctx context.Context, companyID, moduleID string) (bool, error) {
	cm, err := uc.companyModules.Get(ctx, companyID, moduleID)
	if err != nil {
		return false, err
	}
	return cm != nil && cm.IsEnabled, nil
}

// ListCompanyModules devuelve el estado de aprovisionamiento de una empresa.
func (uc *ProvisioningUseCase) ListCompanyModules(ctx context.Context, companyID string) ([]dto.CompanyModuleResponse, error) {
	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.companyModules.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyModuleResponse, 0, len(list))
	for _, cm := range list {
		out = append(out, companyModuleToResponse(cm))
	}
	return out, nil
}

// EnableModule habilita un módulo para una empresa (upsert idempotente).
// Habilitar a nivel empresa no concede acceso a ningún usuario por sí solo,
// así que no hay cascada. Repetir la llamada sobre un módulo ya habilitado es
// un no-op exitoso y no escribe una segunda entrada de auditoría.
func (uc *ProvisioningUseCase) EnableModule(ctx context.Context, companyID, moduleID, actorID string) (*dto.CompanyModuleResponse, error) {
	if err := uc.checkPair(ctx, companyID, moduleID); err != nil {
		return nil, err
	}

	var result *entity.CompanyModule
	err := uc.tx.RunProvisioning(ctx, func(
		companyModules repository.CompanyModuleRepository,
		_ repository.UserModuleRepository,
		audit repository.AuditLogRepository,
	) error {
		existing, err := companyModules.Get(ctx, companyID, moduleID)
		if err != nil {
			return err
		}
		if existing != nil && existing.IsEnabled {
			result = existing // ya habilitado: idempotente, sin mutación ni auditoría
			return nil
		}

		now := time.Now()
		var before []byte
		cm := existing
		if cm == nil {
			cm = &entity.CompanyModule{
				ID:        uuid.New().String(),
				CompanyID: companyID,
				ModuleID:  moduleID,
				CreatedAt: now,
			}
		} else {
			before = marshalState(existing)
		}
		cm.IsEnabled = true
		cm.EnabledBy = actorID
		cm.EnabledAt = now
		cm.UpdatedAt = now
		if err := companyModules.Upsert(ctx, cm); err != nil {
			return fmt.Errorf("habilitar módulo: %w", err)
		}
		result = cm
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:        uuid.New().String(),
			ActorID:   actorID,
			CompanyID: companyID,
			Action:    entity.AuditModuleEnabled,
			Before:    before,
			After:     marshalState(cm),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := companyModuleToResponse(result)
	return &resp, nil
}

// DisableModule deshabilita el módulo a nivel empresa y, en la MISMA
// transacción, apaga toda fila user_module habilitada de (company, module) y
// escribe una única entrada de auditoría con el conteo de afectados. Una
// cascada parcial es una violación de corrección, no un estado degradado
// aceptable; cualquier fallo interno revierte todo.
//
// Deshabilitar un par sin fila habilitada previa se absorbe como no-op
// exitoso con cero afectados, para mantener la operación idempotente.
func (uc *ProvisioningUseCase) DisableModule(ctx context.Context, companyID, moduleID, actorID string) (*dto.DisableModuleResponse, error) {
	if err := uc.checkPair(ctx, companyID, moduleID); err != nil {
		return nil, err
	}

	var out dto.DisableModuleResponse
	err := uc.tx.RunProvisioning(ctx, func(
		companyModules repository.CompanyModuleRepository,
		userModules repository.UserModuleRepository,
		audit repository.AuditLogRepository,
	) error {
		existing, err := companyModules.Get(ctx, companyID, moduleID)
		if err != nil {
			return err
		}
		if existing == nil || !existing.IsEnabled {
			// Nada que deshabilitar: no-op idempotente, sin entrada de cascada.
			if existing != nil {
				out.CompanyModule = companyModuleToResponse(existing)
			} else {
				out.CompanyModule = dto.CompanyModuleResponse{CompanyID: companyID, ModuleID: moduleID}
			}
			out.AffectedUsers = 0
			return nil
		}

		now := time.Now()
		before := marshalState(existing)
		existing.IsEnabled = false
		existing.UpdatedAt = now
		if err := companyModules.Upsert(ctx, existing); err != nil {
			return fmt.Errorf("deshabilitar módulo: %w", err)
		}

		affected, err := userModules.DisableAllForCompanyModule(ctx, companyID, moduleID)
		if err != nil {
			return fmt.Errorf("cascada user_modules: %w", err)
		}

		out.CompanyModule = companyModuleToResponse(existing)
		out.AffectedUsers = affected
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ActorID:       actorID,
			CompanyID:     companyID,
			Action:        entity.AuditModuleDisabled,
			Before:        before,
			After:         marshalState(existing),
			AffectedUsers: affected,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeClassification cambia module_type/is_core_required de un módulo.
// Se rechaza mientras haya empresas usándolo como core.
func (uc *ProvisioningUseCase) ChangeClassification(ctx context.Context, moduleID, actorID string, in dto.ChangeClassificationRequest) (*dto.ModuleResponse, error) {
	module, err := uc.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, domain.ErrNotFound
	}
	if module.ModuleType == entity.ModuleTypeCore && in.ModuleType != entity.ModuleTypeCore {
		inUse, err := uc.modules.CountCompaniesUsingAsCore(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		if inUse > 0 {
			return nil, fmt.Errorf("%w: %d empresas usan el módulo como core", domain.ErrValidation, inUse)
		}
	}

	err = uc.tx.RunModuleCatalog(ctx, func(
		modules repository.ModuleRepository,
		audit repository.AuditLogRepository,
	) error {
		before := marshalState(module)
		if err := modules.UpdateClassification(ctx, moduleID, in.ModuleType, in.IsCoreRequired); err != nil {
			return err
		}
		now := time.Now()
		after := *module
		after.ModuleType = in.ModuleType
		after.IsCoreRequired = in.IsCoreRequired
		after.UpdatedAt = now
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:        uuid.New().String(),
			ActorID:   actorID,
			Action:    entity.AuditModuleReclassified,
			Before:    before,
			After:     marshalState(&after),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	module.ModuleType = in.ModuleType
	module.IsCoreRequired = in.IsCoreRequired
	resp := moduleToResponse(module)
	return &resp, nil
}

// checkPair valida que empresa y módulo existen y el módulo está activo.
func (uc *ProvisioningUseCase) checkPair(ctx context.Context, companyID, moduleID string) error {
	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	module, err := uc.modules.GetByID(ctx, moduleID)
	if err != nil {
		return err
	}
	if module == nil || !module.IsActive {
		return domain.ErrNotFound
	}
	return nil
}

// marshalState serializa el estado de un registro para before/after de
// auditoría. nil devuelve nil (el registro no existía).
func marshalState(v any) []byte {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func moduleToResponse(m *entity.Module) dto.ModuleResponse {
	return dto.ModuleResponse{
		ID:             m.ID,
		Name:           m.Name,
		ModuleType:     m.ModuleType,
		IsCoreRequired: m.IsCoreRequired,
		IsActive:       m.IsActive,
		DefaultPrice:   m.DefaultPrice,
	}
}

func companyModuleToResponse(cm *entity.CompanyModule) dto.CompanyModuleResponse {
	return dto.CompanyModuleResponse{
		CompanyID:     cm.CompanyID,
		ModuleID:      cm.ModuleID,
		IsEnabled:     cm.IsEnabled,
		EnabledBy:     cm.EnabledBy,
		EnabledAt:     cm.EnabledAt,
		PriceOverride: cm.PriceOverride,
	}
}
