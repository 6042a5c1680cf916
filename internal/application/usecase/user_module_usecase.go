package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
	"github.com/jhoicas/gastos-pro/internal/domain/repository"
)

// UserModuleUseCase administra el acceso por usuario a los módulos que su
// empresa tiene habilitados. El CompanyModule es el techo: conceder exige que
// el módulo esté habilitado a nivel empresa; revocar se permite siempre.
type UserModuleUseCase struct {
	tx             ProvisioningTx
	users          repository.UserRepository
	modules        repository.ModuleRepository
	companyModules repository.CompanyModuleRepository
	userModules    repository.UserModuleRepository
}

// NewUserModuleUseCase construye el caso de uso de módulos por usuario.
func NewUserModuleUseCase(
	tx ProvisioningTx,
	users repository.UserRepository,
	modules repository.ModuleRepository,
	companyModules repository.CompanyModuleRepository,
	userModules repository.UserModuleRepository,
) *UserModuleUseCase {
	return &UserModuleUseCase{
		tx: tx, users: users, modules: modules,
		companyModules: companyModules, userModules: userModules,
	}
}

// Grant concede un módulo a un usuario. Falla con ErrPreconditionFailed si el
// CompanyModule correspondiente no está habilitado (ningún usuario puede
// tener un módulo que su empresa no licenció).
func (uc *UserModuleUseCase) Grant(ctx context.Context, userID, moduleID, companyID, actorID string) (*dto.UserModuleResponse, error) {
	if err := uc.checkUser(userID, companyID); err != nil {
		return nil, err
	}
	cm, err := uc.companyModules.Get(ctx, companyID, moduleID)
	if err != nil {
		return nil, err
	}
	if cm == nil || !cm.IsEnabled {
		return nil, fmt.Errorf("%w: %v", domain.ErrPreconditionFailed, domain.ErrModuleNotEnabled)
	}
	return uc.setEnabled(ctx, userID, moduleID, companyID, actorID, true)
}

// Revoke revoca el módulo de un usuario. Si no existe fila, crea una
// deshabilitada: así las consultas futuras distinguen explicitly_revoked de
// never_granted.
func (uc *UserModuleUseCase) Revoke(ctx context.Context, userID, moduleID, companyID, actorID string) (*dto.UserModuleResponse, error) {
	if err := uc.checkUser(userID, companyID); err != nil {
		return nil, err
	}
	module, err := uc.modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, domain.ErrNotFound
	}
	return uc.setEnabled(ctx, userID, moduleID, companyID, actorID, false)
}

// setEnabled hace el upsert del UserModule y su auditoría en una transacción.
func (uc *UserModuleUseCase) setEnabled(ctx context.Context, userID, moduleID, companyID, actorID string, enabled bool) (*dto.UserModuleResponse, error) {
	var result *entity.UserModule
	err := uc.tx.RunProvisioning(ctx, func(
		_ repository.CompanyModuleRepository,
		userModules repository.UserModuleRepository,
		audit repository.AuditLogRepository,
	) error {
		existing, err := userModules.Get(ctx, userID, moduleID, companyID)
		if err != nil {
			return err
		}
		now := time.Now()
		var before []byte
		um := existing
		if um == nil {
			um = &entity.UserModule{
				ID:        uuid.New().String(),
				UserID:    userID,
				ModuleID:  moduleID,
				CompanyID: companyID,
				CreatedAt: now,
			}
		} else {
			before = marshalState(existing)
		}
		um.IsEnabled = enabled
		um.GrantedBy = actorID
		um.UpdatedAt = now
		if err := userModules.Upsert(ctx, um); err != nil {
			return fmt.Errorf("upsert user_module: %w", err)
		}
		result = um

		action := entity.AuditUserModuleGranted
		if !enabled {
			action = entity.AuditUserModuleRevoked
		}
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ActorID:       actorID,
			SubjectUserID: userID,
			CompanyID:     companyID,
			Action:        action,
			Before:        before,
			After:         marshalState(um),
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.UserModuleResponse{
		ModuleID:       result.ModuleID,
		IsEnabled:      result.IsEnabled,
		CompanyEnabled: true,
		AccessSource:   result.AccessSource(),
	}, nil
}

// ListForUser devuelve, por cada módulo habilitado a nivel empresa, el estado
// del usuario (is_enabled por defecto false si no hay fila) más
// company_enabled para la cascada en UI. Los módulos NO habilitados a nivel
// empresa se excluyen por completo: no se filtra la existencia de
// funcionalidades sin licenciar.
func (uc *UserModuleUseCase) ListForUser(ctx context.Context, userID, companyID string) (*dto.UserModuleListResponse, error) {
	if err := uc.checkUser(userID, companyID); err != nil {
		return nil, err
	}
	companyList, err := uc.companyModules.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	userList, err := uc.userModules.ListByUser(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	byModule := make(map[string]*entity.UserModule, len(userList))
	for _, um := range userList {
		byModule[um.ModuleID] = um
	}
	catalog, err := uc.modules.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(catalog))
	for _, m := range catalog {
		names[m.ID] = m.Name
	}

	out := &dto.UserModuleListResponse{UserID: userID, Modules: []dto.UserModuleResponse{}}
	for _, cm := range companyList {
		if !cm.IsEnabled {
			continue
		}
		um := byModule[cm.ModuleID]
		out.Modules = append(out.Modules, dto.UserModuleResponse{
			ModuleID:       cm.ModuleID,
			ModuleName:     names[cm.ModuleID],
			IsEnabled:      um != nil && um.IsEnabled,
			CompanyEnabled: true,
			AccessSource:   um.AccessSource(),
		})
	}
	return out, nil
}

// checkUser valida que el usuario existe y pertenece a la empresa. Un
// usuario de otra empresa se reporta como no encontrado, nunca como
// prohibido: no se revela la existencia de datos de otros tenants.
func (uc *UserModuleUseCase) checkUser(userID, companyID string) error {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}
