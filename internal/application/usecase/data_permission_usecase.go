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

// DataPermissionUseCase administra los overrides finos por usuario
// (UserDataPermission): concesiones o revocaciones explícitas de claves
// individuales, con vencimiento opcional. Un override no vencido prevalece
// sobre cualquier resultado de rol/módulo en el resolver.
type DataPermissionUseCase struct {
	tx    DataPermissionTx
	users repository.UserRepository
	perms repository.DataPermissionRepository
	audit repository.AuditLogRepository // solo lectura (consultas del libro)
}

// NewDataPermissionUseCase construye el caso de uso de overrides.
func NewDataPermissionUseCase(
	tx DataPermissionTx,
	users repository.UserRepository,
	perms repository.DataPermissionRepository,
	audit repository.AuditLogRepository,
) *DataPermissionUseCase {
	return &DataPermissionUseCase{tx: tx, users: users, perms: perms, audit: audit}
}

// Grant aplica un override (conceder o revocar según is_granted) con su
// entrada de auditoría en la misma transacción.
func (uc *DataPermissionUseCase) Grant(ctx context.Context, userID, companyID, actorID string, in dto.GrantDataPermissionRequest) (*dto.DataPermissionResponse, error) {
	if err := uc.validate(userID, companyID, in); err != nil {
		return nil, err
	}
	var result *entity.UserDataPermission
	err := uc.tx.RunDataPermissions(ctx, func(
		perms repository.DataPermissionRepository,
		audit repository.AuditLogRepository,
	) error {
		var err error
		result, err = uc.applyOne(ctx, perms, audit, userID, companyID, actorID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := dataPermToResponse(result)
	return &resp, nil
}

// BulkGrant aplica un lote completo de overrides en UNA transacción: si
// cualquier elemento falla, ninguno queda aplicado. El lote es una sola
// operación y escribe una sola entrada de auditoría resumen.
func (uc *DataPermissionUseCase) BulkGrant(ctx context.Context, userID, companyID, actorID string, in dto.BulkGrantRequest) ([]dto.DataPermissionResponse, error) {
	if len(in.Grants) == 0 {
		return nil, fmt.Errorf("%w: el lote no puede estar vacío", domain.ErrValidation)
	}
	for _, g := range in.Grants {
		if err := uc.validate(userID, companyID, g); err != nil {
			return nil, err
		}
	}

	out := make([]dto.DataPermissionResponse, 0, len(in.Grants))
	err := uc.tx.RunDataPermissions(ctx, func(
		perms repository.DataPermissionRepository,
		audit repository.AuditLogRepository,
	) error {
		applied := make([]*entity.UserDataPermission, 0, len(in.Grants))
		for _, g := range in.Grants {
			p, err := uc.applyOne(ctx, perms, nil, userID, companyID, actorID, g)
			if err != nil {
				return err
			}
			applied = append(applied, p)
		}
		for _, p := range applied {
			out = append(out, dataPermToResponse(p))
		}
		return audit.Create(ctx, &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ActorID:       actorID,
			SubjectUserID: userID,
			CompanyID:     companyID,
			Action:        entity.AuditDataPermBulkGranted,
			After:         marshalState(applied),
			CreatedAt:     time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyOne hace el upsert de un override; si audit no es nil escribe también
// su entrada individual (el bulk audita el lote completo en una sola).
func (uc *DataPermissionUseCase) applyOne(
	ctx context.Context,
	perms repository.DataPermissionRepository,
	audit repository.AuditLogRepository,
	userID, companyID, actorID string,
	in dto.GrantDataPermissionRequest,
) (*entity.UserDataPermission, error) {
	existing, err := perms.Get(ctx, userID, companyID, in.PermissionKey)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	var before []byte
	p := existing
	if p == nil {
		p = &entity.UserDataPermission{
			ID:            uuid.New().String(),
			UserID:        userID,
			CompanyID:     companyID,
			PermissionKey: in.PermissionKey,
			CreatedAt:     now,
		}
	} else {
		before = marshalState(existing)
	}
	p.IsGranted = in.IsGranted
	p.GrantedBy = actorID
	p.ExpiresAt = in.ExpiresAt
	p.Reason = in.Reason
	p.UpdatedAt = now
	if err := perms.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert data permission: %w", err)
	}
	if audit != nil {
		action := entity.AuditDataPermGranted
		if !in.IsGranted {
			action = entity.AuditDataPermRevoked
		}
		if err := audit.Create(ctx, &entity.AuditLogEntry{
			ID:            uuid.New().String(),
			ActorID:       actorID,
			SubjectUserID: userID,
			CompanyID:     companyID,
			Action:        action,
			Before:        before,
			After:         marshalState(p),
			CreatedAt:     now,
		}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// validate chequea clave conocida, razón presente, vencimiento futuro y que
// el usuario pertenezca a la empresa (cross-tenant → not found).
func (uc *DataPermissionUseCase) validate(userID, companyID string, in dto.GrantDataPermissionRequest) error {
	if !entity.IsKnownPermission(in.PermissionKey) {
		return fmt.Errorf("%w: clave de permiso desconocida %q", domain.ErrValidation, in.PermissionKey)
	}
	if in.Reason == "" {
		return fmt.Errorf("%w: reason es requerido", domain.ErrValidation)
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(time.Now()) {
		return fmt.Errorf("%w: expires_at debe ser futuro", domain.ErrValidation)
	}
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

// ListForUser devuelve los overrides vigentes y vencidos de un usuario.
func (uc *DataPermissionUseCase) ListForUser(ctx context.Context, userID, companyID string) ([]dto.DataPermissionResponse, error) {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	list, err := uc.perms.ListByUser(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DataPermissionResponse, 0, len(list))
	for i := range list {
		out = append(out, dataPermToResponse(&list[i]))
	}
	return out, nil
}

func dataPermToResponse(p *entity.UserDataPermission) dto.DataPermissionResponse {
	return dto.DataPermissionResponse{
		UserID:        p.UserID,
		CompanyID:     p.CompanyID,
		PermissionKey: p.PermissionKey,
		IsGranted:     p.IsGranted,
		GrantedBy:     p.GrantedBy,
		ExpiresAt:     p.ExpiresAt,
		Reason:        p.Reason,
	}
}
