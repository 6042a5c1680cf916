package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// EnableModule
// ──────────────────────────────────────────────────────────────────────────────

func TestEnableModule_HabilitaYAudita(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	out, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	assert.True(t, out.IsEnabled)
	assert.Equal(t, superAdminID, out.EnabledBy)
	assert.Equal(t, 1, e.auditCount(entity.AuditModuleEnabled))
}

func TestEnableModule_RepetirEsIdempotenteSinSegundaAuditoria(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	out, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	assert.True(t, out.IsEnabled)
	assert.Equal(t, 1, e.auditCount(entity.AuditModuleEnabled),
		"repetir el enable no muta estado ni escribe segunda entrada")
}

func TestEnableModule_NoConcedeAccesoAUsuarios(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermExpenseOCRUse, acmeID)
	require.NoError(t, err)
	assert.False(t, granted,
		"habilitar a nivel empresa no basta: falta el acceso por usuario")
}

func TestEnableModule_EmpresaOModuloInexistente(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	_, err := e.provisioning.EnableModule(ctx, "no-existe", entity.ModuleExpenseOCR, superAdminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.provisioning.EnableModule(ctx, acmeID, "banking", superAdminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// DisableModule: cascada atómica
// ──────────────────────────────────────────────────────────────────────────────

// enableForUsers habilita el módulo en acme y lo concede a cada usuario dado.
func enableForUsers(t *testing.T, e *engine, moduleID string, userIDs ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, moduleID, superAdminID)
	require.NoError(t, err)
	for _, uid := range userIDs {
		_, err := e.userModules.Grant(ctx, uid, moduleID, acmeID, adminAnaID)
		require.NoError(t, err)
	}
}

func TestDisableModule_CascadaApagaTodosLosUsuarios(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	enableForUsers(t, e, entity.ModuleExpenseOCR, userCarlosID, userDianaID, adminAnaID)

	out, err := e.provisioning.DisableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	assert.False(t, out.CompanyModule.IsEnabled)
	assert.Equal(t, 3, out.AffectedUsers, "los tres accesos concedidos caen en la cascada")

	// Ningún usuario conserva el módulo.
	for _, uid := range []string{userCarlosID, userDianaID, adminAnaID} {
		granted, err := e.resolver.Check(ctx, uid, entity.PermExpenseOCRUse, acmeID)
		require.NoError(t, err)
		assert.False(t, granted, "usuario %s no debe conservar el módulo tras la cascada", uid)
	}
}

func TestDisableModule_UnaSolaEntradaDeAuditoriaConConteo(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	enableForUsers(t, e, entity.ModuleExpenseOCR, userCarlosID, userDianaID)

	_, err := e.provisioning.DisableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	require.Equal(t, 1, e.auditCount(entity.AuditModuleDisabled),
		"la cascada completa es UNA operación: una sola entrada")
	for _, entry := range e.store.AuditEntries() {
		if entry.Action == entity.AuditModuleDisabled {
			assert.Equal(t, 2, entry.AffectedUsers)
		}
	}
}

func TestDisableModule_ParAusenteEsNoOpExitoso(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	out, err := e.provisioning.DisableModule(ctx, acmeID, entity.ModuleReports, superAdminID)
	require.NoError(t, err, "deshabilitar algo nunca habilitado es idempotente, no un error")
	assert.Equal(t, 0, out.AffectedUsers)
	assert.Equal(t, 0, e.auditCount(entity.AuditModuleDisabled),
		"un no-op no escribe entrada de cascada")
}

func TestDisableModule_NoAfectaOtrosModulosNiOtrasEmpresas(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	enableForUsers(t, e, entity.ModuleExpenseOCR, userCarlosID)
	enableForUsers(t, e, entity.ModuleReports, userCarlosID)

	_, err := e.provisioning.DisableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermReportsView, acmeID)
	require.NoError(t, err)
	assert.True(t, granted, "la cascada es por (empresa, módulo); reports sobrevive")
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeClassification
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeClassification_RechazadaMientrasSeUseComoCore(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenses, superAdminID)
	require.NoError(t, err)

	_, err = e.provisioning.ChangeClassification(ctx, entity.ModuleExpenses, superAdminID,
		dto.ChangeClassificationRequest{ModuleType: entity.ModuleTypeAddOn})
	assert.ErrorIs(t, err, domain.ErrValidation,
		"no puede dejar de ser core mientras haya empresas usándolo como core")
}

func TestChangeClassification_ProcedeSinUsoYAudita(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	out, err := e.provisioning.ChangeClassification(ctx, entity.ModuleVendors, superAdminID,
		dto.ChangeClassificationRequest{ModuleType: entity.ModuleTypeAddOn})
	require.NoError(t, err)
	assert.Equal(t, entity.ModuleTypeAddOn, out.ModuleType)
	assert.Equal(t, 1, e.auditCount(entity.AuditModuleReclassified))
}

func TestChangeClassification_ModuloInexistente(t *testing.T) {
	e := newEngine()
	_, err := e.provisioning.ChangeClassification(context.Background(), "banking", superAdminID,
		dto.ChangeClassificationRequest{ModuleType: entity.ModuleTypeAddOn})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
