package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Grant: el techo de la empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantUserModule_FallaSiLaEmpresaNoLoTieneHabilitado(t *testing.T) {
	e := newEngine()

	_, err := e.userModules.Grant(context.Background(), userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed,
		"ningún usuario puede recibir un módulo que su empresa no licenció")
}

func TestGrantUserModule_ConModuloHabilitadoConcedeYAudita(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	out, err := e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	require.NoError(t, err)
	assert.True(t, out.IsEnabled)
	assert.Equal(t, entity.AccessSourceGranted, out.AccessSource)
	assert.Equal(t, 1, e.auditCount(entity.AuditUserModuleGranted))
}

func TestGrantUserModule_UsuarioDeOtraEmpresaEsNotFound(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	_, err = e.userModules.Grant(ctx, userGlobexID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"cross-tenant se reporta como inexistente, nunca como prohibido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Revoke y procedencia del acceso
// ──────────────────────────────────────────────────────────────────────────────

func TestRevokeUserModule_DejaFilaDeshabilitadaComoEvidencia(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	// Revocar sin grant previo también procede: crea la fila deshabilitada.
	out, err := e.userModules.Revoke(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	require.NoError(t, err)
	assert.False(t, out.IsEnabled)
	assert.Equal(t, entity.AccessSourceRevoked, out.AccessSource)
	assert.Equal(t, 1, e.auditCount(entity.AuditUserModuleRevoked))
}

func TestListUserModules_DistingueRevocadoDeNuncaConcedido(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	_, err = e.provisioning.EnableModule(ctx, acmeID, entity.ModuleReports, superAdminID)
	require.NoError(t, err)

	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	require.NoError(t, err)
	_, err = e.userModules.Revoke(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	require.NoError(t, err)

	out, err := e.userModules.ListForUser(ctx, userCarlosID, acmeID)
	require.NoError(t, err)

	sources := map[string]string{}
	for _, m := range out.Modules {
		sources[m.ModuleID] = m.AccessSource
	}
	assert.Equal(t, entity.AccessSourceRevoked, sources[entity.ModuleExpenseOCR],
		"hubo grant y revoke: la fila deshabilitada cuenta la historia")
	assert.Equal(t, entity.AccessSourceNeverGranted, sources[entity.ModuleReports],
		"sin fila alguna: nunca concedido")
}

func TestListUserModules_ExcluyeModulosSinLicenciar(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	out, err := e.userModules.ListForUser(ctx, userCarlosID, acmeID)
	require.NoError(t, err)

	require.Len(t, out.Modules, 1,
		"solo aparecen módulos habilitados a nivel empresa; el resto ni se menciona")
	assert.Equal(t, entity.ModuleExpenseOCR, out.Modules[0].ModuleID)
	assert.True(t, out.Modules[0].CompanyEnabled)
}

func TestGrantTrasCascada_ExigeReHabilitarLaEmpresaPrimero(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	require.NoError(t, err)
	_, err = e.provisioning.DisableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
	assert.ErrorIs(t, err, domain.ErrPreconditionFailed,
		"tras la cascada, el grant requiere volver a habilitar el módulo en la empresa")
}
