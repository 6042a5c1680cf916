package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gastos-pro/internal/application/dto"
	"github.com/jhoicas/gastos-pro/internal/domain"
	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Validación de overrides
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantDataPermission_ValidaClaveRazonYVencimiento(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	pasado := time.Now().Add(-time.Minute)

	casos := []struct {
		nombre string
		in     dto.GrantDataPermissionRequest
	}{
		{"clave desconocida", dto.GrantDataPermissionRequest{PermissionKey: "tesoreria.girar", IsGranted: true, Reason: "apoyo"}},
		{"razón ausente", dto.GrantDataPermissionRequest{PermissionKey: entity.PermReportsExport, IsGranted: true}},
		{"vencimiento en el pasado", dto.GrantDataPermissionRequest{PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "apoyo", ExpiresAt: &pasado}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, c.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Zero(t, e.auditCount(entity.AuditDataPermGranted))
}

func TestGrantDataPermission_UsuarioDeOtraEmpresaEsNotFound(t *testing.T) {
	e := newEngine()

	_, err := e.dataPerms.Grant(context.Background(), userGlobexID, acmeID, adminAnaID, dto.GrantDataPermissionRequest{
		PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "cierre de mes",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Grant / Revoke y su efecto en la resolución
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantDataPermission_ElOverrideGanaAlRolYAudita(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	// Sin módulos habilitados, la línea base de Carlos niega reports.export.
	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	require.False(t, granted)

	out, err := e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, dto.GrantDataPermissionRequest{
		PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "cierre de mes",
	})
	require.NoError(t, err)
	assert.True(t, out.IsGranted)
	assert.Equal(t, adminAnaID, out.GrantedBy)

	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	assert.True(t, granted, "el override positivo gana incluso al module gate")
	assert.Equal(t, 1, e.auditCount(entity.AuditDataPermGranted))
}

func TestRevokeDataPermission_NiegaLoQueElRolConcedeYAuditaComoRevocacion(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenses, superAdminID)
	require.NoError(t, err)
	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenses, acmeID, adminAnaID)
	require.NoError(t, err)

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermExpensesCreate, acmeID)
	require.NoError(t, err)
	require.True(t, granted)

	_, err = e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, dto.GrantDataPermissionRequest{
		PermissionKey: entity.PermExpensesCreate, IsGranted: false, Reason: "investigación interna",
	})
	require.NoError(t, err)

	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermExpensesCreate, acmeID)
	require.NoError(t, err)
	assert.False(t, granted, "el override negativo gana al rol")
	assert.Equal(t, 1, e.auditCount(entity.AuditDataPermRevoked))
	assert.Zero(t, e.auditCount(entity.AuditDataPermGranted))
}

func TestGrantDataPermission_OverrideVencidoEsTransparente(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	pronto := time.Now().Add(50 * time.Millisecond)

	_, err := e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, dto.GrantDataPermissionRequest{
		PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "cierre de mes", ExpiresAt: &pronto,
	})
	require.NoError(t, err)

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	require.True(t, granted)

	time.Sleep(80 * time.Millisecond)
	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	assert.False(t, granted, "vencido el override, vuelve a gobernar la resolución por rol y módulo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bulk: todo o nada, una sola entrada de auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkGrant_UnElementoInvalidoNoAplicaNada(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	_, err := e.dataPerms.BulkGrant(ctx, userCarlosID, acmeID, adminAnaID, dto.BulkGrantRequest{
		Grants: []dto.GrantDataPermissionRequest{
			{PermissionKey: entity.PermReportsView, IsGranted: true, Reason: "cierre de mes"},
			{PermissionKey: "clave.invalida", IsGranted: true, Reason: "cierre de mes"},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := e.dataPerms.ListForUser(ctx, userCarlosID, acmeID)
	require.NoError(t, err)
	assert.Empty(t, list, "el lote es atómico: el elemento válido tampoco quedó aplicado")
	assert.Zero(t, e.auditCount(entity.AuditDataPermBulkGranted))
}

func TestBulkGrant_LoteVacioEsValidacion(t *testing.T) {
	e := newEngine()

	_, err := e.dataPerms.BulkGrant(context.Background(), userCarlosID, acmeID, adminAnaID, dto.BulkGrantRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBulkGrant_AplicaTodoYAuditaUnaSolaVez(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	out, err := e.dataPerms.BulkGrant(ctx, userCarlosID, acmeID, adminAnaID, dto.BulkGrantRequest{
		Grants: []dto.GrantDataPermissionRequest{
			{PermissionKey: entity.PermReportsView, IsGranted: true, Reason: "cierre de mes"},
			{PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "cierre de mes"},
			{PermissionKey: entity.PermExpensesDelete, IsGranted: false, Reason: "investigación interna"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	// El lote completo es UNA operación: una entrada resumen, sin entradas
	// individuales por elemento.
	assert.Equal(t, 1, e.auditCount(entity.AuditDataPermBulkGranted))
	assert.Zero(t, e.auditCount(entity.AuditDataPermGranted))
	assert.Zero(t, e.auditCount(entity.AuditDataPermRevoked))

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestGrantDataPermission_ActualizarConservaUnaSolaFila(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	grant := dto.GrantDataPermissionRequest{
		PermissionKey: entity.PermReportsExport, IsGranted: true, Reason: "cierre de mes",
	}

	_, err := e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, grant)
	require.NoError(t, err)
	grant.IsGranted = false
	grant.Reason = "cierre terminado"
	_, err = e.dataPerms.Grant(ctx, userCarlosID, acmeID, adminAnaID, grant)
	require.NoError(t, err)

	list, err := e.dataPerms.ListForUser(ctx, userCarlosID, acmeID)
	require.NoError(t, err)
	require.Len(t, list, 1, "upsert por (usuario, empresa, clave): la segunda escritura pisa la primera")
	assert.False(t, list[0].IsGranted)
	assert.Equal(t, "cierre terminado", list[0].Reason)
}
