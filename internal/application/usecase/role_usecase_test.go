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
// Creación y plantillas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateRole_RechazaClaveFueraDelCatalogo(t *testing.T) {
	e := newEngine()

	_, err := e.roles.Create(context.Background(), acmeID, adminAnaID, dto.CreateCustomRoleRequest{
		Name: "Contador",
		Permissions: []dto.PermissionGrant{
			{PermissionKey: "expenses.view", IsGranted: true},
			{PermissionKey: "nomina.liquidar", IsGranted: true},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, e.auditCount(entity.AuditRoleCreated),
		"una creación rechazada no deja rastro en auditoría")
}

func TestCreateRole_PermiteClavesDeModulosSinLicenciar(t *testing.T) {
	e := newEngine()

	// expense-ocr no está habilitado para acme: crear el rol igual procede;
	// la restricción aplica al asignar, no al definir.
	role, err := e.roles.Create(context.Background(), acmeID, adminAnaID, dto.CreateCustomRoleRequest{
		Name: "Digitador OCR",
		Permissions: []dto.PermissionGrant{
			{PermissionKey: entity.PermExpenseOCRUse, IsGranted: true},
		},
	})
	require.NoError(t, err)
	assert.True(t, role.IsActive)
	assert.Equal(t, 1, e.auditCount(entity.AuditRoleCreated))
}

func TestCreateRoleFromTemplate_LaRemocionGanaALaAdicion(t *testing.T) {
	e := newEngine()
	e.store.SeedRoleTemplate(&entity.RoleTemplate{
		ID:   "tpl-contador",
		Name: "Contador",
		BasePermissions: []string{
			entity.PermExpensesView, entity.PermExpensesCreate, entity.PermReportsView,
		},
		RequiredModules: []string{entity.ModuleExpenses, entity.ModuleReports},
	})

	role, err := e.roles.CreateFromTemplate(context.Background(), "tpl-contador", acmeID, adminAnaID, dto.CreateRoleFromTemplateRequest{
		Name:                  "Contador Acme",
		AdditionalPermissions: []string{entity.PermReportsExport, entity.PermExpensesCreate},
		RemovedPermissions:    []string{entity.PermExpensesCreate},
	})
	require.NoError(t, err)

	keys := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		require.True(t, p.IsGranted)
		keys = append(keys, p.PermissionKey)
	}
	// base ∪ additional \ removed, ordenado: la remoción de expenses.create
	// gana aunque también venga en las adiciones.
	assert.Equal(t, []string{
		entity.PermExpensesView, entity.PermReportsExport, entity.PermReportsView,
	}, keys)
}

func TestCreateRoleFromTemplate_PlantillaInexistenteEsNotFound(t *testing.T) {
	e := newEngine()

	_, err := e.roles.CreateFromTemplate(context.Background(), "tpl-fantasma", acmeID, adminAnaID, dto.CreateRoleFromTemplateRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación y asignación
// ──────────────────────────────────────────────────────────────────────────────

// crearRol es el atajo de estos tests: un rol activo con las claves dadas.
func crearRol(t *testing.T, e *engine, companyID, name string, keys ...string) string {
	t.Helper()
	grants := make([]dto.PermissionGrant, 0, len(keys))
	for _, k := range keys {
		grants = append(grants, dto.PermissionGrant{PermissionKey: k, IsGranted: true})
	}
	role, err := e.roles.Create(context.Background(), companyID, adminAnaID, dto.CreateCustomRoleRequest{
		Name: name, Permissions: grants,
	})
	require.NoError(t, err)
	return role.ID
}

func TestValidateAssignment_ReportaModulosFaltantes(t *testing.T) {
	e := newEngine()
	roleID := crearRol(t, e, acmeID, "Digitador", entity.PermExpenseOCRUse, entity.PermReportsView)

	issues, err := e.roles.ValidateAssignment(context.Background(), roleID, acmeID)
	require.NoError(t, err)
	require.Len(t, issues, 2, "un problema por módulo faltante, no por clave")
	assert.Contains(t, issues[0], entity.ModuleExpenseOCR)
	assert.Contains(t, issues[1], entity.ModuleReports)
}

func TestValidateAssignment_SinProblemasConModulosHabilitados(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	roleID := crearRol(t, e, acmeID, "Digitador", entity.PermExpenseOCRUse)

	issues, err := e.roles.ValidateAssignment(ctx, roleID, acmeID)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateAssignment_RolDeOtraEmpresaEsNotFound(t *testing.T) {
	e := newEngine()
	roleID := crearRol(t, e, globexID, "Ajeno", entity.PermUsersManage)

	_, err := e.roles.ValidateAssignment(context.Background(), roleID, acmeID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignRole_ConProblemasDevuelveIssuesYNoAsigna(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	roleID := crearRol(t, e, acmeID, "Digitador", entity.PermExpenseOCRUse)

	out, issues, err := e.roles.Assign(ctx, roleID, userCarlosID, acmeID, adminAnaID, nil)
	require.NoError(t, err, "issues no es un error: es la respuesta")
	assert.Nil(t, out)
	assert.NotEmpty(t, issues)
	assert.Zero(t, e.auditCount(entity.AuditRoleAssigned))
}

func TestAssignRole_SustituyeLaAsignacionActivaPrevia(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleReports, superAdminID)
	require.NoError(t, err)
	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleReports, acmeID, adminAnaID)
	require.NoError(t, err)
	primero := crearRol(t, e, acmeID, "Lector", entity.PermReportsView)
	segundo := crearRol(t, e, acmeID, "Exportador", entity.PermReportsExport)

	_, issues, err := e.roles.Assign(ctx, primero, userCarlosID, acmeID, adminAnaID, nil)
	require.NoError(t, err)
	require.Empty(t, issues)
	out, issues, err := e.roles.Assign(ctx, segundo, userCarlosID, acmeID, adminAnaID, nil)
	require.NoError(t, err)
	require.Empty(t, issues)
	assert.Equal(t, segundo, out.RoleID)

	// Solo la última asignación gobierna la resolución.
	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermReportsExport, acmeID)
	require.NoError(t, err)
	assert.True(t, granted)
	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermReportsView, acmeID)
	require.NoError(t, err)
	assert.False(t, granted, "el rol anterior dejó de aplicar: sustitución completa, no acumulación")

	assert.Equal(t, 2, e.auditCount(entity.AuditRoleAssigned))
}

func TestAssignRole_ElRolCustomSustituyeLaLineaBaseDelUsuario(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenses, superAdminID)
	require.NoError(t, err)
	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenses, acmeID, adminAnaID)
	require.NoError(t, err)

	// Antes del rol custom, la línea base de "user" concede crear gastos.
	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermExpensesCreate, acmeID)
	require.NoError(t, err)
	require.True(t, granted)

	roleID := crearRol(t, e, acmeID, "Solo lectura", entity.PermExpensesView)
	_, issues, err := e.roles.Assign(ctx, roleID, userCarlosID, acmeID, adminAnaID, nil)
	require.NoError(t, err)
	require.Empty(t, issues)

	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermExpensesCreate, acmeID)
	require.NoError(t, err)
	assert.False(t, granted, "el rol custom sustituye por completo: lo no listado se niega")
	granted, err = e.resolver.Check(ctx, userCarlosID, entity.PermExpensesView, acmeID)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestAssignRole_UsuarioDeOtraEmpresaEsNotFound(t *testing.T) {
	e := newEngine()
	roleID := crearRol(t, e, acmeID, "Lector", entity.PermUsersManage)

	_, _, err := e.roles.Assign(context.Background(), roleID, userGlobexID, acmeID, adminAnaID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignRole_AsignacionVencidaVuelveALaLineaBase(t *testing.T) {
	e := newEngine()
	ctx := context.Background()
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenses, superAdminID)
	require.NoError(t, err)
	_, err = e.userModules.Grant(ctx, userCarlosID, entity.ModuleExpenses, acmeID, adminAnaID)
	require.NoError(t, err)

	roleID := crearRol(t, e, acmeID, "Solo lectura", entity.PermExpensesView)
	pasado := time.Now().Add(-time.Hour)
	// Assign valida expiración solo al resolver, no al crear: una asignación
	// ya vencida es transparente desde el primer momento.
	_, issues, err := e.roles.Assign(ctx, roleID, userCarlosID, acmeID, adminAnaID, &pasado)
	require.NoError(t, err)
	require.Empty(t, issues)

	granted, err := e.resolver.Check(ctx, userCarlosID, entity.PermExpensesCreate, acmeID)
	require.NoError(t, err)
	assert.True(t, granted, "con la asignación vencida gobierna otra vez la línea base del rol de sistema")
}
