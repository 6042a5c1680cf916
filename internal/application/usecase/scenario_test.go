package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gastos-pro/internal/domain/entity"
)

// Recorrido completo del ciclo de vida de un módulo add-on: la empresa lo
// licencia, dos usuarios lo reciben, el resolver lo refleja, la empresa lo
// deshabilita y la cascada apaga todo de una vez.
func TestCicloDeVidaDeUnModuloAddOn(t *testing.T) {
	e := newEngine()
	ctx := context.Background()

	// 1. Acme licencia OCR de facturas.
	_, err := e.provisioning.EnableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)

	// 2. Ana concede el módulo a Carlos y Diana.
	for _, userID := range []string{userCarlosID, userDianaID} {
		_, err := e.userModules.Grant(ctx, userID, entity.ModuleExpenseOCR, acmeID, adminAnaID)
		require.NoError(t, err)
	}

	// 3. El resolver refleja el acceso: la línea base de "user" incluye la
	// clave y el module gate está abierto en ambos niveles.
	for _, userID := range []string{userCarlosID, userDianaID} {
		granted, err := e.resolver.Check(ctx, userID, entity.PermExpenseOCRUse, acmeID)
		require.NoError(t, err)
		assert.True(t, granted)
	}

	// 4. Acme deja de licenciar el módulo: una sola transacción apaga la
	// empresa y los dos accesos de usuario.
	out, err := e.provisioning.DisableModule(ctx, acmeID, entity.ModuleExpenseOCR, superAdminID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.AffectedUsers)

	// 5. Nadie conserva la clave; la procedencia es el gate del módulo, no
	// una revocación individual.
	for _, userID := range []string{userCarlosID, userDianaID} {
		granted, err := e.resolver.Check(ctx, userID, entity.PermExpenseOCRUse, acmeID)
		require.NoError(t, err)
		assert.False(t, granted)

		eff, err := e.resolver.Effective(ctx, userID, acmeID)
		require.NoError(t, err)
		for _, p := range eff.Permissions {
			if p.PermissionKey == entity.PermExpenseOCRUse {
				assert.Equal(t, "module_gate", p.Source)
			}
		}
	}

	// El recorrido completo quedó en el libro: una entrada por habilitación,
	// una por cada grant y UNA por la cascada.
	assert.Equal(t, 1, e.auditCount(entity.AuditModuleEnabled))
	assert.Equal(t, 2, e.auditCount(entity.AuditUserModuleGranted))
	assert.Equal(t, 1, e.auditCount(entity.AuditModuleDisabled))
}
