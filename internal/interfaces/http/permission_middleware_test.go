package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/gastos-pro/internal/interfaces/http"
)

// checkerStub resuelve siempre lo mismo; err simula una caída de la capa de
// resolución.
type checkerStub struct {
	granted bool
	err     error
}

func (s checkerStub) Check(_ context.Context, _, _, _ string) (bool, error) {
	return s.granted, s.err
}

func buildPermissionApp(checker checkerStub) *fiber.App {
	app := fiber.New()
	app.Get("/export",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission("reports.export", checker),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func doPermissionRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequirePermission_ClaveEnElSetEfectivoPasa(t *testing.T) {
	app := buildPermissionApp(checkerStub{granted: true})
	resp := doPermissionRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_ClaveFueraDelSetRetorna403(t *testing.T) {
	app := buildPermissionApp(checkerStub{granted: false})
	resp := doPermissionRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PERMISSION_DENIED")
}

func TestRequirePermission_FalloDeResolucionRetorna503(t *testing.T) {
	app := buildPermissionApp(checkerStub{err: errors.New("pool agotado")})
	resp := doPermissionRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode,
		"un fallo de infraestructura no debe traducirse en denegación silenciosa")
}

func TestRequirePermission_SinTokenRetorna401(t *testing.T) {
	app := buildPermissionApp(checkerStub{granted: true})
	resp := doPermissionRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
