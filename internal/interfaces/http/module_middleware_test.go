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

// moduleCheckerStub responde siempre lo mismo para la empresa consultada.
type moduleCheckerStub struct {
	enabled bool
	err     error
}

func (s moduleCheckerStub) IsModuleEnabled(_ context.Context, _, _ string) (bool, error) {
	return s.enabled, s.err
}

func buildModuleApp(checker moduleCheckerStub) *fiber.App {
	app := fiber.New()
	app.Get("/ocr",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule("expense-ocr", checker),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func doModuleRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ocr", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireModule_ModuloHabilitadoPasa(t *testing.T) {
	app := buildModuleApp(moduleCheckerStub{enabled: true})
	resp := doModuleRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireModule_ModuloDeshabilitadoRetorna403(t *testing.T) {
	app := buildModuleApp(moduleCheckerStub{enabled: false})
	resp := doModuleRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MODULE_DISABLED")
}

func TestRequireModule_FalloDeConsultaRetorna503(t *testing.T) {
	app := buildModuleApp(moduleCheckerStub{err: errors.New("conexión rechazada")})
	resp := doModuleRequest(t, app, tokenForRole(t, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
