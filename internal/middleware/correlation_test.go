package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/crfpa-grader-api/internal/middleware"
)

func newCorrelationApp(captured *string) *fiber.App {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		*captured = middleware.CorrelationIDFromContext(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestCorrelationIDReusesIncomingHeader(t *testing.T) {
	var captured string
	app := newCorrelationApp(&captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.CorrelationHeader, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get(middleware.CorrelationHeader))
	require.Equal(t, "abc-123", captured)
}

func TestCorrelationIDFallsBackToRequestID(t *testing.T) {
	var captured string
	app := newCorrelationApp(&captured)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-9")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "req-9", resp.Header.Get(middleware.CorrelationHeader))
}

func TestCorrelationIDGeneratesWhenMissing(t *testing.T) {
	var captured string
	app := newCorrelationApp(&captured)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get(middleware.CorrelationHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, captured)
}

func TestObservabilityPassesResponsesThrough(t *testing.T) {
	app := fiber.New()
	middleware.Register(app, middleware.Config{})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
