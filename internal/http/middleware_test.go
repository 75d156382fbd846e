package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
)

// Internal failures surface as a generic message.
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Something went wrong")
	assert.NotContains(t, string(body), "secret")
}

func TestInfrastructureFailureIsHidden(t *testing.T) {
	app, db := newTestApp(t, config.Config{})
	require.NoError(t, db.Close())

	r := call(t, app, "GET", "/api/v1/products/p1", nil)
	assert.Equal(t, fiber.StatusInternalServerError, r.Status)
	assert.Equal(t, "Something went wrong. Please try again.", r.Body["error"])
	assert.Equal(t, "infrastructure", r.Body["kind"])
	assert.NotContains(t, r.Raw, "closed")
}

func TestUnknownRouteAndHealth(t *testing.T) {
	app, _ := newTestApp(t, config.Config{})

	r := call(t, app, "GET", "/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, r.Status)

	r = call(t, app, "GET", "/healthz", nil)
	assert.Equal(t, fiber.StatusOK, r.Status)
	assert.Equal(t, true, r.Body["ok"])
}

// Bursts past the configured budget get 429.
func TestRateLimits(t *testing.T) {
	app, _ := newTestApp(t, config.Config{RateLimitMax: 3})

	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability?productId=nope", nil))
		require.NoError(t, err)
		if i < 3 {
			assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "limited too early at %d", i)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Oversized bodies never reach a handler.
func TestBodySizeLimit(t *testing.T) {
	app, db := newTestApp(t, config.Config{BodyLimit: 1 << 10})

	oversize := bytes.Repeat([]byte("A"), (1<<10)+10)
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	// fasthttp may fail the request outright instead of answering 413
	if err != nil {
		if !strings.Contains(err.Error(), "body size exceeds") && !strings.Contains(err.Error(), "too large") {
			t.Fatalf("unexpected error: %v", err)
		}
	} else {
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	}

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM products`))
	assert.Equal(t, 0, n)
}
