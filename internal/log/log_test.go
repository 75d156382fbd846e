package log

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestWriteWithoutContext(t *testing.T) {
	logs := observe(t)

	Audit(nil, "product.create", map[string]any{"product": "p1"})
	Error(nil, "cart.save.fail", errors.New("disk full"), nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "product.create", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, map[string]any{"product": "p1"}, entries[0].ContextMap()["fields"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].ContextMap()["err"])
}

func TestSecurityCarriesRequestData(t *testing.T) {
	logs := observe(t)

	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-1")
		Security(c, "validation.fail", map[string]any{"field": "quantity"})
		return c.SendStatus(fiber.StatusBadRequest)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)

	entries := logs.FilterMessage("validation.fail").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "GET", ctx["method"])
	assert.Equal(t, "/x", ctx["path"])
	assert.Equal(t, "rid-1", ctx["req_id"])
}
