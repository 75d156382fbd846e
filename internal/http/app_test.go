package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func newTestApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 1 << 20
	}
	return handlers.NewApp(cfg, db), db
}

type reply struct {
	Status int
	Body   map[string]any
	Raw    string
}

func call(t *testing.T, app *fiber.App, method, path string, body any) reply {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := reply{Status: resp.StatusCode, Raw: string(raw)}
	_ = json.Unmarshal(raw, &out.Body)
	return out
}

func createTee(t *testing.T, app *fiber.App, extra map[string]any) map[string]any {
	t.Helper()
	body := map[string]any{
		"name":    "Basic Tee",
		"price":   "100",
		"stock":   10,
		"brandId": "acme",
		"width":   30,
	}
	for k, v := range extra {
		body[k] = v
	}
	r := call(t, app, "POST", "/api/v1/products", body)
	require.Equal(t, fiber.StatusCreated, r.Status, r.Raw)
	return r.Body
}
