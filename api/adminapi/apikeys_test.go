package adminapi

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-idp/keybridge/storage/model"
)

// stubAPIKeyStore serves a fixed set of keys keyed by id.
type stubAPIKeyStore struct {
	keys map[string]*model.APIKey
}

func (s stubAPIKeyStore) Create(model.CreateAPIKey) (*model.APIKey, error) {
	return nil, model.InvalidArgumentError("not implemented")
}

func (s stubAPIKeyStore) List() ([]model.APIKey, error) { return nil, nil }

func (s stubAPIKeyStore) Get(id string) (*model.APIKey, error) {
	key, ok := s.keys[id]
	if !ok {
		return nil, model.NotFoundErrorFmt("api key not found: %s", id)
	}
	return key, nil
}

func (s stubAPIKeyStore) Update(string, model.UpdateAPIKey) (*model.APIKey, error) {
	return nil, model.NotFoundError("not implemented")
}

func (s stubAPIKeyStore) Delete(string) error { return nil }

func newGuardedApp(store model.APIKeyStore) *fiber.App {
	app := fiber.New()
	app.Use(RequireAPIKey(store))
	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/orders", handler)
	app.Post("/orders", handler)
	app.Get("/reports/daily", handler)
	return app
}

func TestRequireAPIKey(t *testing.T) {
	store := stubAPIKeyStore{
		keys: map[string]*model.APIKey{
			"master": {ID: "master", KeyManager: true},
			"scoped": {
				ID: "scoped",
				Permissions: model.Permissions{
					Endpoints: []model.Endpoint{
						{URL: "/orders", Method: "GET"},
						{URL: "/reports/*", Method: "GET"},
					},
				},
			},
		},
	}
	app := newGuardedApp(store)

	tests := []struct {
		name   string
		key    string
		method string
		path   string
		status int
	}{
		{name: "missing key", method: "GET", path: "/orders", status: fiber.StatusUnauthorized},
		{name: "unknown key", key: "nope", method: "GET", path: "/orders", status: fiber.StatusUnauthorized},
		{name: "manager any endpoint", key: "master", method: "POST", path: "/orders", status: fiber.StatusOK},
		{name: "scoped allowed exact", key: "scoped", method: "GET", path: "/orders", status: fiber.StatusOK},
		{name: "scoped allowed wildcard", key: "scoped", method: "GET", path: "/reports/daily", status: fiber.StatusOK},
		{name: "scoped wrong method", key: "scoped", method: "POST", path: "/orders", status: fiber.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(
			tc.name, func(t *testing.T) {
				req := httptest.NewRequest(tc.method, tc.path, nil)
				if tc.key != "" {
					req.Header.Set(HeaderAPIKey, tc.key)
				}
				resp, err := app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, tc.status, resp.StatusCode)
			},
		)
	}
}
