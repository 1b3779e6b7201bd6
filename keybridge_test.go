package keybridge

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-idp/keybridge/otp"
	"github.com/go-idp/keybridge/storage"
)

func newTestServer(t *testing.T) (*KeyBridge, storage.Config) {
	t.Helper()
	cfg := storage.Config{
		Driver:  storage.DriverSQLite,
		DataDir: t.TempDir(),
	}
	backends, err := storage.LoadStorageBackends(cfg)
	require.NoError(t, err)
	kb, err := NewKeyBridge(ServerConf{}, backends, otp.NewManager(otp.Config{}), nil)
	require.NoError(t, err)
	return kb, cfg
}

func TestJWKSEndpoint(t *testing.T) {
	kb, _ := newTestServer(t)

	created, _, err := kb.storages.Keys.Generate("web", "ES256", "web signing", "https://issuer.example.org")
	require.NoError(t, err)
	_, _, err = kb.storages.Keys.Generate("mac", "HS256", "", "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	kb.HttpHandlerFunc()(rec, httptest.NewRequest("GET", "/.well-known/jwks.json", nil))
	require.Equal(t, 200, rec.Code)

	var doc struct {
		Keys []map[string]any `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	// The symmetric key must not be published.
	require.Len(t, doc.Keys, 1)
	assert.Equal(t, created.KID, doc.Keys[0]["kid"])
	assert.Equal(t, "ES256", doc.Keys[0]["alg"])
	assert.Equal(t, "EC", doc.Keys[0]["kty"])
	// Private parameters must never appear in the published set.
	assert.NotContains(t, doc.Keys[0], "d")
}
