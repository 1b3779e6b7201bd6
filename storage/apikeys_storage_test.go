package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/go-idp/keybridge/storage/model"
)

func TestAPIKeyCreateGeneratesID(t *testing.T) {
	store := newTestStorage(t).APIKeys()

	key, err := store.Create(
		model.CreateAPIKey{
			Permissions: &model.Permissions{
				Endpoints: []model.Endpoint{{URL: "/orders", Method: "GET"}},
			},
		},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, key.ID)
	assert.False(t, key.KeyManager)

	got, err := store.Get(key.ID)
	require.NoError(t, err)
	assert.True(t, got.Permissions.Authorizes("GET", "/orders"))
	assert.False(t, got.Permissions.Authorizes("POST", "/orders"))
}

func TestAPIKeyCreateExplicitID(t *testing.T) {
	store := newTestStorage(t).APIKeys()

	key, err := store.Create(model.CreateAPIKey{ID: "svc-billing", KeyManager: true})
	require.NoError(t, err)
	assert.Equal(t, "svc-billing", key.ID)
	assert.True(t, key.KeyManager)

	_, err = store.Create(model.CreateAPIKey{ID: "svc-billing"})
	var exists model.AlreadyExistsError
	require.ErrorAs(t, err, &exists)
}

func TestAPIKeyCreateInvalidPermissions(t *testing.T) {
	store := newTestStorage(t).APIKeys()

	_, err := store.Create(
		model.CreateAPIKey{
			Permissions: &model.Permissions{
				Endpoints: []model.Endpoint{{URL: "/orders", Method: "FETCH"}},
			},
		},
	)
	var invalid model.InvalidArgumentError
	require.ErrorAs(t, err, &invalid)

	keys, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestAPIKeyUpdateReplacesPermissions(t *testing.T) {
	store := newTestStorage(t).APIKeys()

	key, err := store.Create(
		model.CreateAPIKey{
			ID: "scoped",
			Permissions: &model.Permissions{
				Endpoints: []model.Endpoint{
					{URL: "/orders", Method: "GET"},
					{URL: "/orders", Method: "POST"},
				},
			},
			MetaData: datatypes.JSON(`{"team":"support"}`),
		},
	)
	require.NoError(t, err)

	// Permission updates replace the whole collection.
	updated, err := store.Update(
		key.ID, model.UpdateAPIKey{
			Permissions: &model.Permissions{
				Endpoints: []model.Endpoint{{URL: "/reports/*", Method: "GET"}},
			},
		},
	)
	require.NoError(t, err)
	assert.False(t, updated.Permissions.Authorizes("GET", "/orders"))
	assert.True(t, updated.Permissions.Authorizes("GET", "/reports/daily"))
	assert.JSONEq(t, `{"team":"support"}`, string(updated.MetaData))

	// Nil permissions leave the stored set untouched.
	updated, err = store.Update(key.ID, model.UpdateAPIKey{MetaData: datatypes.JSON(`{"team":"ops"}`)})
	require.NoError(t, err)
	assert.True(t, updated.Permissions.Authorizes("GET", "/reports/daily"))
	assert.JSONEq(t, `{"team":"ops"}`, string(updated.MetaData))
}

func TestAPIKeyUpdateNotFound(t *testing.T) {
	store := newTestStorage(t).APIKeys()
	_, err := store.Update("missing", model.UpdateAPIKey{})
	var notFound model.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAPIKeyDelete(t *testing.T) {
	store := newTestStorage(t).APIKeys()
	key, err := store.Create(model.CreateAPIKey{})
	require.NoError(t, err)

	require.NoError(t, store.Delete(key.ID))

	var notFound model.NotFoundError
	err = store.Delete(key.ID)
	require.ErrorAs(t, err, &notFound)
}
