package model

import (
	"github.com/lestrrat-go/jwx/v3/jwk"
	"gorm.io/datatypes"
)

// SigningKeyStore abstracts the lifecycle of persisted signing keys.
type SigningKeyStore interface {
	// Generate creates key material for the algorithm and persists the
	// record atomically; on success it also returns the private JWK form.
	Generate(id, algorithm, name, issuer string) (*SigningKey, jwk.Key, error)
	// List returns all stored keys; no keys is an empty slice, not an error.
	List() ([]SigningKey, error)
	// Get returns a key by id
	Get(id string) (*SigningKey, error)
	// UpdateName applies a partial update; a nil name leaves the stored
	// value unchanged. Everything besides the name is immutable.
	UpdateName(id string, name *string) (*SigningKey, error)
	// Delete irreversibly removes a key by id
	Delete(id string) error
}

// APIKeyStore abstracts CRUD for scoped API keys.
type APIKeyStore interface {
	Create(req CreateAPIKey) (*APIKey, error)
	List() ([]APIKey, error)
	Get(id string) (*APIKey, error)
	Update(id string, req UpdateAPIKey) (*APIKey, error)
	Delete(id string) error
}

// UsersStore abstracts CRUD and authentication helpers for admin users.
type UsersStore interface {
	// Count returns the number of users present in the store
	Count() (int64, error)
	// List returns all users (without password hashes)
	List() ([]User, error)
	// Get returns a user by username
	Get(username string) (*User, error)
	// Create creates a user; the implementation must hash the password
	Create(username, password, displayName string) (*User, error)
	// Update updates display name and optionally password / disabled state
	Update(username string, displayName *string, newPassword *string, disabled *bool) (*User, error)
	// Delete deletes a user by username
	Delete(username string) error
	// Authenticate checks a username/password combo and returns the user
	Authenticate(username, password string) (*User, error)
}

// KeyValueStore abstracts scoped key-value storage for runtime settings.
type KeyValueStore interface {
	// Get retrieves the value for a (scope, key). Returns (nil, nil) if not found.
	Get(scope, key string) (datatypes.JSON, error)
	// Set stores/replaces the value for a (scope, key).
	Set(scope, key string, value datatypes.JSON) error
	// Delete removes the entry for a (scope, key). No error if missing.
	Delete(scope, key string) error
	// GetAs retrieves and unmarshals the value into out; false if not found.
	GetAs(scope, key string, out any) (bool, error)
	// SetAny marshals v to JSON and stores it at (scope, key).
	SetAny(scope, key string, v any) error
}

// Backends groups all storage interfaces used by the application.
// It provides a single struct that can be passed around instead of
// multiple return values for each storage backend.
type Backends struct {
	Keys    SigningKeyStore
	APIKeys APIKeyStore
	Users   UsersStore
	KV      KeyValueStore
}
