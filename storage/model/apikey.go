package model

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// allowedMethods is the closed set of HTTP verbs an Endpoint may use.
var allowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodPatch,
	http.MethodOptions,
	http.MethodHead,
	http.MethodConnect,
	http.MethodTrace,
}

// Endpoint is a single allow-list rule of an API key: an HTTP method combined
// with the URL or path it may be used on.
type Endpoint struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// Validate checks that the method is one of the nine standard HTTP verbs and
// that the URL is syntactically well-formed.
func (e Endpoint) Validate() error {
	if !slices.Contains(allowedMethods, e.Method) {
		return InvalidArgumentErrorFmt(
			"invalid http method '%s', must be one of %s", e.Method, strings.Join(allowedMethods, ", "),
		)
	}
	if e.URL == "" {
		return InvalidArgumentError("endpoint url must not be empty")
	}
	u, err := url.Parse(e.URL)
	if err != nil {
		return InvalidArgumentErrorFmt("invalid endpoint url '%s': %s", e.URL, err)
	}
	if !strings.HasPrefix(e.URL, "/") && (u.Scheme == "" || u.Host == "") {
		return InvalidArgumentErrorFmt("endpoint url '%s' must be an absolute url or start with '/'", e.URL)
	}
	return nil
}

// Matches reports whether the rule covers a request with the given method and
// path. Matching is exact on the rule's path component, except that a rule
// path ending in "/*" matches everything below that prefix.
func (e Endpoint) Matches(method, path string) bool {
	if method != e.Method {
		return false
	}
	rulePath := e.URL
	if u, err := url.Parse(e.URL); err == nil && u.Path != "" {
		rulePath = u.Path
	}
	if strings.HasSuffix(rulePath, "/*") {
		return strings.HasPrefix(path, strings.TrimSuffix(rulePath, "*"))
	}
	return rulePath == path
}

// Permissions is the scoped allow-list attached to an API key. The endpoint
// order is preserved for display; authorization uses any-match semantics.
type Permissions struct {
	Endpoints []Endpoint `json:"endpoints"`
}

// Validate validates every endpoint rule in the set.
func (p Permissions) Validate() error {
	for _, e := range p.Endpoints {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Authorizes reports whether the permission set allows a request with the
// given method and path. It never fails; an empty set authorizes nothing.
func (p Permissions) Authorizes(method, path string) bool {
	for _, e := range p.Endpoints {
		if e.Matches(method, path) {
			return true
		}
	}
	return false
}

// APIKey is a persisted scoped API credential.
type APIKey struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// KeyManager marks a master key that is not restricted by Permissions;
	// immutable after creation.
	KeyManager bool `json:"key_manager"`
	// Permissions is the endpoint allow-list for scoped keys.
	Permissions Permissions `gorm:"serializer:json" json:"permissions"`
	// MetaData holds arbitrary caller-provided JSON.
	MetaData datatypes.JSON `json:"meta_data,omitempty"`
	TenantID string         `json:"tenant_id,omitempty"`
}

// CreateAPIKey is the request to create an APIKey. A missing ID is generated
// by the store.
type CreateAPIKey struct {
	ID          string         `json:"id"`
	KeyManager  bool           `json:"key_manager"`
	Permissions *Permissions   `json:"permissions"`
	MetaData    datatypes.JSON `json:"meta_data"`
	TenantID    string         `json:"tenant_id"`
}

// UpdateAPIKey is a partial update. A non-nil Permissions replaces the whole
// endpoint collection; there is no element-level merge. Nil fields are left
// unchanged.
type UpdateAPIKey struct {
	Permissions *Permissions   `json:"permissions"`
	MetaData    datatypes.JSON `json:"meta_data"`
}
