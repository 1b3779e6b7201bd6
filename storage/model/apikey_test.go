package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointValidate(t *testing.T) {
	valid := []Endpoint{
		{URL: "/orders", Method: "GET"},
		{URL: "/orders/*", Method: "POST"},
		{URL: "https://api.example.com/orders", Method: "DELETE"},
		{URL: "/", Method: "TRACE"},
	}
	for _, e := range valid {
		assert.NoError(t, e.Validate(), "endpoint %+v should be valid", e)
	}

	invalid := []Endpoint{
		{URL: "/orders", Method: "FETCH"},
		{URL: "/orders", Method: "get"},
		{URL: "/orders", Method: ""},
		{URL: "", Method: "GET"},
		{URL: "orders", Method: "GET"},
	}
	for _, e := range invalid {
		err := e.Validate()
		require.Error(t, err, "endpoint %+v should be invalid", e)
		assert.IsType(t, InvalidArgumentError(""), err)
	}
}

func TestPermissionsAuthorizes(t *testing.T) {
	p := Permissions{
		Endpoints: []Endpoint{
			{URL: "/orders", Method: "GET"},
		},
	}
	assert.True(t, p.Authorizes("GET", "/orders"))
	assert.False(t, p.Authorizes("POST", "/orders"))
	assert.False(t, p.Authorizes("GET", "/other"))
	assert.False(t, p.Authorizes("GET", "/orders/42"))
}

func TestPermissionsAuthorizesWildcard(t *testing.T) {
	p := Permissions{
		Endpoints: []Endpoint{
			{URL: "/orders/*", Method: "GET"},
			{URL: "https://api.example.com/status", Method: "HEAD"},
		},
	}
	assert.True(t, p.Authorizes("GET", "/orders/42"))
	assert.True(t, p.Authorizes("GET", "/orders/"))
	assert.False(t, p.Authorizes("GET", "/orders"))
	assert.False(t, p.Authorizes("DELETE", "/orders/42"))
	// absolute rule urls match on the path component only
	assert.True(t, p.Authorizes("HEAD", "/status"))
}

func TestPermissionsAuthorizesEmpty(t *testing.T) {
	var p Permissions
	assert.False(t, p.Authorizes("GET", "/orders"))
}
