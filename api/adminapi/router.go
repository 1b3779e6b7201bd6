package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-idp/keybridge/otp"
	"github.com/go-idp/keybridge/storage/model"
)

// Options controls optional features of the admin API registration.
type Options struct {
	// UsersEnabled controls whether the user management API is mounted.
	// Default behavior: enabled when left at zero value via a nil *Options in Register.
	UsersEnabled bool
}

// Register mounts all admin API routes under the provided group.
func Register(r fiber.Router, storages model.Backends, otpManager *otp.Manager, opts *Options) error {
	// Optional authentication middleware for all admin routes
	r.Use(authMiddleware(storages.Users))

	// Signing Keys
	registerSigningKeys(r, storages.Keys)
	// API Keys
	registerAPIKeys(r, storages.APIKeys)
	// One-Time Passwords
	registerOTP(r, otpManager, storages.KV)
	// Users management
	if opts == nil || opts.UsersEnabled {
		registerUsers(r, storages.Users)
	}
	return nil
}
