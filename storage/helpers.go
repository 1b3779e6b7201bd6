package storage

import (
	"strings"
	"time"

	"github.com/go-idp/keybridge/storage/model"
)

func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	// sqlite | mysql | postgres common markers
	if
	// SQLite
	(containsAny(msg, "UNIQUE constraint failed", "constraint failed")) ||
		// MySQL
		(containsAny(msg, "Duplicate entry", "Error 1062")) ||
		// Postgres
		(containsAny(msg, "duplicate key value", "violates unique constraint")) {
		return true
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// The one-time password settings live in the key-value store under the "otp"
// scope so they survive restarts and can be changed through the admin api.
// Each getter takes an explicit fallback because a zero value cannot
// distinguish "unset" from "set to zero".

// GetOTPTTL returns the stored code lifetime or fallback when unset.
func GetOTPTTL(kv model.KeyValueStore, fallback time.Duration) (time.Duration, error) {
	var seconds int64
	found, err := kv.GetAs(model.KeyValueScopeOTP, model.KeyValueKeyOTPTTL, &seconds)
	if err != nil || !found || seconds <= 0 {
		return fallback, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// SetOTPTTL stores the code lifetime in whole seconds.
func SetOTPTTL(kv model.KeyValueStore, ttl time.Duration) error {
	return kv.SetAny(model.KeyValueScopeOTP, model.KeyValueKeyOTPTTL, int64(ttl/time.Second))
}

// GetOTPCodeLength returns the stored default code length or fallback when unset.
func GetOTPCodeLength(kv model.KeyValueStore, fallback int) (int, error) {
	var length int
	found, err := kv.GetAs(model.KeyValueScopeOTP, model.KeyValueKeyOTPCodeLength, &length)
	if err != nil || !found || length <= 0 {
		return fallback, err
	}
	return length, nil
}

// SetOTPCodeLength stores the default code length.
func SetOTPCodeLength(kv model.KeyValueStore, length int) error {
	return kv.SetAny(model.KeyValueScopeOTP, model.KeyValueKeyOTPCodeLength, length)
}

// GetOTPSweepInterval returns the stored sweep interval or fallback when unset.
func GetOTPSweepInterval(kv model.KeyValueStore, fallback time.Duration) (time.Duration, error) {
	var seconds int64
	found, err := kv.GetAs(model.KeyValueScopeOTP, model.KeyValueKeyOTPSweepInterval, &seconds)
	if err != nil || !found || seconds <= 0 {
		return fallback, err
	}
	return time.Duration(seconds) * time.Second, nil
}

// SetOTPSweepInterval stores the sweep interval in whole seconds.
func SetOTPSweepInterval(kv model.KeyValueStore, interval time.Duration) error {
	return kv.SetAny(model.KeyValueScopeOTP, model.KeyValueKeyOTPSweepInterval, int64(interval/time.Second))
}
