package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPSettingsFallbacks(t *testing.T) {
	kv := newTestStorage(t).KeyValue()

	ttl, err := GetOTPTTL(kv, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, ttl)

	length, err := GetOTPCodeLength(kv, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, length)

	interval, err := GetOTPSweepInterval(kv, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, interval)
}

func TestOTPSettingsRoundtrip(t *testing.T) {
	kv := newTestStorage(t).KeyValue()

	require.NoError(t, SetOTPTTL(kv, 90*time.Second))
	require.NoError(t, SetOTPCodeLength(kv, 8))
	require.NoError(t, SetOTPSweepInterval(kv, 30*time.Second))

	ttl, err := GetOTPTTL(kv, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)

	length, err := GetOTPCodeLength(kv, 6)
	require.NoError(t, err)
	assert.Equal(t, 8, length)

	interval, err := GetOTPSweepInterval(kv, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, interval)

	// Settings are upserts, not inserts.
	require.NoError(t, SetOTPCodeLength(kv, 10))
	length, err = GetOTPCodeLength(kv, 6)
	require.NoError(t, err)
	assert.Equal(t, 10, length)
}

func TestUsersStorageLifecycle(t *testing.T) {
	users := newTestStorage(t).UsersStorage()

	count, err := users.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	u, err := users.Create("alice", "s3cret", "Alice")
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)

	_, err = users.Create("alice", "other", "")
	require.Error(t, err)

	got, err := users.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.DisplayName)

	_, err = users.Authenticate("alice", "wrong")
	require.Error(t, err)

	disabled := true
	_, err = users.Update("alice", nil, nil, &disabled)
	require.NoError(t, err)
	_, err = users.Authenticate("alice", "s3cret")
	require.Error(t, err)

	require.NoError(t, users.Delete("alice"))
	require.Error(t, users.Delete("alice"))
}
