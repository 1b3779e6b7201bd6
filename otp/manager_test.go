package otp

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	m := NewManager(Config{})

	code, err := m.Issue("a@example.com", 0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultCodeLength)
	if _, err := strconv.Atoi(code); err != nil {
		t.Fatalf("code %q is not numeric", code)
	}

	assert.True(t, m.Validate(code, "a@example.com"))
	// single use: the same code never validates twice
	assert.False(t, m.Validate(code, "a@example.com"))
}

func TestIssueCustomLength(t *testing.T) {
	m := NewManager(Config{CodeLength: 6})
	code, err := m.Issue("a@example.com", 8)
	require.NoError(t, err)
	assert.Len(t, code, 8)
}

func TestValidateWrongSubject(t *testing.T) {
	m := NewManager(Config{})
	code, err := m.Issue("a@example.com", 0)
	require.NoError(t, err)

	assert.False(t, m.Validate(code, "b@example.com"))
	// the failed attempt must not consume the code
	assert.True(t, m.Validate(code, "a@example.com"))
}

func TestValidateUnknownCode(t *testing.T) {
	m := NewManager(Config{})
	assert.False(t, m.Validate("000000", "a@example.com"))
}

func TestValidateExpired(t *testing.T) {
	m := NewManager(Config{TTL: time.Second})
	now := time.Now()
	m.now = func() time.Time { return now }

	code, err := m.Issue("a@example.com", 0)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(time.Second) }
	assert.False(t, m.Validate(code, "a@example.com"))
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	m := NewManager(Config{TTL: time.Minute})
	now := time.Now()
	m.now = func() time.Time { return now }

	expired, err := m.Issue("old@example.com", 0)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(30 * time.Second) }
	fresh, err := m.Issue("new@example.com", 0)
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(65 * time.Second) }
	m.Sweep()

	assert.False(t, m.Validate(expired, "old@example.com"))
	assert.True(t, m.Validate(fresh, "new@example.com"))
}

func TestSweepIdempotent(t *testing.T) {
	m := NewManager(Config{TTL: time.Minute})
	if _, err := m.Issue("a@example.com", 0); err != nil {
		t.Fatal(err)
	}
	m.Sweep()
	m.Sweep()
	assert.Len(t, m.codes, 1)
}

func TestSettersApplyToNewCodes(t *testing.T) {
	m := NewManager(Config{})
	m.SetCodeLength(4)
	code, err := m.Issue("a@example.com", 0)
	require.NoError(t, err)
	assert.Len(t, code, 4)

	// non-positive values are ignored
	m.SetCodeLength(0)
	code, err = m.Issue("a@example.com", 0)
	require.NoError(t, err)
	assert.Len(t, code, 4)
}

func TestConcurrentUse(t *testing.T) {
	m := NewManager(Config{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			subject := "user" + strconv.Itoa(n) + "@example.com"
			code, err := m.Issue(subject, 0)
			if err != nil {
				t.Error(err)
				return
			}
			m.Validate(code, subject)
			m.Sweep()
		}(i)
	}
	wg.Wait()
}
