// Package otp issues and validates short-lived, single-use numeric codes.
// All state lives in process memory; codes deliberately do not survive a
// restart.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultTTL is the validity window of an issued code.
	DefaultTTL = 300 * time.Second
	// DefaultCodeLength is the number of digits of an issued code.
	DefaultCodeLength = 6
	// DefaultSweepInterval is how often the background sweeper runs.
	DefaultSweepInterval = 300 * time.Second

	// maxCollisionRetries bounds how often Issue redraws a code that is
	// already held by another subject. After the last retry the code is
	// overwritten; with a short TTL and sparse code space that trade-off
	// is acceptable.
	maxCollisionRetries = 3
)

// password is a stored one-time password entry.
type password struct {
	subject   string
	expiresAt time.Time
}

// Config holds the issuance parameters of a Manager. Zero values fall back
// to the package defaults.
type Config struct {
	TTL        time.Duration
	CodeLength int
}

// Manager owns the mapping from code to the identity it was issued for.
// Issue, Validate and Sweep may be called concurrently from request handlers
// and the background sweeper.
type Manager struct {
	mu         sync.Mutex
	codes      map[string]password
	ttl        time.Duration
	codeLength int
	now        func() time.Time
}

// NewManager returns an empty Manager with the given configuration.
func NewManager(c Config) *Manager {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.CodeLength <= 0 {
		c.CodeLength = DefaultCodeLength
	}
	return &Manager{
		codes:      make(map[string]password),
		ttl:        c.TTL,
		codeLength: c.CodeLength,
		now:        time.Now,
	}
}

// SetTTL changes the validity window for codes issued from now on.
func (m *Manager) SetTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttl = ttl
}

// SetCodeLength changes the default digit count for codes issued from now on.
func (m *Manager) SetCodeLength(length int) {
	if length <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codeLength = length
}

// Issue generates a secure random numeric code for the subject and stores it
// with the configured lifetime. A length <= 0 uses the configured default.
func (m *Manager) Issue(subject string, length int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if length <= 0 {
		length = m.codeLength
	}
	var code string
	for attempt := 0; ; attempt++ {
		c, err := randomCode(length)
		if err != nil {
			return "", err
		}
		code = c
		if _, taken := m.codes[code]; !taken || attempt >= maxCollisionRetries {
			break
		}
	}
	m.codes[code] = password{
		subject:   subject,
		expiresAt: m.now().Add(m.ttl),
	}
	return code, nil
}

// Validate consumes the code if it exists, was issued for the subject and has
// not expired, and reports whether it did. A false result is an expected
// outcome, not an error condition; the caller cannot distinguish a wrong
// code, a wrong subject and an expired code.
func (m *Manager) Validate(code, subject string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.codes[code]
	if !ok {
		return false
	}
	subjectOK := subtle.ConstantTimeCompare([]byte(entry.subject), []byte(subject)) == 1
	fresh := m.now().Before(entry.expiresAt)
	if subjectOK && fresh {
		delete(m.codes, code)
		return true
	}
	return false
}

// Sweep deletes every expired entry. It is idempotent and safe to run
// concurrently with Issue and Validate.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for code, entry := range m.codes {
		if !now.Before(entry.expiresAt) {
			delete(m.codes, code)
		}
	}
}

// RunSweeper runs Sweep on the given interval until the context is
// cancelled. A failing sweep run is logged and must never take the process
// down; the loop keeps going.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepSafely()
		}
	}
}

func (m *Manager) sweepSafely() {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("otp sweep run failed")
		}
	}()
	m.Sweep()
}

// randomCode draws a numeric string of the given digit count from a
// cryptographically secure source, left-padded with zeros.
func randomCode(length int) (string, error) {
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", errors.Wrap(err, "otp: could not read random source")
	}
	s := n.String()
	if len(s) < length {
		s = strings.Repeat("0", length-len(s)) + s
	}
	return s, nil
}
