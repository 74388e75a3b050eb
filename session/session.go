// Package session holds the merchant's bearer token and its expiry, persists
// them to durable key-value storage and gates the authenticated area.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	TokenKey      = "token"
	ExpirationKey = "expiration"

	// Lifetime is fixed; the backend does not hand out refresh tokens.
	Lifetime = 24 * time.Hour
)

var ErrEmptyToken = errors.New("session: empty token")

// Storage is durable key-value state. Get reports ok=false for an absent key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Session struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidAt reports whether the session carries a token and now is before expiry.
func (s Session) ValidAt(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the single process-wide session. It is created once by the
// app root and passed by reference to whatever needs the token.
type Manager struct {
	store Storage
	now   func() time.Time

	mu        sync.RWMutex
	cur       Session
	gen       uint64
	listeners []func()

	expiry singleflight.Group
}

func NewManager(store Storage, opts ...Option) *Manager {
	m := &Manager{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load populates memory from storage. Absent, unreadable or malformed
// values leave the session logged out; none of them is an error.
func (m *Manager) Load(ctx context.Context) {
	token, okTok, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		log.Printf("[session] read %s failed, treating as logged out: %v", TokenKey, err)
	}
	raw, okExp, err2 := m.store.Get(ctx, ExpirationKey)
	if err2 != nil {
		log.Printf("[session] read %s failed, treating as logged out: %v", ExpirationKey, err2)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = Session{}
	if err != nil || err2 != nil || !okTok || !okExp || token == "" {
		return
	}
	ms, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil {
		log.Printf("[session] malformed %s %q, treating as logged out", ExpirationKey, raw)
		return
	}
	exp := time.UnixMilli(ms)
	m.cur = Session{Token: token, IssuedAt: exp.Add(-Lifetime), ExpiresAt: exp}
	m.gen++
}

// Login replaces any prior session with a fresh 24h one. If storage cannot
// be written the session ends up logged out and the error is returned.
func (m *Manager) Login(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	now := m.now()
	s := Session{Token: token, IssuedAt: now, ExpiresAt: now.Add(Lifetime)}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++

	// the rollback must reach storage even when ctx is what failed the write
	exp := strconv.FormatInt(s.ExpiresAt.UnixMilli(), 10)
	if err := m.store.Set(ctx, ExpirationKey, exp); err != nil {
		_ = m.clearLocked(context.WithoutCancel(ctx))
		return fmt.Errorf("session: persist expiration: %w", err)
	}
	if err := m.store.Set(ctx, TokenKey, token); err != nil {
		_ = m.clearLocked(context.WithoutCancel(ctx))
		return fmt.Errorf("session: persist token: %w", err)
	}
	m.cur = s
	log.Printf("[session] logged in, expires %s", s.ExpiresAt.Format(time.RFC3339))
	return nil
}

// Logout clears storage and memory. Calling it while logged out is a no-op
// apart from re-deleting the keys.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearLocked(ctx)
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.cur = Session{}
	var errs []error
	if err := m.store.Delete(ctx, ExpirationKey); err != nil {
		errs = append(errs, err)
	}
	if err := m.store.Delete(ctx, TokenKey); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		log.Printf("[session] clearing storage failed: %v", err)
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

func (m *Manager) IsValid() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.ValidAt(m.now())
}

// Current returns a copy of the in-memory session.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Credentials returns the token together with the generation it belongs to.
// The generation is handed back to Expire when the request is rejected.
func (m *Manager) Credentials() (token string, gen uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur.Token, m.gen
}

// OnExpired registers fn to run once per forced logout.
func (m *Manager) OnExpired(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// Expire performs the forced logout for generation gen. Only the first call
// for the live generation clears the session and notifies listeners.
// Concurrent callers join that call and share its result; later callers see
// a stale generation and get false. Storage is cleared even if ctx has
// already been cancelled, so a rejected token never survives a restart.
func (m *Manager) Expire(ctx context.Context, gen uint64) bool {
	v, _, _ := m.expiry.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		m.mu.Lock()
		if gen != m.gen || m.cur.Token == "" {
			m.mu.Unlock()
			return false, nil
		}
		m.gen++
		_ = m.clearLocked(context.WithoutCancel(ctx))
		listeners := append([]func(){}, m.listeners...)
		m.mu.Unlock()

		log.Printf("[session] session expired, forcing logout")
		for _, fn := range listeners {
			fn()
		}
		return true, nil
	})
	performed, _ := v.(bool)
	return performed
}
