// Package screen carries the lifecycle pieces shared by the screen
// controllers: a mount scope that drops late responses and the navigator
// used to send the merchant back to login.
package screen

import (
	"context"
	"sync"
)

type Route string

const (
	RouteLogin Route = "login"
	RouteHome  Route = "home"
)

type Navigator interface {
	Navigate(Route)
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func(Route)

func (f NavigatorFunc) Navigate(r Route) { f(r) }

// Scope lives as long as a screen is mounted. Requests issued through
// Context are cancelled on Close, and Commit refuses to touch screen state
// afterwards.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context { return s.ctx }

// Close unmounts the screen. Safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Commit runs apply only while the screen is mounted and reports whether it
// ran. Close waits for a running apply to finish.
func (s *Scope) Commit(apply func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	apply()
	return true
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
