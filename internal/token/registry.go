// Package token maps short opaque tokens to canonical URLs so that raw
// links never travel through transport callback payloads, which have
// length and charset limits.
package token

import (
	"strconv"
	"sync"
	"time"

	"github.com/vidsnap/bot/internal/media"
)

// Scope is the conversation boundary within which a token is valid.
type Scope string

// Clock abstracts time for testing.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type entry struct {
	url       media.CanonicalURL
	expiresAt time.Time
}

type scopeState struct {
	next    uint64
	entries map[string]entry
}

// Registry issues and resolves tokens per conversation scope. Tokens are
// generated from a per-scope monotonic counter, so two distinct URLs
// registered in the same scope can never alias each other.
type Registry struct {
	mu     sync.Mutex
	ttl    time.Duration
	scopes map[Scope]*scopeState
	clock  Clock
}

// NewRegistry creates a Registry whose tokens expire after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:    ttl,
		scopes: make(map[Scope]*scopeState),
		clock:  realClock{},
	}
}

// Register binds url to a fresh token within scope and returns the token.
func (r *Registry) Register(scope Scope, u media.CanonicalURL) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.scopes[scope]
	if s == nil {
		s = &scopeState{entries: make(map[string]entry)}
		r.scopes[scope] = s
	}

	s.next++
	tok := "t" + strconv.FormatUint(s.next, 36)
	s.entries[tok] = entry{url: u, expiresAt: r.clock.Now().Add(r.ttl)}
	return tok
}

// Resolve returns the URL bound to tok within scope. Expired tokens and
// tokens registered in a different scope do not resolve.
func (r *Registry) Resolve(scope Scope, tok string) (media.CanonicalURL, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.scopes[scope]
	if s == nil {
		return media.CanonicalURL{}, false
	}
	e, ok := s.entries[tok]
	if !ok || r.clock.Now().After(e.expiresAt) {
		return media.CanonicalURL{}, false
	}
	return e.url, true
}

// ResetScope drops all tokens belonging to scope.
func (r *Registry) ResetScope(scope Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scopes, scope)
}

// Sweep removes expired entries and empty scopes. It is driven by a
// periodic ticker so the registry cannot grow without bound.
func (r *Registry) Sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for scope, s := range r.scopes {
		for tok, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, tok)
			}
		}
		if len(s.entries) == 0 {
			delete(r.scopes, scope)
		}
	}
}
