// Package session owns the set of live checkout sessions.
package session

import (
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/pos-checkout/internal/cart"
	"github.com/xenking/pos-checkout/internal/catalog"
	"github.com/xenking/pos-checkout/internal/pricing"
)

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Session is one customer's checkout context: a UUID, the cart it exclusively
// owns, and the creation timestamp. Sessions live until explicitly deleted;
// there is no TTL or eviction.
type Session struct {
	ID        string
	Cart      *cart.Cart
	CreatedAt time.Time
}

// Registry is the owner of all live sessions. It is constructed once at
// service startup and handed to the checkout service; it must never be a
// package-level singleton.
//
// Create, Get, and Delete are safe for concurrent use. The lock guards only
// the session map, so operations on different sessions contend only for the
// map access itself; cart state is synchronized separately inside cart.Cart.
type Registry struct {
	catalog *catalog.Catalog

	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry creates an empty Registry whose carts price against the given
// catalog.
func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{
		catalog:  cat,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create generates a fresh session with an empty cart bound to the given rule
// list, stores it, and returns it.
func (r *Registry) Create(rules []pricing.Rule) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		Cart:      cart.New(r.catalog, rules),
		CreatedAt: r.now(),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// Get returns the session with the given id, or ErrNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "session %q", id)
	}
	return s, nil
}

// Delete removes the session with the given id. It reports whether this call
// removed a live session; deleting an absent id is a safe no-op.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns a snapshot of all live sessions in unspecified order.
// Intended for bookkeeping and tests.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
