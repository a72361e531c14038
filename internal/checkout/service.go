// Package checkout orchestrates sessions, carts, and pricing into the
// operations the transport layer exposes.
package checkout

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/pos-checkout/internal/cart"
	"github.com/xenking/pos-checkout/internal/catalog"
	"github.com/xenking/pos-checkout/internal/pricing"
	"github.com/xenking/pos-checkout/internal/session"
)

// Service resolves sessions, drives cart mutations, and translates domain
// failures into typed errors carrying the offending SKU or session id.
type Service struct {
	catalog  *catalog.Catalog
	sessions *session.Registry
	rules    []pricing.Rule
}

// NewService creates a checkout Service. New sessions receive the given
// default rule list unless CreateSessionWithRules overrides it.
func NewService(cat *catalog.Catalog, sessions *session.Registry, defaultRules []pricing.Rule) *Service {
	return &Service{
		catalog:  cat,
		sessions: sessions,
		rules:    defaultRules,
	}
}

// CreateSession starts a new checkout session with the default pricing rules.
func (s *Service) CreateSession(ctx context.Context) *session.Session {
	return s.CreateSessionWithRules(ctx, s.rules)
}

// CreateSessionWithRules starts a new checkout session with a custom rule list.
func (s *Service) CreateSessionWithRules(_ context.Context, rules []pricing.Rule) *session.Session {
	return s.sessions.Create(rules)
}

// ScanItem adds one unit of sku to the session's cart and returns the updated
// cart contents. The SKU is validated against the catalog before the cart is
// touched, so a failed scan never mutates cart state.
func (s *Service) ScanItem(_ context.Context, sessionID, sku string) ([]cart.Item, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	// Validate against the catalog up front. The cart re-checks on Scan,
	// but failing here keeps the typed error in one place.
	if _, err := s.catalog.Lookup(sku); err != nil {
		return nil, &ProductNotFoundError{SKU: sku}
	}

	if err := sess.Cart.Scan(sku); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, &ProductNotFoundError{SKU: sku}
		}
		return nil, errors.Wrapf(err, "scan %q", sku)
	}
	return sess.Cart.Items(), nil
}

// Total returns the session's cart total with all pricing rules applied.
func (s *Service) Total(_ context.Context, sessionID string) (decimal.Decimal, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return sess.Cart.Total(), nil
}

// Details holds the cart contents and total taken from one consistent
// snapshot of the session's cart.
type Details struct {
	Items []cart.Item
	Total decimal.Decimal
}

// SessionDetails returns the cart contents and total for a session. Both come
// from a single cart snapshot: a concurrent scan can never land between the
// items read and the total computation.
func (s *Service) SessionDetails(_ context.Context, sessionID string) (*Details, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	items, total := sess.Cart.Snapshot()
	return &Details{Items: items, Total: total}, nil
}

// DeleteSession removes a session and reports whether it existed.
func (s *Service) DeleteSession(_ context.Context, sessionID string) bool {
	return s.sessions.Delete(sessionID)
}

// Rules returns the default rule list used for new sessions.
func (s *Service) Rules() []pricing.Rule {
	return s.rules
}

// Catalog returns the product catalog the service sells from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) lookup(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, &SessionNotFoundError{SessionID: sessionID}
		}
		return nil, errors.Wrap(err, "lookup session")
	}
	return sess, nil
}
