package checkout

import "fmt"

// ProductNotFoundError indicates a scanned SKU does not exist in the catalog.
type ProductNotFoundError struct {
	SKU string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with SKU %q not found", e.SKU)
}

// SessionNotFoundError indicates a checkout session does not exist or was
// already deleted.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("checkout session %q not found", e.SessionID)
}
