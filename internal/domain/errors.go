package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrCartNotFound   = errors.New("cart not found")

	// ErrSessionExpired is the umbrella for every auth failure that ends the
	// local session (and triggers a forced logout).
	ErrSessionExpired           = errors.New("session expired")
	ErrRefreshTokenMissing      = errors.New("refresh token missing")
	ErrRefreshFailed            = errors.New("token refresh failed")
	ErrUnauthorizedAfterRefresh = errors.New("unauthorized after token refresh")
	ErrUnknownRefreshResponse   = errors.New("unknown refresh response shape")
	ErrNotLoggedIn              = errors.New("not logged in")

	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrDifferentStore  = errors.New("cart contains items from a different store")
	ErrExceedsStock    = errors.New("quantity exceeds available stock")
	ErrItemNotFound    = errors.New("item not in cart")
	ErrInvalidHotdeal  = errors.New("invalid hotdeal")
	ErrHotdealNoStore  = errors.New("hotdeal needs a cart bound to a store")
	ErrUnknownAction   = errors.New("unknown cart action")

	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingRecipient     = errors.New("recipient name is required")
	ErrUnsupportedPayMethod = errors.New("unsupported payment method")
	ErrCancelReasonRequired = errors.New("cancel reason is required")
	ErrMissingChannelKey    = errors.New("payment channel key not configured")
	ErrPaymentFailed        = errors.New("payment failed")
	ErrInvalidTransition    = errors.New("invalid order status transition")
	ErrUnknownOrderStatus   = errors.New("unknown order status")
)

// APIError is a non-2xx response that is not handled by the session layer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.StatusCode, e.Message)
}

// StoreConflictError signals that an item belongs to a store other than the
// one the cart is bound to. The cart is left untouched.
type StoreConflictError struct {
	CartStoreID int64
	ItemStoreID int64
}

func (e *StoreConflictError) Error() string {
	return fmt.Sprintf("cart holds store %d, item belongs to store %d", e.CartStoreID, e.ItemStoreID)
}

func (e *StoreConflictError) Unwrap() error {
	return ErrDifferentStore
}
