package application

import (
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
)

type CheckoutResult struct {
	Order   domain.Order
	Totals  domain.CartTotals
	Payment domain.PaymentResult
}

type OrderStatusResult struct {
	OrderID string
	Status  domain.OrderStatus
	Err     error
}

type WatchUpdate struct {
	OrderID  string
	Previous domain.OrderStatus
	Status   domain.OrderStatus
	At       time.Time
	// Unexpected is set when the server reported a transition the state
	// machine does not allow. The server stays authoritative.
	Unexpected bool
}

type SessionStatus struct {
	LoggedIn        bool
	UserID          string
	PushRegistered  bool
	AccessExpiresAt time.Time
	AccessExpired   bool
}
