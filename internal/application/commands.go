package application

import (
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
)

type CheckoutCommand struct {
	RecipientName string
	PayMethod     domain.PayMethod
	// Progress, when set, is called as checkout moves between phases.
	Progress func(CheckoutStep)
}

type CheckoutPhase string

const (
	PhaseLoadingConfig    CheckoutPhase = "loading_config"
	PhaseCreatingOrder    CheckoutPhase = "creating_order"
	PhasePreparingPayment CheckoutPhase = "preparing_payment"
	PhasePaying           CheckoutPhase = "paying"
	PhaseClearingCart     CheckoutPhase = "clearing_cart"
)

// CheckoutStep carries the order id once the order exists.
type CheckoutStep struct {
	Phase   CheckoutPhase
	OrderID string
}

type WatchOptions struct {
	Interval time.Duration
	// StopAt ends the watch early once this status is observed. Terminal
	// statuses always end it.
	StopAt domain.OrderStatus
}

const DefaultWatchInterval = 5 * time.Second
