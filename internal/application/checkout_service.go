package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
)

type CheckoutService struct {
	cart     *CartService
	orders   ports.OrderAPI
	payments ports.PaymentGateway
	tokens   ports.TokenStore
	log      zerolog.Logger
}

func NewCheckoutService(cart *CartService, orders ports.OrderAPI, payments ports.PaymentGateway, tokens ports.TokenStore, logger zerolog.Logger) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		orders:   orders,
		payments: payments,
		tokens:   tokens,
		log:      logger.With().Str("component", "checkout").Logger(),
	}
}

// Checkout turns the current cart into a paid order. Input is validated before
// any request. A declined payment returns ErrPaymentFailed and leaves both the
// order and the cart untouched; a successful one clears the cart.
func (s *CheckoutService) Checkout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	state, err := s.cart.State(ctx)
	if err != nil {
		return CheckoutResult{}, err
	}
	if state.IsEmpty() {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	req := domain.CreateOrderRequest{
		StoreID:       *state.StoreID,
		RecipientName: cmd.RecipientName,
		PaymentMethod: cmd.PayMethod,
		Items:         domain.OrderItems(state.Items),
	}
	if err := req.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	result := CheckoutResult{Totals: domain.ComputeTotals(state)}

	cmd.report(PhaseLoadingConfig, "")
	cfg, err := s.orders.GetPaymentConfig(ctx)
	if err != nil {
		return result, err
	}
	channelKey, err := cfg.ChannelKey(cmd.PayMethod)
	if err != nil {
		return result, err
	}

	cmd.report(PhaseCreatingOrder, "")
	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return result, err
	}
	result.Order = order

	cmd.report(PhasePreparingPayment, order.OrderID)
	if err := s.orders.PreparePayment(ctx, order.OrderID, req.StoreID, req.Items); err != nil {
		return result, err
	}

	if order.Amount != result.Totals.FinalAmount {
		s.log.Warn().
			Str("order_id", order.OrderID).
			Int64("server_amount", order.Amount).
			Int64("cart_amount", result.Totals.FinalAmount).
			Msg("server amount differs from cart total, charging server amount")
	}

	userID, err := s.tokens.Get(ctx, domain.TokenUserID)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return result, fmt.Errorf("load user id: %w", err)
	}

	cmd.report(PhasePaying, order.OrderID)
	payment, err := s.payments.RequestPayment(ctx, domain.PaymentRequest{
		StoreID:     req.StoreID,
		ChannelKey:  channelKey,
		PaymentID:   order.PaymentID,
		OrderName:   order.OrderName,
		TotalAmount: order.Amount,
		Currency:    domain.PaymentCurrency,
		PayMethod:   cmd.PayMethod,
		Customer:    domain.Customer{FullName: cmd.RecipientName, UserID: userID},
	})
	if err != nil {
		return result, fmt.Errorf("request payment for order %s: %w", order.OrderID, err)
	}
	result.Payment = payment
	if payment.Failed() {
		code := *payment.Code
		if code == "" {
			code = "no code"
		}
		return result, fmt.Errorf("%w: %s: %s", domain.ErrPaymentFailed, code, payment.Message)
	}

	s.log.Info().Str("order_id", order.OrderID).Str("tx_id", payment.TxID).Msg("order paid")

	cmd.report(PhaseClearingCart, order.OrderID)
	if _, err := s.cart.Dispatch(ctx, domain.ClearCart()); err != nil {
		return result, fmt.Errorf("order %s paid but clearing the cart failed: %w", order.OrderID, err)
	}

	return result, nil
}

func (cmd CheckoutCommand) report(phase CheckoutPhase, orderID string) {
	if cmd.Progress != nil {
		cmd.Progress(CheckoutStep{Phase: phase, OrderID: orderID})
	}
}
