package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentStatusCalls = 4

type OrderService struct {
	orders ports.OrderAPI
	clock  ports.Clock
	log    zerolog.Logger
}

func NewOrderService(orders ports.OrderAPI, clock ports.Clock, logger zerolog.Logger) *OrderService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &OrderService{
		orders: orders,
		clock:  clock,
		log:    logger.With().Str("component", "orders").Logger(),
	}
}

func (s *OrderService) Status(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	return s.orders.GetOrderStatus(ctx, orderID)
}

// StatusMany fetches several statuses concurrently. Per-order failures are
// reported in the results; only a session failure aborts the whole batch.
func (s *OrderService) StatusMany(ctx context.Context, orderIDs []string) ([]OrderStatusResult, error) {
	results := make([]OrderStatusResult, len(orderIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentStatusCalls)
	for i, orderID := range orderIDs {
		g.Go(func() error {
			status, err := s.orders.GetOrderStatus(gctx, orderID)
			if errors.Is(err, domain.ErrSessionExpired) {
				return err
			}
			results[i] = OrderStatusResult{OrderID: orderID, Status: status, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID, reason string) error {
	return s.orders.CancelOrder(ctx, orderID, reason)
}

func (s *OrderService) Receive(ctx context.Context, orderID string) error {
	return s.orders.ReceiveOrder(ctx, orderID)
}

func (s *OrderService) QR(ctx context.Context, orderID string) (string, error) {
	return s.orders.GetOrderQR(ctx, orderID)
}

func (s *OrderService) PaymentConfig(ctx context.Context) (domain.PaymentConfig, error) {
	return s.orders.GetPaymentConfig(ctx)
}

// Watch polls the order status at a fixed interval and reports every change
// to onUpdate. It returns the last observed status once that status is
// terminal or equals opts.StopAt.
func (s *OrderService) Watch(ctx context.Context, orderID string, opts WatchOptions, onUpdate func(WatchUpdate)) (domain.OrderStatus, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultWatchInterval
	}

	var previous domain.OrderStatus
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return previous, ctx.Err()
		case <-timer.C:
		}

		status, err := s.orders.GetOrderStatus(ctx, orderID)
		if err != nil {
			return previous, fmt.Errorf("watch order %s: %w", orderID, err)
		}

		if status != previous {
			update := WatchUpdate{
				OrderID:  orderID,
				Previous: previous,
				Status:   status,
				At:       s.clock.Now(),
			}
			if previous != "" && !previous.CanTransitionTo(status) {
				update.Unexpected = true
				s.log.Warn().
					Str("order_id", orderID).
					Str("from", string(previous)).
					Str("to", string(status)).
					Msg("unexpected order status transition")
			}
			if onUpdate != nil {
				onUpdate(update)
			}
			previous = status
		}

		if status.IsTerminal() || (opts.StopAt != "" && status == opts.StopAt) {
			return status, nil
		}

		timer.Reset(interval)
	}
}
