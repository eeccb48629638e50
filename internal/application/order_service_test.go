package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderServiceStatusMany(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	service := NewOrderService(orders, nil, zerolog.Nop())

	notFound := &domain.APIError{StatusCode: 404, Message: "order ord-3 not found"}
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return(domain.OrderPaid, nil)
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-2").Return(domain.OrderPrepared, nil)
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-3").Return("", notFound)

	results, err := service.StatusMany(context.Background(), []string{"ord-1", "ord-2", "ord-3"})

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, OrderStatusResult{OrderID: "ord-1", Status: domain.OrderPaid}, results[0])
	assert.Equal(t, OrderStatusResult{OrderID: "ord-2", Status: domain.OrderPrepared}, results[1])
	assert.Equal(t, "ord-3", results[2].OrderID)
	assert.ErrorIs(t, results[2].Err, notFound)
}

func TestOrderServiceStatusManyAbortsOnSessionExpiry(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	service := NewOrderService(orders, nil, zerolog.Nop())

	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").
		Return("", fmt.Errorf("get order status: %w", domain.ErrSessionExpired)).Maybe()
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-2").Return(domain.OrderPaid, nil).Maybe()

	_, err := service.StatusMany(context.Background(), []string{"ord-1", "ord-2"})

	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestOrderServiceWatchStopsOnTerminalStatus(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	clock := mocks.NewMockClock(t)
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	clock.EXPECT().Now().Return(now)
	service := NewOrderService(orders, clock, zerolog.Nop())

	for _, status := range []domain.OrderStatus{
		domain.OrderPaid, domain.OrderPaid, domain.OrderPreparing, domain.OrderPrepared, domain.OrderReceived,
	} {
		orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return(status, nil).Once()
	}

	var updates []WatchUpdate
	final, err := service.Watch(context.Background(), "ord-1", WatchOptions{Interval: time.Millisecond}, func(update WatchUpdate) {
		updates = append(updates, update)
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderReceived, final)
	require.Len(t, updates, 4, "repeated statuses are not reported")
	assert.Equal(t, domain.OrderStatus(""), updates[0].Previous)
	assert.Equal(t, domain.OrderPaid, updates[0].Status)
	assert.Equal(t, now, updates[0].At)
	for _, update := range updates {
		assert.False(t, update.Unexpected)
	}
}

func TestOrderServiceWatchStopAtAndUnexpectedTransition(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Time{})
	service := NewOrderService(orders, clock, zerolog.Nop())

	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return(domain.OrderPending, nil).Once()
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return(domain.OrderPrepared, nil).Once()

	var updates []WatchUpdate
	final, err := service.Watch(context.Background(), "ord-1", WatchOptions{Interval: time.Millisecond, StopAt: domain.OrderPrepared}, func(update WatchUpdate) {
		updates = append(updates, update)
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OrderPrepared, final)
	require.Len(t, updates, 2)
	assert.True(t, updates[1].Unexpected, "PENDING cannot jump to PREPARED")
}

func TestOrderServiceWatchReturnsErrors(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	service := NewOrderService(orders, nil, zerolog.Nop())

	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return("", errors.New("boom"))

	_, err := service.Watch(context.Background(), "ord-1", WatchOptions{Interval: time.Millisecond}, nil)
	require.ErrorContains(t, err, "watch order ord-1: boom")
}

func TestOrderServiceWatchHonorsCancellation(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	service := NewOrderService(orders, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").
		RunAndReturn(func(context.Context, string) (domain.OrderStatus, error) {
			cancel()
			return domain.OrderPaid, nil
		}).Once()

	final, err := service.Watch(ctx, "ord-1", WatchOptions{Interval: time.Hour}, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.OrderPaid, final)
}

func TestOrderServiceDelegates(t *testing.T) {
	orders := mocks.NewMockOrderAPI(t)
	service := NewOrderService(orders, nil, zerolog.Nop())

	orders.EXPECT().CancelOrder(mockAnyContext(), "ord-1", "changed my mind").Return(nil)
	orders.EXPECT().ReceiveOrder(mockAnyContext(), "ord-1").Return(nil)
	orders.EXPECT().GetOrderQR(mockAnyContext(), "ord-1").Return("aGVsbG8=", nil)
	orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)
	orders.EXPECT().GetOrderStatus(mockAnyContext(), "ord-1").Return(domain.OrderPaid, nil)

	require.NoError(t, service.Cancel(context.Background(), "ord-1", "changed my mind"))
	require.NoError(t, service.Receive(context.Background(), "ord-1"))

	qr, err := service.QR(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", qr)

	cfg, err := service.PaymentConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, paymentConfig, cfg)

	status, err := service.Status(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, status)
}
