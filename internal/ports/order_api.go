package ports

import (
	"context"

	"github.com/bnema/storefront-cli/internal/domain"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error)
	PreparePayment(ctx context.Context, orderID string, storeID int64, items []domain.OrderItem) error
	GetPaymentConfig(ctx context.Context) (domain.PaymentConfig, error)
	GetOrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error)
	CancelOrder(ctx context.Context, orderID string, reason string) error
	ReceiveOrder(ctx context.Context, orderID string) error
	// GetOrderQR returns the pickup QR image, base64-encoded.
	GetOrderQR(ctx context.Context, orderID string) (string, error)
}
