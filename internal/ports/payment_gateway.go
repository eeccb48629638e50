package ports

import (
	"context"

	"github.com/bnema/storefront-cli/internal/domain"
)

// PaymentGateway is the external payment provider. A transport failure is an
// error; a declined payment is a result carrying a code.
type PaymentGateway interface {
	RequestPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error)
}
