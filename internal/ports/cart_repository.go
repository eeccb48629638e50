package ports

import (
	"context"

	"github.com/bnema/storefront-cli/internal/domain"
)

type CartRepository interface {
	// Load returns domain.ErrCartNotFound when nothing was saved yet.
	Load(ctx context.Context) (domain.CartState, error)
	Save(ctx context.Context, state domain.CartState) error
	Delete(ctx context.Context) error
}
