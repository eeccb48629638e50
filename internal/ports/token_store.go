package ports

import (
	"context"

	"github.com/bnema/storefront-cli/internal/domain"
)

// TokenStore persists the session. Get returns domain.ErrSecretNotFound for
// absent keys.
type TokenStore interface {
	Get(ctx context.Context, key domain.TokenKey) (string, error)
	Set(ctx context.Context, key domain.TokenKey, value string) error
	Delete(ctx context.Context, key domain.TokenKey) error
	Clear(ctx context.Context) error
	Session(ctx context.Context) (domain.Session, error)
}
