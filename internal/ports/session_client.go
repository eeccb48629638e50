package ports

import (
	"context"

	"github.com/bnema/storefront-cli/internal/domain"
)

type SessionClient interface {
	Login(ctx context.Context, username, password string) (domain.Credentials, error)
	Logout(ctx context.Context) error
	RegisterPushToken(ctx context.Context, token string) error
}
