package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	authadapter "github.com/bnema/storefront-cli/internal/adapters/auth"
	"github.com/bnema/storefront-cli/internal/adapters/commerce"
	"github.com/bnema/storefront-cli/internal/adapters/payment"
	cartrender "github.com/bnema/storefront-cli/internal/adapters/render/cart"
	redisrepo "github.com/bnema/storefront-cli/internal/adapters/repo/redis"
	tomlrepo "github.com/bnema/storefront-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/storefront-cli/internal/adapters/secrets/chain"
	"github.com/bnema/storefront-cli/internal/adapters/secrets/tokens"
	"github.com/bnema/storefront-cli/internal/application"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	cfg    *viper.Viper
	log    zerolog.Logger
	tokens *tokens.Store

	sessions *application.SessionService
	orders   *application.OrderService
	payments ports.PaymentGateway
	api      *commerce.Client

	renderCart func(domain.CartState) (string, error)

	// forcedLogout is set when this invocation lost its session.
	forcedLogout atomic.Bool

	cartOnce sync.Once
	cart     *application.CartService
	cartErr  error

	// closers are released in reverse order once the command returns.
	closers []io.Closer
}

func wireApp() (*app, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}

	logger := newLogger(os.Stderr, cfg.GetString(keyLogLevel))

	secretStore, err := chainstore.Open(cfg.GetString(keySecretsBackend), filepath.Join(dir, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}
	tokenStore := tokens.NewStore(secretStore)

	a := &app{
		cfg:        cfg,
		log:        logger,
		tokens:     tokenStore,
		renderCart: cartrender.Render,
	}

	session, err := authadapter.NewClient(authadapter.Config{
		BaseURL:        cfg.GetString(keyAPIBaseURL),
		RequestTimeout: cfg.GetDuration(keyAPITimeout),
		Logger:         logger,
		OnForcedLogout: func(reason error) {
			a.forcedLogout.Store(true)
			logger.Debug().Err(reason).Msg("forced logout")
		},
	}, tokenStore)
	if err != nil {
		return nil, fmt.Errorf("wire session client: %w", err)
	}

	gateway, err := payment.NewGateway(payment.Config{
		Endpoint: cfg.GetString(keyPaymentEndpoint),
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("wire payment gateway: %w", err)
	}

	a.api = commerce.NewClient(session, logger)
	a.payments = gateway
	a.sessions = application.NewSessionService(session, tokenStore, ports.SystemClock{}, logger)
	a.orders = application.NewOrderService(a.api, ports.SystemClock{}, logger)

	return a, nil
}

// cartService opens the cart backend on first use so commands that never
// touch the cart keep working while Redis is down.
func (a *app) cartService(ctx context.Context) (*application.CartService, error) {
	a.cartOnce.Do(func() {
		repo, err := a.openCartRepository(ctx)
		if err != nil {
			a.cartErr = err
			return
		}
		a.cart = application.NewCartService(repo, a.log)
	})

	return a.cart, a.cartErr
}

func (a *app) openCartRepository(ctx context.Context) (ports.CartRepository, error) {
	switch backend := strings.ToLower(a.cfg.GetString(keyCartBackend)); backend {
	case "", cartBackendTOML:
		repo, err := tomlrepo.NewRepository(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("wire cart repository: %w", err)
		}
		return repo, nil
	case cartBackendRedis:
		owner, err := a.tokens.Get(ctx, domain.TokenUserID)
		if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			return nil, fmt.Errorf("load user id: %w", err)
		}
		repo, err := redisrepo.NewRepository(ctx, redisrepo.Config{
			Addr:     a.cfg.GetString(keyRedisAddr),
			Password: a.cfg.GetString(keyRedisPassword),
			DB:       a.cfg.GetInt(keyRedisDB),
			Owner:    owner,
			TTL:      a.cfg.GetDuration(keyRedisTTL),
		})
		if err != nil {
			return nil, fmt.Errorf("wire cart repository: %w", err)
		}
		a.closers = append(a.closers, repo)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown cart backend %q (want %s or %s)", backend, cartBackendTOML, cartBackendRedis)
	}
}

func (a *app) checkoutService(ctx context.Context) (*application.CheckoutService, error) {
	cart, err := a.cartService(ctx)
	if err != nil {
		return nil, err
	}

	return application.NewCheckoutService(cart, a.api, a.payments, a.tokens, a.log), nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("release resources: %w", err)
	}
	return nil
}

func newLogger(out io.Writer, level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: true}).
		Level(parsed).
		With().
		Timestamp().
		Logger()
}
