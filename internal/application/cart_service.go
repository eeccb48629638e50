package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
)

// CartService owns the cart state. Mutations are serialized and a new state
// is only committed once the repository accepted it.
type CartService struct {
	repo ports.CartRepository
	log  zerolog.Logger

	mu     sync.Mutex
	state  domain.CartState
	loaded bool
}

func NewCartService(repo ports.CartRepository, logger zerolog.Logger) *CartService {
	return &CartService{
		repo: repo,
		log:  logger.With().Str("component", "cart").Logger(),
	}
}

func (s *CartService) State(ctx context.Context) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return domain.CartState{}, err
	}
	return s.state, nil
}

func (s *CartService) Totals(ctx context.Context) (domain.CartTotals, error) {
	state, err := s.State(ctx)
	if err != nil {
		return domain.CartTotals{}, err
	}
	return domain.ComputeTotals(state), nil
}

// Dispatch applies one action. On any error the previous state stays current.
func (s *CartService) Dispatch(ctx context.Context, action domain.CartAction) (domain.CartState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx); err != nil {
		return domain.CartState{}, err
	}

	next, err := domain.ReduceCart(s.state, action)
	if err != nil {
		return s.state, err
	}

	if err := s.persist(ctx, action, next); err != nil {
		return s.state, err
	}

	s.state = next
	s.log.Debug().
		Str("action", string(action.Type)).
		Int("lines", len(next.Items)).
		Int64("total_sale", next.TotalSalePrice).
		Msg("cart updated")

	return next, nil
}

// persist drops the stored cart on clear instead of writing an empty one.
func (s *CartService) persist(ctx context.Context, action domain.CartAction, next domain.CartState) error {
	if action.Type == domain.ActionClearCart {
		if err := s.repo.Delete(ctx); err != nil {
			return fmt.Errorf("delete cart after %s: %w", action.Type, err)
		}
		return nil
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("save cart after %s: %w", action.Type, err)
	}
	return nil
}

func (s *CartService) loadLocked(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	state, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		state = domain.EmptyCart()
	case err != nil:
		return fmt.Errorf("load cart: %w", err)
	}

	s.state = state
	s.loaded = true
	return nil
}
