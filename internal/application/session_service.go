package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

type SessionService struct {
	client ports.SessionClient
	tokens ports.TokenStore
	clock  ports.Clock
	log    zerolog.Logger
}

func NewSessionService(client ports.SessionClient, tokens ports.TokenStore, clock ports.Clock, logger zerolog.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{
		client: client,
		tokens: tokens,
		clock:  clock,
		log:    logger.With().Str("component", "session").Logger(),
	}
}

// Login delegates to the session client, which persists and logs the session.
func (s *SessionService) Login(ctx context.Context, username, password string) (domain.Credentials, error) {
	return s.client.Login(ctx, username, password)
}

// Logout ends the session locally even when the server is unreachable.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.client.Logout(ctx)
}

func (s *SessionService) RegisterPush(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("push token is required")
	}

	session, err := s.tokens.Session(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !session.LoggedIn() {
		return domain.ErrNotLoggedIn
	}

	return s.client.RegisterPushToken(ctx, token)
}

// Status describes the stored session without contacting the server. The
// access token's claims are read unverified; only the server can vouch for it.
func (s *SessionService) Status(ctx context.Context) (SessionStatus, error) {
	session, err := s.tokens.Session(ctx)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("load session: %w", err)
	}

	status := SessionStatus{
		LoggedIn:       session.LoggedIn(),
		UserID:         session.UserID,
		PushRegistered: session.PushToken != "",
	}
	if session.AccessToken == "" {
		status.AccessExpired = status.LoggedIn
		return status, nil
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, &claims); err != nil {
		s.log.Debug().Err(err).Msg("access token is not a readable jwt")
		return status, nil
	}
	if status.UserID == "" {
		status.UserID = claims.Subject
	}
	if claims.ExpiresAt != nil {
		status.AccessExpiresAt = claims.ExpiresAt.Time
		status.AccessExpired = !s.clock.Now().Before(claims.ExpiresAt.Time)
	}

	return status, nil
}
