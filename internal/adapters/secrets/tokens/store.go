package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
)

const DefaultNamespace = "storefront/session"

// Store maps session keys onto a SecretStore under a fixed namespace.
type Store struct {
	secrets   ports.SecretStore
	namespace string
}

var _ ports.TokenStore = (*Store)(nil)

func NewStore(secrets ports.SecretStore) *Store {
	return NewStoreWithNamespace(secrets, DefaultNamespace)
}

func NewStoreWithNamespace(secrets ports.SecretStore, namespace string) *Store {
	return &Store{secrets: secrets, namespace: strings.Trim(namespace, "/")}
}

func (s *Store) Get(ctx context.Context, key domain.TokenKey) (string, error) {
	value, err := s.secrets.Get(ctx, s.secretKey(key))
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	if value == "" {
		return "", fmt.Errorf("get %s: %w", key, domain.ErrSecretNotFound)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key domain.TokenKey, value string) error {
	if value == "" {
		return s.Delete(ctx, key)
	}
	if err := s.secrets.Put(ctx, s.secretKey(key), value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key domain.TokenKey) error {
	if err := s.secrets.Delete(ctx, s.secretKey(key)); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

// Clear removes every session key, attempting all of them even if some fail.
func (s *Store) Clear(ctx context.Context) error {
	var errs error
	for _, key := range domain.SessionKeys {
		if err := s.Delete(ctx, key); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}

// Session reads every key; absent keys are left empty.
func (s *Store) Session(ctx context.Context) (domain.Session, error) {
	var session domain.Session
	fields := map[domain.TokenKey]*string{
		domain.TokenAccess:  &session.AccessToken,
		domain.TokenRefresh: &session.RefreshToken,
		domain.TokenUserID:  &session.UserID,
		domain.TokenPush:    &session.PushToken,
	}

	for key, field := range fields {
		value, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrSecretNotFound) {
				continue
			}
			return domain.Session{}, err
		}
		*field = value
	}

	return session, nil
}

func (s *Store) secretKey(key domain.TokenKey) string {
	return s.namespace + "/" + string(key)
}
