package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const pushDeleteTimeout = 5 * time.Second

type loginPayload struct {
	AccessRefreshToken *accessRefreshPayload `json:"accessRefreshToken"`
	UserInfo           struct {
		ID json.RawMessage `json:"id"`
	} `json:"userInfo"`
}

// Login exchanges credentials for a session and persists it. A 401 here means
// bad credentials and never starts a refresh.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Credentials, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.Credentials{}, errors.New("username and password are required")
	}

	prepared, err := c.prepare(Request{
		Method: http.MethodPost,
		Path:   PathLogin,
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return domain.Credentials{}, err
	}

	resp, err := c.send(ctx, prepared, "")
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("login: %w", err)
	}
	if _, err := checkStatus(resp); err != nil {
		return domain.Credentials{}, fmt.Errorf("login: %w", err)
	}

	var payload loginPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return domain.Credentials{}, fmt.Errorf("decode login response: %w", err)
	}
	if payload.AccessRefreshToken == nil {
		return domain.Credentials{}, errors.New("login response missing accessRefreshToken")
	}
	creds, err := credentialsFrom(payload.AccessRefreshToken.Access, payload.AccessRefreshToken.Refresh)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("login: %w", err)
	}
	if creds.RefreshToken == "" {
		return domain.Credentials{}, errors.New("login response missing refresh token")
	}
	creds.UserID = userIDFrom(payload.UserInfo.ID, creds.AccessToken)

	c.logoutMu.Lock()
	defer c.logoutMu.Unlock()

	saved := []struct {
		key   domain.TokenKey
		value string
	}{
		{domain.TokenAccess, creds.AccessToken},
		{domain.TokenRefresh, creds.RefreshToken},
		{domain.TokenUserID, creds.UserID},
	}
	for _, entry := range saved {
		if err := c.tokens.Set(ctx, entry.key, entry.value); err != nil {
			return domain.Credentials{}, fmt.Errorf("persist session: %w", err)
		}
	}
	c.setToken(creds.AccessToken)

	c.log.Info().Str("user_id", creds.UserID).Msg("logged in")

	return creds, nil
}

// userIDFrom prefers the user id from the login body and falls back to the
// access token subject.
func userIDFrom(raw json.RawMessage, accessToken string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			return asString
		}
		var asNumber json.Number
		if err := json.Unmarshal(raw, &asNumber); err == nil {
			return asNumber.String()
		}
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return ""
	}
	return claims.Subject
}

// Logout ends the session the same way a failed refresh does, minus the hook.
// It never fails.
func (c *Client) Logout(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	c.logoutMu.Lock()
	defer c.logoutMu.Unlock()

	c.endSession(ctx)
	c.log.Info().Msg("logged out")

	return nil
}

// RegisterPushToken registers the device push id with the backend and keeps
// it locally so logout can unregister it. A 401 here is a plain failure.
func (c *Client) RegisterPushToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("push token is required")
	}

	if _, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathPushRegister,
		Body:   map[string]string{"notificationToken": token},
	}); err != nil {
		return fmt.Errorf("register push token: %w", err)
	}

	if err := c.tokens.Set(ctx, domain.TokenPush, token); err != nil {
		return fmt.Errorf("persist push token: %w", err)
	}

	return nil
}

func (c *Client) forceLogout(ctx context.Context, reason error) {
	ctx = context.WithoutCancel(ctx)

	c.logoutMu.Lock()
	c.endSession(ctx)
	c.logoutMu.Unlock()

	c.log.Warn().Err(reason).Msg("session ended, login required")

	if c.onForcedLogout != nil {
		c.onForcedLogout(reason)
	}
}

// endSession unregisters the push token when one is stored, then clears every
// local session key. Failures are logged and never stop the local clearing.
func (c *Client) endSession(ctx context.Context) {
	pushToken, err := c.tokens.Get(ctx, domain.TokenPush)
	switch {
	case err == nil:
		deleteCtx, cancel := context.WithTimeout(ctx, pushDeleteTimeout)
		if _, err := c.Do(deleteCtx, Request{
			Method: http.MethodPost,
			Path:   PathPushDelete,
			Body:   map[string]string{"notificationToken": pushToken},
		}); err != nil {
			c.log.Warn().Err(err).Msg("unregister push token")
		}
		cancel()
	case !errors.Is(err, domain.ErrSecretNotFound):
		c.log.Warn().Err(err).Msg("read push token")
	}

	if err := c.tokens.Clear(ctx); err != nil {
		c.log.Error().Err(err).Msg("clear session tokens")
	}
	c.setToken("")
}
