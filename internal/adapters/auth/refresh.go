package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
)

// pendingRefresh is the in-flight refresh. Waiters receive exactly one result.
type pendingRefresh struct {
	waiters []chan refreshResult
}

type refreshResult struct {
	token string
	err   error
}

// renewAfterUnauthorized returns the token to replay with after a 401 seen
// while sending sentToken. Only the first caller performs the network refresh;
// callers arriving while it runs wait for its outcome.
func (c *Client) renewAfterUnauthorized(ctx context.Context, sentToken string) (string, error) {
	c.mu.Lock()

	// another call already renewed the token after this one was sent
	if c.accessToken != "" && c.accessToken != sentToken {
		token := c.accessToken
		c.mu.Unlock()
		return token, nil
	}

	if c.pending != nil {
		wait := make(chan refreshResult, 1)
		c.pending.waiters = append(c.pending.waiters, wait)
		c.mu.Unlock()

		select {
		case result := <-wait:
			return result.token, result.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	pending := &pendingRefresh{}
	c.pending = pending
	c.mu.Unlock()

	// the leader finishes even if its own caller gives up
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	token, err := c.refresh(refreshCtx)
	if err != nil {
		c.forceLogout(refreshCtx, err)
	}

	c.mu.Lock()
	if err == nil {
		c.accessToken = token
		c.tokenLoaded = true
	}
	waiters := pending.waiters
	c.pending = nil
	c.mu.Unlock()

	for _, wait := range waiters {
		wait <- refreshResult{token: token, err: err}
	}

	return token, err
}

// refresh exchanges the stored refresh token and persists the result. Every
// error it returns wraps domain.ErrSessionExpired.
func (c *Client) refresh(ctx context.Context) (string, error) {
	refreshToken, err := c.tokens.Get(ctx, domain.TokenRefresh)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: %w", domain.ErrSessionExpired, domain.ErrRefreshTokenMissing)
		}
		return "", fmt.Errorf("%w: %w: read refresh token: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}

	prepared, err := c.prepare(Request{
		Method: http.MethodPost,
		Path:   PathRefresh,
		Body:   map[string]string{"refreshToken": refreshToken},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}

	resp, err := c.send(ctx, prepared, "")
	if err != nil {
		return "", fmt.Errorf("%w: %w: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}
	if _, err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("%w: %w: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}

	creds, err := parseRefreshResponse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}

	if err := c.tokens.Set(ctx, domain.TokenAccess, creds.AccessToken); err != nil {
		return "", fmt.Errorf("%w: %w: persist access token: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
	}
	if creds.RefreshToken != "" {
		if err := c.tokens.Set(ctx, domain.TokenRefresh, creds.RefreshToken); err != nil {
			return "", fmt.Errorf("%w: %w: persist refresh token: %w", domain.ErrSessionExpired, domain.ErrRefreshFailed, err)
		}
	}

	c.log.Debug().Str("request_id", prepared.requestID).Bool("rotated", creds.RefreshToken != "").Msg("access token renewed")

	return creds.AccessToken, nil
}

type tokenPayload struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type accessRefreshPayload struct {
	Access  *tokenPayload `json:"access"`
	Refresh *tokenPayload `json:"refresh"`
}

// refreshPayload holds both shapes the refresh endpoint is known to return:
// a flat {access} object or the login-style {accessRefreshToken} envelope.
type refreshPayload struct {
	Access             *tokenPayload         `json:"access"`
	AccessRefreshToken *accessRefreshPayload `json:"accessRefreshToken"`
}

func parseRefreshResponse(body []byte) (domain.Credentials, error) {
	var payload refreshPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.Credentials{}, fmt.Errorf("%w: %w", domain.ErrUnknownRefreshResponse, err)
	}

	switch {
	case payload.Access != nil && payload.AccessRefreshToken != nil:
		return domain.Credentials{}, fmt.Errorf("%w: both flat and nested tokens present", domain.ErrUnknownRefreshResponse)
	case payload.Access != nil:
		return credentialsFrom(payload.Access, nil)
	case payload.AccessRefreshToken != nil:
		return credentialsFrom(payload.AccessRefreshToken.Access, payload.AccessRefreshToken.Refresh)
	default:
		return domain.Credentials{}, fmt.Errorf("%w: no access token object", domain.ErrUnknownRefreshResponse)
	}
}

func credentialsFrom(access, refresh *tokenPayload) (domain.Credentials, error) {
	if access == nil || access.Token == "" {
		return domain.Credentials{}, fmt.Errorf("%w: access token is empty", domain.ErrUnknownRefreshResponse)
	}

	creds := domain.Credentials{
		AccessToken:     access.Token,
		AccessExpiresIn: time.Duration(access.ExpiresIn) * time.Second,
	}
	if refresh != nil {
		creds.RefreshToken = refresh.Token
	}
	return creds, nil
}
