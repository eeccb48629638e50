package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/testutil/fakeapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestParseRefreshResponse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		body        string
		wantAccess  string
		wantRefresh string
		wantExpiry  time.Duration
		wantErr     bool
	}{
		{
			name:       "flat access",
			body:       `{"access":{"token":"at-2","expiresIn":900}}`,
			wantAccess: "at-2",
			wantExpiry: 15 * time.Minute,
		},
		{
			name:        "nested with rotation",
			body:        `{"accessRefreshToken":{"access":{"token":"at-2"},"refresh":{"token":"rt-2"}}}`,
			wantAccess:  "at-2",
			wantRefresh: "rt-2",
		},
		{
			name:       "nested without rotation",
			body:       `{"accessRefreshToken":{"access":{"token":"at-2"}}}`,
			wantAccess: "at-2",
		},
		{name: "both shapes", body: `{"access":{"token":"a"},"accessRefreshToken":{"access":{"token":"b"}}}`, wantErr: true},
		{name: "unknown shape", body: `{"accessToken":"at-2"}`, wantErr: true},
		{name: "empty flat token", body: `{"access":{"token":""}}`, wantErr: true},
		{name: "nested without access", body: `{"accessRefreshToken":{"refresh":{"token":"rt"}}}`, wantErr: true},
		{name: "not json", body: `token=at-2`, wantErr: true},
		{name: "bare string", body: `"at-2"`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creds, err := parseRefreshResponse([]byte(tc.body))
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownRefreshResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantAccess, creds.AccessToken)
			assert.Equal(t, tc.wantRefresh, creds.RefreshToken)
			assert.Equal(t, tc.wantExpiry, creds.AccessExpiresIn)
		})
	}
}

func TestMissingRefreshTokenForcesLogout(t *testing.T) {
	t.Parallel()

	var refreshCalls, pushDeletes atomic.Int32
	r := chi.NewRouter()
	r.Post(PathRefresh, func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
	})
	r.Post(PathPushDelete, func(w http.ResponseWriter, _ *http.Request) {
		pushDeletes.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	r.Get("/order/payment/config", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	ts := newTestSession(t, server.URL)
	ts.seed(t, domain.Session{AccessToken: "stale", PushToken: "device-1", UserID: "9"})

	_, err := ts.client.Do(context.Background(), Request{Path: "/order/payment/config"})

	require.ErrorIs(t, err, domain.ErrSessionExpired)
	require.ErrorIs(t, err, domain.ErrRefreshTokenMissing)
	assert.Zero(t, refreshCalls.Load())
	assert.Equal(t, int32(1), pushDeletes.Load(), "push token is unregistered best-effort")
	assert.Equal(t, int32(1), ts.forcedCalls.Load())
	assert.Equal(t, domain.Session{}, ts.session(t), "local state clears even when unregistering fails")

	reason, ok := ts.lastReason.Load().(error)
	require.True(t, ok)
	assert.ErrorIs(t, reason, domain.ErrRefreshTokenMissing)
}

func TestRefreshFailureRejectsEveryWaiter(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	ts := newTestSession(t, api.URL())
	access, refresh := api.IssueSession()
	ts.seed(t, domain.Session{AccessToken: access, RefreshToken: refresh})

	api.ExpireAccessTokens()
	api.RevokeRefreshTokens()

	var g errgroup.Group
	errs := make([]error, 3)
	for i := range errs {
		g.Go(func() error {
			_, errs[i] = ts.client.Do(context.Background(), Request{Path: "/order/payment/config"})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, err := range errs {
		require.ErrorIs(t, err, domain.ErrSessionExpired)
	}
	assert.Equal(t, 1, api.RefreshCalls())
	assert.GreaterOrEqual(t, ts.forcedCalls.Load(), int32(1))
	assert.Equal(t, domain.Session{}, ts.session(t))

	var apiErr *domain.APIError
	for _, err := range errs {
		if errors.Is(err, domain.ErrRefreshFailed) {
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
			return
		}
	}
	t.Fatal("expected at least one caller to observe the failed refresh call")
}

func TestCanceledWaiterDoesNotStopRefresh(t *testing.T) {
	t.Parallel()

	var refreshCalls atomic.Int32
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})

	r := chi.NewRouter()
	r.Post(PathRefresh, func(w http.ResponseWriter, _ *http.Request) {
		refreshCalls.Add(1)
		close(refreshStarted)
		<-releaseRefresh
		_, _ = w.Write([]byte(`{"access":{"token":"fresh"}}`))
	})
	r.Get("/order/payment/config", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"storeId":7}`))
	})
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	ts := newTestSession(t, server.URL)
	ts.seed(t, domain.Session{AccessToken: "stale", RefreshToken: "rt-1"})

	leaderErr := make(chan error, 1)
	go func() {
		_, err := ts.client.Do(context.Background(), Request{Path: "/order/payment/config"})
		leaderErr <- err
	}()
	<-refreshStarted

	waiterCtx, cancel := context.WithCancel(context.Background())
	waiterErr := make(chan error, 1)
	go func() {
		_, err := ts.client.Do(waiterCtx, Request{Path: "/order/payment/config"})
		waiterErr <- err
	}()
	cancel()

	require.ErrorIs(t, <-waiterErr, context.Canceled)

	close(releaseRefresh)
	require.NoError(t, <-leaderErr)
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "fresh", ts.session(t).AccessToken)
}
