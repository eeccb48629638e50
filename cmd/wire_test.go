package cmd

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	name   string
	closed *[]string
	err    error
}

func (c recordingCloser) Close() error {
	*c.closed = append(*c.closed, c.name)
	return c.err
}

func TestAppCloseReleasesInReverseOrder(t *testing.T) {
	var closed []string
	a := &app{}
	a.closers = append(a.closers,
		recordingCloser{name: "first", closed: &closed},
		recordingCloser{name: "second", closed: &closed, err: errors.New("connection reset")},
	)

	err := a.close()
	require.ErrorContains(t, err, "release resources: connection reset")
	assert.Equal(t, []string{"second", "first"}, closed)

	require.NoError(t, a.close(), "closing twice is a no-op")
	assert.Len(t, closed, 2)
}

// Set SF_TEST_REDIS_ADDR (for example 127.0.0.1:6379) to run against a live server.
func TestRedisCartBackendIsClosedWithApp(t *testing.T) {
	addr := os.Getenv("SF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SF_TEST_REDIS_ADDR not set")
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SF_HOME", "")
	t.Setenv("SF_SECRETS_BACKEND", "file")

	a, err := wireApp()
	require.NoError(t, err)
	a.cfg = func() *viper.Viper {
		cfg := viper.New()
		cfg.Set(keyCartBackend, cartBackendRedis)
		cfg.Set(keyRedisAddr, addr)
		return cfg
	}()

	_, err = a.cartService(context.Background())
	require.NoError(t, err)
	require.Len(t, a.closers, 1)

	require.NoError(t, a.close())
	assert.Empty(t, a.closers)
}
