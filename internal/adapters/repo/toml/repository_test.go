package toml

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, cartPath string) *Repository {
	t.Helper()

	config := viper.New()
	config.Set(CartPathKey, cartPath)

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func sampleCart(t *testing.T) domain.CartState {
	t.Helper()

	state, err := domain.ReduceCart(domain.EmptyCart(), domain.AddItem(domain.OrderLine{
		ProductID: 1, ProductName: "Bagel", OriginPrice: 1000, SalePrice: 800, Quantity: 2, StoreID: 7, Stock: 5,
	}))
	require.NoError(t, err)
	state, err = domain.ReduceCart(state, domain.AddItem(domain.OrderLine{
		ProductID: 2, ProductName: "Muffin", Description: "blueberry", OriginPrice: 500, SalePrice: 500, Quantity: 1, StoreID: 7,
	}))
	require.NoError(t, err)
	state, err = domain.ReduceCart(state, domain.SetHotdeal(&domain.Hotdeal{Status: domain.HotdealActive, SaleRate: 0.1, MaxDiscount: 150}))
	require.NoError(t, err)
	return state
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "cart.toml"))
	state := sampleCart(t)

	require.NoError(t, repo.Save(context.Background(), state))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, state, got)
	assert.Equal(t, domain.ComputeTotals(state), domain.ComputeTotals(got))
}

func TestRepositoryRoundTripEmptyCart(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "cart.toml"))

	require.NoError(t, repo.Save(context.Background(), domain.EmptyCart()))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyCart(), got)
}

func TestRepositorySaveCreatesDefaultPathAndEnforcesPermissions(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), sampleCart(t)))

	cartPath := filepath.Join(homeDir, ".storefront", "cart.toml")
	assert.Equal(t, cartPath, repo.Path())
	info, err := os.Stat(cartPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRepositoryMissingFileBehaviors(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "missing", "cart.toml"))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCartNotFound)

	require.NoError(t, repo.Delete(context.Background()))
}

func TestRepositoryDeleteRemovesFile(t *testing.T) {
	t.Parallel()

	cartPath := filepath.Join(t.TempDir(), "cart.toml")
	repo := newTestRepository(t, cartPath)
	require.NoError(t, repo.Save(context.Background(), sampleCart(t)))

	require.NoError(t, repo.Delete(context.Background()))

	_, err := os.Stat(cartPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = repo.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestRepositoryLoadRejectsBadFiles(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
		wantIs  error
	}{
		{name: "malformed", content: "items = [", wantErr: "decode cart file"},
		{name: "future version", content: "version = 999\nitems = []\n", wantErr: "unsupported cart schema version"},
		{
			name: "mixed stores",
			content: strings.Join([]string{
				"version = 1",
				"store_id = 7",
				"[[items]]",
				"product_id = 1",
				"product_name = 'a'",
				"origin_price = 100",
				"sale_price = 100",
				"quantity = 1",
				"store_id = 8",
			}, "\n"),
			wantIs: domain.ErrDifferentStore,
		},
		{
			name: "zero quantity",
			content: strings.Join([]string{
				"version = 1",
				"store_id = 7",
				"[[items]]",
				"product_id = 1",
				"product_name = 'a'",
				"origin_price = 100",
				"sale_price = 100",
				"quantity = 0",
				"store_id = 7",
			}, "\n"),
			wantIs: domain.ErrInvalidQuantity,
		},
		{
			name:    "bad hotdeal",
			content: "version = 1\nitems = []\n[hotdeal]\nstatus = 'ACTIVE'\nsale_rate = 2.0\nmax_discount = 1\n",
			wantIs:  domain.ErrInvalidHotdeal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cartPath := filepath.Join(t.TempDir(), "cart.toml")
			require.NoError(t, os.WriteFile(cartPath, []byte(tc.content), 0o600))

			_, err := newTestRepository(t, cartPath).Load(context.Background())
			require.Error(t, err)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
			}
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
		})
	}
}

func TestRepositoryLoadRecomputesTotals(t *testing.T) {
	t.Parallel()

	cartPath := filepath.Join(t.TempDir(), "cart.toml")
	require.NoError(t, os.WriteFile(cartPath, []byte(strings.Join([]string{
		"version = 1",
		"store_id = 7",
		"total_sale_price = 1",
		"[[items]]",
		"product_id = 1",
		"product_name = 'a'",
		"origin_price = 1000",
		"sale_price = 900",
		"quantity = 3",
		"store_id = 7",
	}, "\n")), 0o600))

	got, err := newTestRepository(t, cartPath).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3000), got.TotalOriginPrice)
	assert.Equal(t, int64(2700), got.TotalSalePrice)
	assert.Equal(t, 3, got.TotalQuantity)
}

func TestRepositorySaveCanceledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t, filepath.Join(t.TempDir(), "cart.toml"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Save(ctx, sampleCart(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRepositoryConcurrentSavesAcrossInstancesNeverTearFile(t *testing.T) {
	t.Parallel()

	cartPath := filepath.Join(t.TempDir(), "cart.toml")
	repoA := newTestRepository(t, cartPath)
	repoB := newTestRepository(t, cartPath)
	state := sampleCart(t)

	const perRepoWrites = 50
	start := make(chan struct{})
	errCh := make(chan error, perRepoWrites*2)
	var wg sync.WaitGroup
	for _, repo := range []*Repository{repoA, repoB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for range perRepoWrites {
				errCh <- repo.Save(context.Background(), state)
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	got, err := repoA.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, state, got)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(cartPath), ".cart-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRepositorySaveSerializedTOMLIncludesVersion(t *testing.T) {
	t.Parallel()

	cartPath := filepath.Join(t.TempDir(), "cart.toml")
	repo := newTestRepository(t, cartPath)

	require.NoError(t, repo.Save(context.Background(), sampleCart(t)))

	data, err := os.ReadFile(cartPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "[hotdeal]")
}
