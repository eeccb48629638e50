package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	CartPathKey = "cart.path"

	cartFileMode    = 0o600
	cartDirMode     = 0o700
	cartConfigDir   = ".storefront"
	cartConfigFile  = "cart.toml"
	tempFilePattern = ".cart-*.toml.tmp"
)

// Repository keeps the cart in a single TOML file, rewritten atomically.
type Repository struct {
	cartPath string
	mu       *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.CartRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	cartPath := cfg.GetString(CartPathKey)
	if cartPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cartPath = filepath.Join(homeDir, cartConfigDir, cartConfigFile)
	}

	cartPath, err := normalizeCartPath(cartPath)
	if err != nil {
		return nil, err
	}

	return &Repository{cartPath: cartPath, mu: lockForPath(cartPath)}, nil
}

func (r *Repository) Path() string {
	return r.cartPath
}

func (r *Repository) Load(ctx context.Context) (domain.CartState, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartState{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.cartPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.CartState{}, domain.ErrCartNotFound
		}
		return domain.CartState{}, fmt.Errorf("read cart file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.CartState{}, err
	}
	file.applyDefaults()

	return fromSchema(file)
}

func (r *Repository) Save(ctx context.Context, state domain.CartState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(state))
}

func (r *Repository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.cartPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete cart file: %w", err)
	}

	return nil
}

func normalizeCartPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve cart path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.cartPath), cartDirMode); err != nil {
		return fmt.Errorf("create cart directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode cart file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.cartPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp cart file: %w", err)
	}

	if err := tempFile.Chmod(cartFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp cart file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp cart file: %w", err)
	}

	if err := os.Rename(tempName, r.cartPath); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}

	cleanup = false

	return nil
}
