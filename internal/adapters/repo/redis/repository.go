// Package redis keeps the cart in Redis so several terminals share it.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "storefront:cart:"
	DefaultTTL = 30 * 24 * time.Hour
)

type Config struct {
	Addr     string
	Password string
	DB       int
	// Owner scopes the key, usually the logged-in user id.
	Owner string
	TTL   time.Duration
}

type Repository struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

var _ ports.CartRepository = (*Repository)(nil)

// NewRepository dials Redis and checks the connection once.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis address is required")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", cfg.Addr, err)
	}

	return NewRepositoryWithClient(client, cfg.Owner, cfg.TTL), nil
}

func NewRepositoryWithClient(client *goredis.Client, owner string, ttl time.Duration) *Repository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Repository{client: client, key: Key(owner), ttl: ttl}
}

// Key is the Redis key holding the cart of owner.
func Key(owner string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = "default"
	}
	return keyPrefix + owner
}

func (r *Repository) Close() error {
	return r.client.Close()
}

type cartDocument struct {
	Version int              `json:"version"`
	Items   []lineDocument   `json:"items"`
	Hotdeal *hotdealDocument `json:"hotdeal,omitempty"`
}

type lineDocument struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	OriginPrice int64  `json:"originPrice"`
	SalePrice   int64  `json:"salePrice"`
	Quantity    int    `json:"quantity"`
	StoreID     int64  `json:"storeId"`
	Stock       int    `json:"stock,omitempty"`
}

type hotdealDocument struct {
	Status      string  `json:"status"`
	SaleRate    float64 `json:"saleRate"`
	MaxDiscount int64   `json:"maxDiscount"`
}

func (r *Repository) Load(ctx context.Context) (domain.CartState, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.CartState{}, domain.ErrCartNotFound
		}
		return domain.CartState{}, fmt.Errorf("load cart %s: %w", r.key, err)
	}

	var doc cartDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart %s: %w", r.key, err)
	}
	if doc.Version > 1 {
		return domain.CartState{}, fmt.Errorf("unsupported cart document version %d", doc.Version)
	}

	items := make([]domain.OrderLine, 0, len(doc.Items))
	for _, line := range doc.Items {
		items = append(items, domain.OrderLine(line))
	}
	var hotdeal *domain.Hotdeal
	if doc.Hotdeal != nil {
		hotdeal = &domain.Hotdeal{
			Status:      domain.HotdealStatus(doc.Hotdeal.Status),
			SaleRate:    doc.Hotdeal.SaleRate,
			MaxDiscount: doc.Hotdeal.MaxDiscount,
		}
	}

	state, err := domain.RestoreCart(items, hotdeal)
	if err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart %s: %w", r.key, err)
	}
	return state, nil
}

// Save refreshes the TTL on every write so an active cart never expires.
func (r *Repository) Save(ctx context.Context, state domain.CartState) error {
	doc := cartDocument{Version: 1, Items: make([]lineDocument, 0, len(state.Items))}
	for _, line := range state.Items {
		doc.Items = append(doc.Items, lineDocument(line))
	}
	if state.Hotdeal != nil {
		doc.Hotdeal = &hotdealDocument{
			Status:      string(state.Hotdeal.Status),
			SaleRate:    state.Hotdeal.SaleRate,
			MaxDiscount: state.Hotdeal.MaxDiscount,
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", r.key, err)
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", r.key, err)
	}
	return nil
}
