package toml

import (
	"fmt"

	"github.com/bnema/storefront-cli/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version int            `toml:"version"`
	StoreID int64          `toml:"store_id,omitempty"`
	Hotdeal *hotdealSchema `toml:"hotdeal,omitempty"`
	Items   []lineSchema   `toml:"items"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported cart schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type lineSchema struct {
	ProductID   int64  `toml:"product_id"`
	ProductName string `toml:"product_name"`
	Description string `toml:"description,omitempty"`
	ImageURL    string `toml:"image_url,omitempty"`
	OriginPrice int64  `toml:"origin_price"`
	SalePrice   int64  `toml:"sale_price"`
	Quantity    int    `toml:"quantity"`
	StoreID     int64  `toml:"store_id"`
	Stock       int    `toml:"stock,omitempty"`
}

type hotdealSchema struct {
	Status      string  `toml:"status"`
	SaleRate    float64 `toml:"sale_rate"`
	MaxDiscount int64   `toml:"max_discount"`
}

// Totals are not stored; they are recomputed from the lines on load.
func toSchema(state domain.CartState) fileSchema {
	file := fileSchema{Version: currentSchemaVersion, Items: make([]lineSchema, 0, len(state.Items))}
	if state.StoreID != nil {
		file.StoreID = *state.StoreID
	}
	if state.Hotdeal != nil {
		file.Hotdeal = &hotdealSchema{
			Status:      string(state.Hotdeal.Status),
			SaleRate:    state.Hotdeal.SaleRate,
			MaxDiscount: state.Hotdeal.MaxDiscount,
		}
	}
	for _, line := range state.Items {
		file.Items = append(file.Items, lineSchema{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Description: line.Description,
			ImageURL:    line.ImageURL,
			OriginPrice: line.OriginPrice,
			SalePrice:   line.SalePrice,
			Quantity:    line.Quantity,
			StoreID:     line.StoreID,
			Stock:       line.Stock,
		})
	}

	return file
}

func fromSchema(file fileSchema) (domain.CartState, error) {
	items := make([]domain.OrderLine, 0, len(file.Items))
	for _, line := range file.Items {
		if line.StoreID != file.StoreID {
			return domain.CartState{}, fmt.Errorf("decode cart file: product %d: %w", line.ProductID, domain.ErrDifferentStore)
		}
		items = append(items, domain.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Description: line.Description,
			ImageURL:    line.ImageURL,
			OriginPrice: line.OriginPrice,
			SalePrice:   line.SalePrice,
			Quantity:    line.Quantity,
			StoreID:     line.StoreID,
			Stock:       line.Stock,
		})
	}

	var hotdeal *domain.Hotdeal
	if file.Hotdeal != nil {
		hotdeal = &domain.Hotdeal{
			Status:      domain.HotdealStatus(file.Hotdeal.Status),
			SaleRate:    file.Hotdeal.SaleRate,
			MaxDiscount: file.Hotdeal.MaxDiscount,
		}
	}

	state, err := domain.RestoreCart(items, hotdeal)
	if err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart file: %w", err)
	}
	return state, nil
}
