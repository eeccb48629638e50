package domain

import (
	"fmt"
	"math"
	"slices"
)

type HotdealStatus string

const (
	HotdealActive   HotdealStatus = "ACTIVE"
	HotdealInactive HotdealStatus = "INACTIVE"
)

// Hotdeal is a store-level promotion applied on top of sale prices.
type Hotdeal struct {
	Status      HotdealStatus
	SaleRate    float64
	MaxDiscount int64
}

func (h Hotdeal) Validate() error {
	if h.Status != HotdealActive && h.Status != HotdealInactive {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidHotdeal, h.Status)
	}
	if math.IsNaN(h.SaleRate) || h.SaleRate < 0 || h.SaleRate > 1 {
		return fmt.Errorf("%w: sale rate %v outside [0,1]", ErrInvalidHotdeal, h.SaleRate)
	}
	if h.MaxDiscount < 0 {
		return fmt.Errorf("%w: negative max discount", ErrInvalidHotdeal)
	}

	return nil
}

type OrderLine struct {
	ProductID   int64
	ProductName string
	Description string
	ImageURL    string
	OriginPrice int64
	SalePrice   int64
	Quantity    int
	StoreID     int64
	// Stock is the available quantity when the line was added. Zero means untracked.
	Stock int
}

type CartState struct {
	Items            []OrderLine
	StoreID          *int64
	TotalOriginPrice int64
	TotalSalePrice   int64
	TotalQuantity    int
	Hotdeal          *Hotdeal
}

// EmptyCart is the initial cart state.
func EmptyCart() CartState {
	return CartState{Items: []OrderLine{}}
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s CartState) Line(productID int64) (OrderLine, bool) {
	for _, line := range s.Items {
		if line.ProductID == productID {
			return line, true
		}
	}
	return OrderLine{}, false
}

func (s CartState) clone() CartState {
	next := s
	next.Items = slices.Clone(s.Items)
	if next.Items == nil {
		next.Items = []OrderLine{}
	}
	if s.StoreID != nil {
		storeID := *s.StoreID
		next.StoreID = &storeID
	}
	if s.Hotdeal != nil {
		hotdeal := *s.Hotdeal
		next.Hotdeal = &hotdeal
	}
	return next
}

// Recalculate derives the three totals from the lines. Totals are never
// mutated any other way.
func (s *CartState) Recalculate() {
	var origin, sale int64
	var quantity int
	for _, line := range s.Items {
		origin += line.OriginPrice * int64(line.Quantity)
		sale += line.SalePrice * int64(line.Quantity)
		quantity += line.Quantity
	}
	s.TotalOriginPrice = origin
	s.TotalSalePrice = sale
	s.TotalQuantity = quantity
	if len(s.Items) == 0 {
		s.StoreID = nil
		s.Hotdeal = nil
	}
}

// RestoreCart rebuilds a persisted cart, checking the invariants a reducer
// would have enforced. Totals are always recomputed.
func RestoreCart(items []OrderLine, hotdeal *Hotdeal) (CartState, error) {
	state := EmptyCart()
	for _, line := range items {
		if line.Quantity < 1 {
			return CartState{}, fmt.Errorf("product %d: %w", line.ProductID, ErrInvalidQuantity)
		}
		if state.StoreID != nil && *state.StoreID != line.StoreID {
			return CartState{}, &StoreConflictError{CartStoreID: *state.StoreID, ItemStoreID: line.StoreID}
		}
		if indexOf(state.Items, line.ProductID) >= 0 {
			return CartState{}, fmt.Errorf("product %d listed twice", line.ProductID)
		}
		storeID := line.StoreID
		state.StoreID = &storeID
		state.Items = append(state.Items, line)
	}
	if hotdeal != nil {
		if err := hotdeal.Validate(); err != nil {
			return CartState{}, err
		}
		restored := *hotdeal
		state.Hotdeal = &restored
	}
	state.Recalculate()

	return state, nil
}

type CartActionType string

const (
	ActionAddItem          CartActionType = "add_item"
	ActionReplaceCart      CartActionType = "replace_cart"
	ActionRemoveItem       CartActionType = "remove_item"
	ActionIncreaseQuantity CartActionType = "increase_quantity"
	ActionDecreaseQuantity CartActionType = "decrease_quantity"
	ActionClearCart        CartActionType = "clear_cart"
	ActionSetHotdeal       CartActionType = "set_hotdeal"
)

type CartAction struct {
	Type      CartActionType
	Line      OrderLine
	ProductID int64
	Hotdeal   *Hotdeal
}

func AddItem(line OrderLine) CartAction {
	return CartAction{Type: ActionAddItem, Line: line}
}

func ReplaceCart(line OrderLine) CartAction {
	return CartAction{Type: ActionReplaceCart, Line: line}
}

func RemoveItem(productID int64) CartAction {
	return CartAction{Type: ActionRemoveItem, ProductID: productID}
}

func IncreaseQuantity(productID int64) CartAction {
	return CartAction{Type: ActionIncreaseQuantity, ProductID: productID}
}

func DecreaseQuantity(productID int64) CartAction {
	return CartAction{Type: ActionDecreaseQuantity, ProductID: productID}
}

func ClearCart() CartAction {
	return CartAction{Type: ActionClearCart}
}

// SetHotdeal binds the store promotion. A nil hotdeal removes it.
func SetHotdeal(hotdeal *Hotdeal) CartAction {
	return CartAction{Type: ActionSetHotdeal, Hotdeal: hotdeal}
}

// ReduceCart applies one action and returns the next state. The input state is
// never modified; on error the returned state is the unchanged input.
//
// Decreasing a line at quantity 1 removes it. Any mutation that would push a
// line above its tracked stock is rejected, not clamped.
func ReduceCart(state CartState, action CartAction) (CartState, error) {
	next := state.clone()

	switch action.Type {
	case ActionAddItem:
		if err := validateLine(action.Line); err != nil {
			return state, err
		}
		if next.StoreID != nil && !next.IsEmpty() && *next.StoreID != action.Line.StoreID {
			return state, &StoreConflictError{CartStoreID: *next.StoreID, ItemStoreID: action.Line.StoreID}
		}
		idx := indexOf(next.Items, action.Line.ProductID)
		if idx >= 0 {
			merged := next.Items[idx]
			merged.Quantity += action.Line.Quantity
			if action.Line.Stock > 0 {
				merged.Stock = action.Line.Stock
			}
			if exceedsStock(merged) {
				return state, fmt.Errorf("%w: product %d wants %d, stock %d", ErrExceedsStock, merged.ProductID, merged.Quantity, merged.Stock)
			}
			next.Items[idx] = merged
		} else {
			next.Items = append(next.Items, action.Line)
		}
		storeID := action.Line.StoreID
		next.StoreID = &storeID

	case ActionReplaceCart:
		if err := validateLine(action.Line); err != nil {
			return state, err
		}
		storeID := action.Line.StoreID
		next = CartState{Items: []OrderLine{action.Line}, StoreID: &storeID}

	case ActionRemoveItem:
		idx := indexOf(next.Items, action.ProductID)
		if idx < 0 {
			return state, fmt.Errorf("%w: product %d", ErrItemNotFound, action.ProductID)
		}
		next.Items = slices.Delete(next.Items, idx, idx+1)

	case ActionIncreaseQuantity:
		idx := indexOf(next.Items, action.ProductID)
		if idx < 0 {
			return state, fmt.Errorf("%w: product %d", ErrItemNotFound, action.ProductID)
		}
		next.Items[idx].Quantity++
		if exceedsStock(next.Items[idx]) {
			return state, fmt.Errorf("%w: product %d stock %d", ErrExceedsStock, action.ProductID, next.Items[idx].Stock)
		}

	case ActionDecreaseQuantity:
		idx := indexOf(next.Items, action.ProductID)
		if idx < 0 {
			return state, fmt.Errorf("%w: product %d", ErrItemNotFound, action.ProductID)
		}
		if next.Items[idx].Quantity <= 1 {
			next.Items = slices.Delete(next.Items, idx, idx+1)
		} else {
			next.Items[idx].Quantity--
		}

	case ActionClearCart:
		return EmptyCart(), nil

	case ActionSetHotdeal:
		if action.Hotdeal == nil {
			next.Hotdeal = nil
			break
		}
		if err := action.Hotdeal.Validate(); err != nil {
			return state, err
		}
		// a hotdeal belongs to the cart's store; an empty cart has none
		if next.IsEmpty() {
			return state, ErrHotdealNoStore
		}
		hotdeal := *action.Hotdeal
		next.Hotdeal = &hotdeal

	default:
		return state, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}

	next.Recalculate()
	return next, nil
}

func validateLine(line OrderLine) error {
	if line.Quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, line.Quantity)
	}
	if exceedsStock(line) {
		return fmt.Errorf("%w: product %d wants %d, stock %d", ErrExceedsStock, line.ProductID, line.Quantity, line.Stock)
	}
	return nil
}

func exceedsStock(line OrderLine) bool {
	return line.Stock > 0 && line.Quantity > line.Stock
}

func indexOf(items []OrderLine, productID int64) int {
	return slices.IndexFunc(items, func(line OrderLine) bool {
		return line.ProductID == productID
	})
}

type CartTotals struct {
	ItemDiscount        int64
	HotdealDiscount     int64
	FinalAmount         int64
	TotalDiscountAmount int64
}

// ComputeTotals derives the payable amount and discount breakdown. The hotdeal
// discount is floor(totalSale * rate) capped at MaxDiscount, and only applies
// while the hotdeal is ACTIVE.
func ComputeTotals(state CartState) CartTotals {
	itemDiscount := state.TotalOriginPrice - state.TotalSalePrice
	hotdealDiscount := hotdealDiscount(state.TotalSalePrice, state.Hotdeal)

	return CartTotals{
		ItemDiscount:        itemDiscount,
		HotdealDiscount:     hotdealDiscount,
		FinalAmount:         state.TotalSalePrice - hotdealDiscount,
		TotalDiscountAmount: itemDiscount + hotdealDiscount,
	}
}

func hotdealDiscount(totalSale int64, hotdeal *Hotdeal) int64 {
	if hotdeal == nil || hotdeal.Status != HotdealActive || totalSale <= 0 {
		return 0
	}

	// the epsilon keeps 0.29*100 from flooring to 28
	raw := int64(math.Floor(float64(totalSale)*hotdeal.SaleRate + 1e-9))
	return min(raw, hotdeal.MaxDiscount)
}
