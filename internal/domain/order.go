package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderPreparing OrderStatus = "PREPARING"
	OrderPrepared  OrderStatus = "PREPARED"
	OrderReceived  OrderStatus = "RECEIVED"
	OrderCancelled OrderStatus = "CANCELLED"
	OrderFailed    OrderStatus = "FAILED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPaid, OrderCancelled, OrderFailed},
	OrderPaid:      {OrderPreparing, OrderCancelled, OrderFailed},
	OrderPreparing: {OrderPrepared, OrderCancelled},
	OrderPrepared:  {OrderReceived, OrderCancelled},
	OrderReceived:  nil,
	OrderCancelled: nil,
	OrderFailed:    nil,
}

// ParseOrderStatus normalizes a server status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := orderTransitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrderStatus, raw)
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether the client may still request a cancel.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderCancelled)
}

type PayMethod string

const (
	PayMethodCard        PayMethod = "CARD"
	PayMethodEasyPay     PayMethod = "EASY_PAY"
	PayMethodTransfer    PayMethod = "TRANSFER"
	PayMethodVirtualAcct PayMethod = "VIRTUAL_ACCOUNT"
	PayMethodMobile      PayMethod = "MOBILE"
)

// PaymentCurrency is the only currency the payment collaborator accepts.
const PaymentCurrency = "KRW"

func ParsePayMethod(raw string) (PayMethod, error) {
	method := PayMethod(strings.ToUpper(strings.TrimSpace(raw)))
	switch method {
	case PayMethodCard, PayMethodEasyPay, PayMethodTransfer, PayMethodVirtualAcct, PayMethodMobile:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPayMethod, raw)
	}
}

type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderItems projects cart lines onto the order wire shape.
func OrderItems(lines []OrderLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, OrderItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return items
}

type CreateOrderRequest struct {
	StoreID       int64       `json:"storeId"`
	RecipientName string      `json:"recipientName"`
	PaymentMethod PayMethod   `json:"paymentMethod"`
	Items         []OrderItem `json:"items"`
}

func (r CreateOrderRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrEmptyCart
	}
	if strings.TrimSpace(r.RecipientName) == "" {
		return ErrMissingRecipient
	}
	if _, err := ParsePayMethod(string(r.PaymentMethod)); err != nil {
		return err
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: product %d", ErrInvalidQuantity, item.ProductID)
		}
	}
	return nil
}

// Order is server-authoritative; the client never reconciles it locally.
type Order struct {
	OrderID   string      `json:"orderId"`
	PaymentID string      `json:"paymentId"`
	OrderName string      `json:"orderName"`
	Amount    int64       `json:"amount"`
	Status    OrderStatus `json:"status"`
}

type PaymentConfig struct {
	StoreID     int64                `json:"storeId"`
	ChannelKeys map[PayMethod]string `json:"channelKeys"`
}

func (c PaymentConfig) ChannelKey(method PayMethod) (string, error) {
	key := strings.TrimSpace(c.ChannelKeys[method])
	if key == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingChannelKey, method)
	}
	return key, nil
}

type Customer struct {
	FullName string `json:"fullName"`
	UserID   string `json:"customerId,omitempty"`
}

// PaymentRequest is the fixed contract handed to the external payment provider.
type PaymentRequest struct {
	StoreID     int64     `json:"storeId"`
	ChannelKey  string    `json:"channelKey"`
	PaymentID   string    `json:"paymentId"`
	OrderName   string    `json:"orderName"`
	TotalAmount int64     `json:"totalAmount"`
	Currency    string    `json:"currency"`
	PayMethod   PayMethod `json:"payMethod"`
	Customer    Customer  `json:"customer"`
}

type PaymentResult struct {
	PaymentID string  `json:"paymentId"`
	TxID      string  `json:"txId,omitempty"`
	Code      *string `json:"code,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// Failed reports a provider-side failure, signalled by any non-null code,
// including an empty one.
func (r PaymentResult) Failed() bool {
	return r.Code != nil
}
