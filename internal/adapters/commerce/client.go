// Package commerce builds the order lifecycle requests. Each operation is a
// single call through the session client; polling is left to callers.
package commerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/storefront-cli/internal/adapters/auth"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
)

// Doer is the subset of the session client the order calls need.
type Doer interface {
	Do(ctx context.Context, req auth.Request) (*auth.Response, error)
	DoJSON(ctx context.Context, req auth.Request, out any) error
}

type Client struct {
	api Doer
	log zerolog.Logger
}

var _ ports.OrderAPI = (*Client)(nil)

func NewClient(api Doer, logger zerolog.Logger) *Client {
	return &Client{api: api, log: logger.With().Str("component", "commerce").Logger()}
}

func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	var order domain.Order
	if err := c.api.DoJSON(ctx, auth.Request{
		Method: http.MethodPost,
		Path:   "/order/orders",
		Body:   req,
	}, &order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	if order.OrderID == "" || order.PaymentID == "" {
		return domain.Order{}, errors.New("create order: response missing order or payment id")
	}

	c.log.Debug().Str("order_id", order.OrderID).Int64("amount", order.Amount).Msg("order created")

	return order, nil
}

func (c *Client) PreparePayment(ctx context.Context, orderID string, storeID int64, items []domain.OrderItem) error {
	if err := requireOrderID(orderID); err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyCart
	}

	body := struct {
		StoreID int64              `json:"storeId"`
		Items   []domain.OrderItem `json:"items"`
	}{StoreID: storeID, Items: items}

	if _, err := c.api.Do(ctx, auth.Request{
		Method: http.MethodPost,
		Path:   "/order/payment/orders/" + url.PathEscape(orderID) + "/prepare",
		Body:   body,
	}); err != nil {
		return fmt.Errorf("prepare payment for %s: %w", orderID, err)
	}

	return nil
}

func (c *Client) GetPaymentConfig(ctx context.Context) (domain.PaymentConfig, error) {
	var cfg domain.PaymentConfig
	if err := c.api.DoJSON(ctx, auth.Request{Path: "/order/payment/config"}, &cfg); err != nil {
		return domain.PaymentConfig{}, fmt.Errorf("get payment config: %w", err)
	}

	return cfg, nil
}

// GetOrderStatus accepts either a bare JSON string or a {"status": ...} object.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	if err := requireOrderID(orderID); err != nil {
		return "", err
	}

	resp, err := c.api.Do(ctx, auth.Request{Path: "/order/orders/status/" + url.PathEscape(orderID)})
	if err != nil {
		return "", fmt.Errorf("get order status for %s: %w", orderID, err)
	}

	raw, err := decodeStatus(resp.Body)
	if err != nil {
		return "", fmt.Errorf("get order status for %s: %w", orderID, err)
	}

	return domain.ParseOrderStatus(raw)
}

func decodeStatus(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", errors.New("empty status response")
	}

	if body[0] == '{' {
		var wrapped struct {
			Status *string `json:"status"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return "", fmt.Errorf("decode status object: %w", err)
		}
		if wrapped.Status == nil {
			return "", errors.New("status object missing status field")
		}
		return *wrapped.Status, nil
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err != nil {
		// some deployments answer text/plain
		return string(body), nil
	}
	return bare, nil
}

// CancelOrder requires a non-empty reason and checks it before any request.
func (c *Client) CancelOrder(ctx context.Context, orderID string, reason string) error {
	if err := requireOrderID(orderID); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return domain.ErrCancelReasonRequired
	}

	if _, err := c.api.Do(ctx, auth.Request{
		Method: http.MethodPost,
		Path:   "/order/orders/" + url.PathEscape(orderID) + "/cancel",
		Body:   map[string]string{"cancelReason": reason},
	}); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}

	return nil
}

func (c *Client) ReceiveOrder(ctx context.Context, orderID string) error {
	if err := requireOrderID(orderID); err != nil {
		return err
	}

	if _, err := c.api.Do(ctx, auth.Request{
		Method: http.MethodPost,
		Path:   "/order/orders/" + url.PathEscape(orderID) + "/receive",
	}); err != nil {
		return fmt.Errorf("receive order %s: %w", orderID, err)
	}

	return nil
}

func (c *Client) GetOrderQR(ctx context.Context, orderID string) (string, error) {
	if err := requireOrderID(orderID); err != nil {
		return "", err
	}

	resp, err := c.api.Do(ctx, auth.Request{
		Path:   "/order/qr/orders/" + url.PathEscape(orderID),
		Header: http.Header{"Accept": []string{"image/*"}},
	})
	if err != nil {
		return "", fmt.Errorf("get order qr for %s: %w", orderID, err)
	}
	if len(resp.Body) == 0 {
		return "", fmt.Errorf("get order qr for %s: empty image", orderID)
	}

	return base64.StdEncoding.EncodeToString(resp.Body), nil
}

func requireOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return errors.New("order id is required")
	}
	return nil
}
