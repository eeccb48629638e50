// Package payment talks to the external payment provider over HTTP.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/rs/zerolog"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 60 * time.Second
)

type Config struct {
	Endpoint       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// Gateway posts payment requests. The provider is unauthenticated from the
// storefront's point of view: the channel key identifies the merchant.
type Gateway struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	log      zerolog.Logger
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func NewGateway(cfg Config) (*Gateway, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("payment endpoint is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse payment endpoint: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("payment endpoint must use http or https")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Gateway{
		endpoint: parsed.String(),
		http:     httpClient,
		timeout:  timeout,
		log:      cfg.Logger.With().Str("component", "payment").Logger(),
	}, nil
}

// RequestPayment returns the provider's verdict. A declined payment is a
// result with a code, not an error.
func (g *Gateway) RequestPayment(ctx context.Context, req domain.PaymentRequest) (domain.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentResult{}, err
	}
	if req.Currency == "" {
		req.Currency = domain.PaymentCurrency
	}

	body, err := json.Marshal(req)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("encode payment request: %w", err)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("create payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("request payment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.PaymentResult{}, fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.PaymentResult{}, &domain.APIError{StatusCode: resp.StatusCode, Message: providerMessage(data)}
	}

	var result domain.PaymentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return domain.PaymentResult{}, fmt.Errorf("decode payment response: %w", err)
	}
	if result.PaymentID == "" {
		result.PaymentID = req.PaymentID
	}

	event := g.log.Debug().Str("payment_id", result.PaymentID)
	if result.Failed() {
		event = event.Str("code", *result.Code)
	}
	event.Msg("payment answered")

	return result, nil
}

func providerMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return "payment provider rejected the request"
}
