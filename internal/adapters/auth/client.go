package auth

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
	"sync"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 30 * time.Second
	genericErrorMessage   = "the server could not complete the request"

	HeaderRequestID = "X-Request-Id"

	PathLogin        = "/user/auth/login"
	PathRefresh      = "/user/auth/refresh"
	PathPushRegister = "/user/notification/token"
	PathPushDelete   = "/user/notification/token/delete"
)

// Paths that never start a refresh. Push registration can legitimately race
// token availability.
var refreshExemptPaths = map[string]bool{
	PathPushRegister: true,
	PathPushDelete:   true,
}

type Config struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         zerolog.Logger
	// OnForcedLogout runs after the local session was cleared because it could
	// not be renewed.
	OnForcedLogout func(reason error)
	NewRequestID   func() string
}

// Client sends authenticated requests. A 401 triggers at most one refresh per
// logical call, shared by every call that fails while it is in flight.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	timeout        time.Duration
	tokens         ports.TokenStore
	log            zerolog.Logger
	onForcedLogout func(error)
	newRequestID   func() string

	mu          sync.Mutex
	accessToken string
	tokenLoaded bool
	pending     *pendingRefresh

	// logoutMu serializes the two places that rewrite the whole session.
	logoutMu sync.Mutex
}

var _ ports.SessionClient = (*Client)(nil)

// Request describes one logical API call. Body is JSON-encoded once so the
// exact same bytes are replayed after a refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

func NewClient(cfg Config, tokens ports.TokenStore) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token store is required")
	}

	baseURL, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	newRequestID := cfg.NewRequestID
	if newRequestID == nil {
		newRequestID = uuid.NewString
	}

	return &Client{
		baseURL:        baseURL,
		http:           httpClient,
		timeout:        timeout,
		tokens:         tokens,
		log:            cfg.Logger.With().Str("component", "auth").Logger(),
		onForcedLogout: cfg.OnForcedLogout,
		newRequestID:   newRequestID,
	}, nil
}

// Do sends req and transparently recovers from one expired access token.
// Non-2xx responses other than a recovered 401 become *domain.APIError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	token, err := c.currentToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, prepared, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return checkStatus(resp)
	}
	if refreshExemptPaths[prepared.path] {
		return nil, apiErrorFrom(resp)
	}

	c.log.Debug().Str("request_id", prepared.requestID).Str("path", prepared.path).Msg("access token rejected, renewing")

	token, err = c.renewAfterUnauthorized(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err = c.send(ctx, prepared, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		fatal := fmt.Errorf("%w: %w", domain.ErrSessionExpired, domain.ErrUnauthorizedAfterRefresh)
		c.forceLogout(ctx, fatal)
		return nil, fatal
	}

	return checkStatus(resp)
}

// DoJSON runs Do and decodes a JSON body into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.Path, err)
	}

	return nil
}

type preparedRequest struct {
	method    string
	path      string
	endpoint  string
	body      []byte
	header    http.Header
	requestID string
}

func (c *Client) prepare(req Request) (preparedRequest, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint, err := c.endpoint(req.Path, req.Query)
	if err != nil {
		return preparedRequest{}, err
	}

	var body []byte
	if req.Body != nil {
		body, err = json.Marshal(req.Body)
		if err != nil {
			return preparedRequest{}, fmt.Errorf("encode %s %s body: %w", method, req.Path, err)
		}
	}

	return preparedRequest{
		method:    method,
		path:      normalizePath(req.Path),
		endpoint:  endpoint,
		body:      body,
		header:    req.Header.Clone(),
		requestID: c.newRequestID(),
	}, nil
}

func (c *Client) send(ctx context.Context, req preparedRequest, token string) (*Response, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(requestCtx, req.method, req.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", req.method, req.path, err)
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	httpReq.Header.Set(HeaderRequestID, req.requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", req.method, req.path, err)
	}

	c.log.Debug().
		Str("request_id", req.requestID).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api call")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		RequestID:  req.requestID,
	}, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.timeout)
}

// currentToken is the default auth header, loaded from the token store once.
func (c *Client) currentToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.tokenLoaded {
		token := c.accessToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	token, err := c.tokens.Get(ctx, domain.TokenAccess)
	if err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		return "", fmt.Errorf("load access token: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.tokenLoaded {
		c.accessToken = token
		c.tokenLoaded = true
	}
	return c.accessToken, nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.tokenLoaded = true
	c.mu.Unlock()
}

func checkStatus(resp *Response) (*Response, error) {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return resp, nil
	}
	return nil, apiErrorFrom(resp)
}

func apiErrorFrom(resp *Response) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := genericErrorMessage
	if err := json.Unmarshal(resp.Body, &payload); err == nil {
		switch {
		case strings.TrimSpace(payload.Message) != "":
			message = payload.Message
		case strings.TrimSpace(payload.Error) != "":
			message = payload.Error
		}
	}

	return &domain.APIError{StatusCode: resp.StatusCode, Message: message}
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("api path is required")
	}

	endpoint, err := c.baseURL.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("parse api path %q: %w", path, err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("api base url is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	return parsed, nil
}

func normalizePath(path string) string {
	path = "/" + strings.TrimPrefix(path, "/")
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
