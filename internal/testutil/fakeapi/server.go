// Package fakeapi is an in-process commerce backend for tests. It mints real
// HS256 access tokens, tracks refresh and push-token traffic, and keeps orders
// in memory.
package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultStoreID  int64 = 7
	DefaultUsername       = "buyer"
	DefaultPassword       = "correct-horse"
	DefaultUserID         = 1001
)

// QRImage is the body served by the QR endpoint.
var QRImage = []byte("\x89PNG\r\n\x1a\nfake-qr")

type RefreshShape int

const (
	RefreshFlat RefreshShape = iota
	RefreshNested
)

type Order struct {
	domain.Order
	StoreID      int64
	UserID       string
	Items        []domain.OrderItem
	Prepared     bool
	CancelReason string
}

type user struct {
	id       string
	password string
}

type Server struct {
	srv       *httptest.Server
	secret    []byte
	accessTTL time.Duration
	storeID   int64

	refreshShape  RefreshShape
	rotateRefresh bool
	bareStatus    bool
	declineCode   string
	paymentDelay  time.Duration

	// revoked is keyed by the id of every minted access token
	mu            sync.Mutex
	users         map[string]user
	revoked       map[string]bool
	refreshTokens map[string]string
	pushTokens    map[string]string
	orders        map[string]*Order
	prices        map[int64]int64
	channelKeys   map[domain.PayMethod]string
	nextOrder     int

	refreshCalls atomic.Int64
	pushDeletes  atomic.Int64
}

type Option func(*Server)

func WithUser(username, password string, id int) Option {
	return func(s *Server) {
		s.users[username] = user{id: fmt.Sprint(id), password: password}
	}
}

func WithPrice(productID, price int64) Option {
	return func(s *Server) {
		s.prices[productID] = price
	}
}

func WithRefreshShape(shape RefreshShape) Option {
	return func(s *Server) {
		s.refreshShape = shape
	}
}

// WithRotatingRefresh makes every refresh hand out a new refresh token and
// invalidate the old one.
func WithRotatingRefresh() Option {
	return func(s *Server) {
		s.rotateRefresh = true
	}
}

// WithBareStatus serves order status as a bare JSON string.
func WithBareStatus() Option {
	return func(s *Server) {
		s.bareStatus = true
	}
}

func WithDeclinedPayments(code string) Option {
	return func(s *Server) {
		s.declineCode = code
	}
}

// WithPaymentDelay holds every payment request for d before answering.
func WithPaymentDelay(d time.Duration) Option {
	return func(s *Server) {
		s.paymentDelay = d
	}
}

func WithAccessTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.accessTTL = ttl
	}
}

func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		secret:        []byte("fakeapi-" + uuid.NewString()),
		accessTTL:     15 * time.Minute,
		storeID:       DefaultStoreID,
		users:         map[string]user{DefaultUsername: {id: fmt.Sprint(DefaultUserID), password: DefaultPassword}},
		revoked:       map[string]bool{},
		refreshTokens: map[string]string{},
		pushTokens:    map[string]string{},
		orders:        map[string]*Order{},
		prices:        map[int64]int64{},
		channelKeys: map[domain.PayMethod]string{
			domain.PayMethodCard:    "channel-key-card",
			domain.PayMethodEasyPay: "channel-key-easypay",
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)

	return s
}

func (s *Server) URL() string {
	return s.srv.URL
}

// PaymentURL is the endpoint the HTTP payment gateway should post to.
func (s *Server) PaymentURL() string {
	return s.srv.URL + "/payments"
}

func (s *Server) StoreID() int64 {
	return s.storeID
}

func (s *Server) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

func (s *Server) PushDeletes() int {
	return int(s.pushDeletes.Load())
}

func (s *Server) PushTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := make([]string, 0, len(s.pushTokens))
	for token := range s.pushTokens {
		tokens = append(tokens, token)
	}
	return tokens
}

// ExpireAccessTokens revokes every access token minted so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for jti := range s.revoked {
		s.revoked[jti] = true
	}
}

// RevokeRefreshTokens makes the next refresh attempt fail.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshTokens = map[string]string{}
}

// IssueSession mints a session for the default user without a login call.
func (s *Server) IssueSession() (access string, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.users[DefaultUsername].id
	refresh = uuid.NewString()
	s.refreshTokens[refresh] = id
	return s.mintAccessLocked(id), refresh
}

func (s *Server) Order(orderID string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return Order{}, false
	}
	return *order, true
}

func (s *Server) SetOrderStatus(orderID string, status domain.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order, ok := s.orders[orderID]; ok {
		order.Status = status
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/user/auth/login", s.login)
	r.Post("/user/auth/refresh", s.refresh)
	r.Post("/payments", s.pay)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)

		r.Post("/user/notification/token", s.registerPush)
		r.Post("/user/notification/token/delete", s.deletePush)

		r.Route("/order", func(r chi.Router) {
			r.Post("/orders", s.createOrder)
			r.Get("/orders/status/{orderId}", s.orderStatus)
			r.Post("/orders/{orderId}/cancel", s.cancelOrder)
			r.Post("/orders/{orderId}/receive", s.receiveOrder)
			r.Post("/payment/orders/{orderId}/prepare", s.preparePayment)
			r.Get("/payment/config", s.paymentConfig)
			r.Get("/qr/orders/{orderId}", s.orderQR)
		})
	})

	return r
}

type userKey struct{}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.verifyAccess(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "access token expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, userID)))
	})
}

func (s *Server) verifyAccess(header string) (string, bool) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	revoked, issued := s.revoked[claims.ID]
	if !issued || revoked {
		return "", false
	}
	return claims.Subject, true
}

func (s *Server) mintAccessLocked(userID string) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(fmt.Sprintf("sign access token: %v", err))
	}
	s.revoked[claims.ID] = false
	return signed
}

type tokenBody struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type accessRefreshBody struct {
	Access  tokenBody  `json:"access"`
	Refresh *tokenBody `json:"refresh,omitempty"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login body")
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.Username]
	if !ok || u.password != req.Password {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	access := s.mintAccessLocked(u.id)
	refresh := uuid.NewString()
	s.refreshTokens[refresh] = u.id
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"accessRefreshToken": accessRefreshBody{
			Access:  tokenBody{Token: access, ExpiresIn: int64(s.accessTTL.Seconds())},
			Refresh: &tokenBody{Token: refresh, ExpiresIn: int64((14 * 24 * time.Hour).Seconds())},
		},
		"userInfo": map[string]any{"id": json.Number(u.id), "username": req.Username},
	})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	var req struct {
		RefreshToken string `json:"refreshToken"`
		Token        string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed refresh body")
		return
	}
	presented := req.RefreshToken
	if presented == "" {
		presented = req.Token
	}

	s.mu.Lock()
	userID, ok := s.refreshTokens[presented]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "refresh token revoked")
		return
	}
	access := s.mintAccessLocked(userID)
	var rotated *tokenBody
	if s.rotateRefresh {
		delete(s.refreshTokens, presented)
		next := uuid.NewString()
		s.refreshTokens[next] = userID
		rotated = &tokenBody{Token: next}
	}
	s.mu.Unlock()

	accessBody := tokenBody{Token: access, ExpiresIn: int64(s.accessTTL.Seconds())}
	if s.refreshShape == RefreshNested {
		writeJSON(w, http.StatusOK, map[string]any{
			"accessRefreshToken": accessRefreshBody{Access: accessBody, Refresh: rotated},
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access": accessBody})
}

type pushBody struct {
	NotificationToken string `json:"notificationToken"`
}

func (s *Server) registerPush(w http.ResponseWriter, r *http.Request) {
	var req pushBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NotificationToken == "" {
		writeError(w, http.StatusBadRequest, "notification token is required")
		return
	}

	s.mu.Lock()
	s.pushTokens[req.NotificationToken] = userFrom(r)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deletePush(w http.ResponseWriter, r *http.Request) {
	s.pushDeletes.Add(1)

	var req pushBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}

	s.mu.Lock()
	delete(s.pushTokens, req.NotificationToken)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed order body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StoreID != s.storeID {
		writeError(w, http.StatusNotFound, fmt.Sprintf("store %d not found", req.StoreID))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var amount int64
	for _, item := range req.Items {
		amount += s.priceLocked(item.ProductID) * int64(item.Quantity)
	}
	s.nextOrder++
	order := &Order{
		Order: domain.Order{
			OrderID:   fmt.Sprintf("ord-%d", s.nextOrder),
			PaymentID: "pay-" + uuid.NewString(),
			OrderName: fmt.Sprintf("%d item(s) from store %d", len(req.Items), req.StoreID),
			Amount:    amount,
			Status:    domain.OrderPending,
		},
		StoreID: req.StoreID,
		UserID:  userFrom(r),
		Items:   req.Items,
	}
	s.orders[order.OrderID] = order

	writeJSON(w, http.StatusCreated, order.Order)
}

func (s *Server) priceLocked(productID int64) int64 {
	if price, ok := s.prices[productID]; ok {
		return price
	}
	return 1000
}

func (s *Server) preparePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID int64              `json:"storeId"`
		Items   []domain.OrderItem `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed prepare body")
		return
	}

	s.withOrder(w, r, func(order *Order) {
		if req.StoreID != order.StoreID || len(req.Items) != len(order.Items) {
			writeError(w, http.StatusConflict, "prepared items do not match the order")
			return
		}
		order.Prepared = true
		writeJSON(w, http.StatusOK, map[string]any{"orderId": order.OrderID})
	})
}

func (s *Server) paymentConfig(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	keys := make(map[domain.PayMethod]string, len(s.channelKeys))
	for method, key := range s.channelKeys {
		keys[method] = key
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.PaymentConfig{StoreID: s.storeID, ChannelKeys: keys})
}

func (s *Server) orderStatus(w http.ResponseWriter, r *http.Request) {
	s.withOrder(w, r, func(order *Order) {
		if s.bareStatus {
			writeJSON(w, http.StatusOK, order.Status)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": order.Status})
	})
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CancelReason string `json:"cancelReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.CancelReason) == "" {
		writeError(w, http.StatusBadRequest, "cancel reason is required")
		return
	}

	s.withOrder(w, r, func(order *Order) {
		if !order.Status.Cancellable() {
			writeError(w, http.StatusConflict, fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
			return
		}
		order.Status = domain.OrderCancelled
		order.CancelReason = req.CancelReason
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) receiveOrder(w http.ResponseWriter, r *http.Request) {
	s.withOrder(w, r, func(order *Order) {
		if !order.Status.CanTransitionTo(domain.OrderReceived) {
			writeError(w, http.StatusConflict, "order is not ready for pickup")
			return
		}
		order.Status = domain.OrderReceived
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) orderQR(w http.ResponseWriter, r *http.Request) {
	s.withOrder(w, r, func(*Order) {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(QRImage)
	})
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	if s.paymentDelay > 0 {
		time.Sleep(s.paymentDelay)
	}

	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed payment body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	decline := func(code, message string) {
		writeJSON(w, http.StatusOK, domain.PaymentResult{PaymentID: req.PaymentID, Code: &code, Message: message})
	}

	var order *Order
	for _, candidate := range s.orders {
		if candidate.PaymentID == req.PaymentID {
			order = candidate
			break
		}
	}
	switch {
	case order == nil:
		decline("PAYMENT_NOT_FOUND", "unknown payment id")
	case s.declineCode != "":
		decline(s.declineCode, "card declined")
	case req.Currency != domain.PaymentCurrency:
		decline("INVALID_CURRENCY", "unsupported currency")
	case req.ChannelKey != s.channelKeys[req.PayMethod]:
		decline("INVALID_CHANNEL", "channel key does not match pay method")
	case req.TotalAmount != order.Amount:
		decline("AMOUNT_MISMATCH", fmt.Sprintf("expected %d, got %d", order.Amount, req.TotalAmount))
	case !order.Prepared:
		decline("NOT_PREPARED", "payment was not prepared")
	default:
		order.Status = domain.OrderPaid
		writeJSON(w, http.StatusOK, domain.PaymentResult{PaymentID: req.PaymentID, TxID: "tx-" + uuid.NewString()})
	}
}

func (s *Server) withOrder(w http.ResponseWriter, r *http.Request, fn func(*Order)) {
	orderID := chi.URLParam(r, "orderId")

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.UserID != userFrom(r) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("order %s not found", orderID))
		return
	}
	fn(order)
}

func userFrom(r *http.Request) string {
	userID, _ := r.Context().Value(userKey{}).(string)
	return userID
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
