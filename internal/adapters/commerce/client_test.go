package commerce

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/storefront-cli/internal/adapters/auth"
	filestore "github.com/bnema/storefront-cli/internal/adapters/secrets/file"
	"github.com/bnema/storefront-cli/internal/adapters/secrets/tokens"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/testutil/fakeapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedInClient(t *testing.T, api *fakeapi.Server) *Client {
	t.Helper()

	store := tokens.NewStore(filestore.NewStore(t.TempDir()))
	session, err := auth.NewClient(auth.Config{BaseURL: api.URL()}, store)
	require.NoError(t, err)
	_, err = session.Login(context.Background(), fakeapi.DefaultUsername, fakeapi.DefaultPassword)
	require.NoError(t, err)

	return NewClient(session, zerolog.Nop())
}

func createOrder(t *testing.T, client *Client) domain.Order {
	t.Helper()

	order, err := client.CreateOrder(context.Background(), domain.CreateOrderRequest{
		StoreID:       fakeapi.DefaultStoreID,
		RecipientName: "Kim",
		PaymentMethod: domain.PayMethodCard,
		Items:         []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderAndPreparePayment(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t, fakeapi.WithPrice(1, 800), fakeapi.WithPrice(2, 500))
	client := newLoggedInClient(t, api)

	order := createOrder(t, client)
	assert.Equal(t, int64(2100), order.Amount)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.NotEmpty(t, order.PaymentID)

	err := client.PreparePayment(context.Background(), order.OrderID, fakeapi.DefaultStoreID, []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	stored, ok := api.Order(order.OrderID)
	require.True(t, ok)
	assert.True(t, stored.Prepared)
}

func TestCreateOrderValidatesBeforeNetwork(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(server.Close)

	store := tokens.NewStore(filestore.NewStore(t.TempDir()))
	session, err := auth.NewClient(auth.Config{BaseURL: server.URL}, store)
	require.NoError(t, err)
	client := NewClient(session, zerolog.Nop())

	_, err = client.CreateOrder(context.Background(), domain.CreateOrderRequest{StoreID: 7, RecipientName: "Kim", PaymentMethod: domain.PayMethodCard})
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	err = client.CancelOrder(context.Background(), "ord-1", "   ")
	require.ErrorIs(t, err, domain.ErrCancelReasonRequired)

	err = client.PreparePayment(context.Background(), "ord-1", 7, nil)
	require.ErrorIs(t, err, domain.ErrEmptyCart)

	_, err = client.GetOrderStatus(context.Background(), "")
	require.ErrorContains(t, err, "order id is required")
}

func TestGetOrderStatusAcceptsBothShapes(t *testing.T) {
	t.Parallel()

	for name, opts := range map[string][]fakeapi.Option{
		"object": nil,
		"bare":   {fakeapi.WithBareStatus()},
	} {
		t.Run(name, func(t *testing.T) {
			api := fakeapi.New(t, opts...)
			client := newLoggedInClient(t, api)
			order := createOrder(t, client)
			api.SetOrderStatus(order.OrderID, domain.OrderPreparing)

			status, err := client.GetOrderStatus(context.Background(), order.OrderID)
			require.NoError(t, err)
			assert.Equal(t, domain.OrderPreparing, status)
		})
	}
}

func TestDecodeStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "bare json string", body: `"PAID"`, want: "PAID"},
		{name: "object", body: `{"status":"PREPARED"}`, want: "PREPARED"},
		{name: "plain text", body: "RECEIVED\n", want: "RECEIVED"},
		{name: "object without status", body: `{"state":"PAID"}`, wantErr: true},
		{name: "empty", body: "  ", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeStatus([]byte(tc.body))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	client := newLoggedInClient(t, api)
	order := createOrder(t, client)

	require.NoError(t, client.CancelOrder(context.Background(), order.OrderID, "changed my mind"))

	stored, _ := api.Order(order.OrderID)
	assert.Equal(t, domain.OrderCancelled, stored.Status)
	assert.Equal(t, "changed my mind", stored.CancelReason)

	err := client.CancelOrder(context.Background(), order.OrderID, "again")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "cannot be cancelled")
}

func TestReceiveOrderAndQR(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	client := newLoggedInClient(t, api)
	order := createOrder(t, client)

	err := client.ReceiveOrder(context.Background(), order.OrderID)
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr), "pending orders cannot be received")

	api.SetOrderStatus(order.OrderID, domain.OrderPrepared)
	require.NoError(t, client.ReceiveOrder(context.Background(), order.OrderID))

	qr, err := client.GetOrderQR(context.Background(), order.OrderID)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(qr)
	require.NoError(t, err)
	assert.Equal(t, fakeapi.QRImage, decoded)
}

func TestGetPaymentConfig(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	client := newLoggedInClient(t, api)

	cfg, err := client.GetPaymentConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fakeapi.DefaultStoreID, cfg.StoreID)

	key, err := cfg.ChannelKey(domain.PayMethodCard)
	require.NoError(t, err)
	assert.Equal(t, "channel-key-card", key)
}

func TestOrderCallsSurviveTokenExpiry(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	client := newLoggedInClient(t, api)
	order := createOrder(t, client)

	api.ExpireAccessTokens()

	status, err := client.GetOrderStatus(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, status)
	assert.Equal(t, 1, api.RefreshCalls())
}
