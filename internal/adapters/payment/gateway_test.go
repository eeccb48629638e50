package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bnema/storefront-cli/internal/adapters/auth"
	"github.com/bnema/storefront-cli/internal/adapters/commerce"
	filestore "github.com/bnema/storefront-cli/internal/adapters/secrets/file"
	"github.com/bnema/storefront-cli/internal/adapters/secrets/tokens"
	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/testutil/fakeapi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGatewayValidatesEndpoint(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		endpoint string
		wantErr  string
	}{
		{name: "empty", endpoint: " ", wantErr: "payment endpoint is required"},
		{name: "scheme", endpoint: "ftp://pay.example", wantErr: "http or https"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGateway(Config{Endpoint: tc.endpoint})
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRequestPaymentSendsContract(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"paymentId":"pay-1","txId":"tx-1"}`))
	}))
	t.Cleanup(server.Close)

	gateway, err := NewGateway(Config{Endpoint: server.URL})
	require.NoError(t, err)

	result, err := gateway.RequestPayment(context.Background(), domain.PaymentRequest{
		StoreID:     7,
		ChannelKey:  "ck",
		PaymentID:   "pay-1",
		OrderName:   "2 items",
		TotalAmount: 2100,
		PayMethod:   domain.PayMethodCard,
		Customer:    domain.Customer{FullName: "Kim", UserID: "1001"},
	})
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, "tx-1", result.TxID)

	assert.Equal(t, "KRW", got["currency"])
	assert.Equal(t, "CARD", got["payMethod"])
	assert.EqualValues(t, 2100, got["totalAmount"])
	assert.Equal(t, map[string]any{"fullName": "Kim", "customerId": "1001"}, got["customer"])
}

func TestRequestPaymentDeclineIsAResult(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"CARD_DECLINED","message":"insufficient funds"}`))
	}))
	t.Cleanup(server.Close)

	gateway, err := NewGateway(Config{Endpoint: server.URL})
	require.NoError(t, err)

	result, err := gateway.RequestPayment(context.Background(), domain.PaymentRequest{PaymentID: "pay-9"})
	require.NoError(t, err)
	require.True(t, result.Failed())
	assert.Equal(t, "CARD_DECLINED", *result.Code)
	assert.Equal(t, "pay-9", result.PaymentID)
}

func TestRequestPaymentProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"upstream down"}`))
	}))
	t.Cleanup(server.Close)

	gateway, err := NewGateway(Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = gateway.RequestPayment(context.Background(), domain.PaymentRequest{PaymentID: "pay-9"})

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestRequestPaymentAgainstPreparedOrder(t *testing.T) {
	t.Parallel()

	api := fakeapi.New(t)
	session, err := auth.NewClient(auth.Config{BaseURL: api.URL()}, tokens.NewStore(filestore.NewStore(t.TempDir())))
	require.NoError(t, err)
	_, err = session.Login(context.Background(), fakeapi.DefaultUsername, fakeapi.DefaultPassword)
	require.NoError(t, err)
	orders := commerce.NewClient(session, zerolog.Nop())

	items := []domain.OrderItem{{ProductID: 1, Quantity: 1}}
	order, err := orders.CreateOrder(context.Background(), domain.CreateOrderRequest{
		StoreID:       fakeapi.DefaultStoreID,
		RecipientName: "Kim",
		PaymentMethod: domain.PayMethodCard,
		Items:         items,
	})
	require.NoError(t, err)

	gateway, err := NewGateway(Config{Endpoint: api.PaymentURL()})
	require.NoError(t, err)
	request := domain.PaymentRequest{
		StoreID:     fakeapi.DefaultStoreID,
		ChannelKey:  "channel-key-card",
		PaymentID:   order.PaymentID,
		OrderName:   order.OrderName,
		TotalAmount: order.Amount,
		PayMethod:   domain.PayMethodCard,
	}

	result, err := gateway.RequestPayment(context.Background(), request)
	require.NoError(t, err)
	require.True(t, result.Failed())
	assert.Equal(t, "NOT_PREPARED", *result.Code)

	require.NoError(t, orders.PreparePayment(context.Background(), order.OrderID, fakeapi.DefaultStoreID, items))

	result, err = gateway.RequestPayment(context.Background(), request)
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.NotEmpty(t, result.TxID)

	stored, _ := api.Order(order.OrderID)
	assert.Equal(t, domain.OrderPaid, stored.Status)
}
