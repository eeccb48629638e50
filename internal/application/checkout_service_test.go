package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/storefront-cli/internal/domain"
	"github.com/bnema/storefront-cli/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	repo     *mocks.MockCartRepository
	orders   *mocks.MockOrderAPI
	payments *mocks.MockPaymentGateway
	tokens   *mocks.MockTokenStore
	cart     *CartService
	service  *CheckoutService
}

func newCheckoutFixture(t *testing.T, lines ...domain.OrderLine) checkoutFixture {
	t.Helper()

	state := domain.EmptyCart()
	for _, line := range lines {
		var err error
		state, err = domain.ReduceCart(state, domain.AddItem(line))
		require.NoError(t, err)
	}

	f := checkoutFixture{
		repo:     mocks.NewMockCartRepository(t),
		orders:   mocks.NewMockOrderAPI(t),
		payments: mocks.NewMockPaymentGateway(t),
		tokens:   mocks.NewMockTokenStore(t),
	}
	f.repo.EXPECT().Load(mockAnyContext()).Return(state, nil).Maybe()
	f.cart = NewCartService(f.repo, zerolog.Nop())
	f.service = NewCheckoutService(f.cart, f.orders, f.payments, f.tokens, zerolog.Nop())
	return f
}

var paymentConfig = domain.PaymentConfig{
	StoreID:     7,
	ChannelKeys: map[domain.PayMethod]string{domain.PayMethodCard: "ck-card"},
}

func TestCheckoutPaysAndClearsCart(t *testing.T) {
	f := newCheckoutFixture(t, bagel(2), muffin(1))
	items := []domain.OrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}
	order := domain.Order{OrderID: "ord-1", PaymentID: "pay-1", OrderName: "2 items", Amount: 2100, Status: domain.OrderPending}

	f.orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)
	f.orders.EXPECT().CreateOrder(mockAnyContext(), domain.CreateOrderRequest{
		StoreID: 7, RecipientName: "Kim", PaymentMethod: domain.PayMethodCard, Items: items,
	}).Return(order, nil)
	f.orders.EXPECT().PreparePayment(mockAnyContext(), "ord-1", int64(7), items).Return(nil)
	f.tokens.EXPECT().Get(mockAnyContext(), domain.TokenUserID).Return("1001", nil)
	f.payments.EXPECT().RequestPayment(mockAnyContext(), domain.PaymentRequest{
		StoreID:     7,
		ChannelKey:  "ck-card",
		PaymentID:   "pay-1",
		OrderName:   "2 items",
		TotalAmount: 2100,
		Currency:    "KRW",
		PayMethod:   domain.PayMethodCard,
		Customer:    domain.Customer{FullName: "Kim", UserID: "1001"},
	}).Return(domain.PaymentResult{PaymentID: "pay-1", TxID: "tx-1"}, nil)
	f.repo.EXPECT().Delete(mockAnyContext()).Return(nil)

	var steps []CheckoutStep
	result, err := f.service.Checkout(context.Background(), CheckoutCommand{
		RecipientName: "Kim",
		PayMethod:     domain.PayMethodCard,
		Progress:      func(step CheckoutStep) { steps = append(steps, step) },
	})

	require.NoError(t, err)
	assert.Equal(t, []CheckoutStep{
		{Phase: PhaseLoadingConfig},
		{Phase: PhaseCreatingOrder},
		{Phase: PhasePreparingPayment, OrderID: "ord-1"},
		{Phase: PhasePaying, OrderID: "ord-1"},
		{Phase: PhaseClearingCart, OrderID: "ord-1"},
	}, steps)
	assert.Equal(t, order, result.Order)
	assert.Equal(t, "tx-1", result.Payment.TxID)
	assert.Equal(t, int64(2100), result.Totals.FinalAmount)
	assert.Equal(t, int64(400), result.Totals.TotalDiscountAmount)

	state, err := f.cart.State(context.Background())
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())
}

func TestCheckoutValidatesBeforeAnyRequest(t *testing.T) {
	testCases := []struct {
		name    string
		lines   []domain.OrderLine
		cmd     CheckoutCommand
		wantErr error
	}{
		{name: "empty cart", cmd: CheckoutCommand{RecipientName: "Kim", PayMethod: domain.PayMethodCard}, wantErr: domain.ErrEmptyCart},
		{name: "recipient", lines: []domain.OrderLine{bagel(1)}, cmd: CheckoutCommand{RecipientName: " ", PayMethod: domain.PayMethodCard}, wantErr: domain.ErrMissingRecipient},
		{name: "pay method", lines: []domain.OrderLine{bagel(1)}, cmd: CheckoutCommand{RecipientName: "Kim", PayMethod: "CASH"}, wantErr: domain.ErrUnsupportedPayMethod},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t, tc.lines...)

			_, err := f.service.Checkout(context.Background(), tc.cmd)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCheckoutMissingChannelKeyStopsBeforeOrder(t *testing.T) {
	f := newCheckoutFixture(t, bagel(1))
	f.orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)

	_, err := f.service.Checkout(context.Background(), CheckoutCommand{RecipientName: "Kim", PayMethod: domain.PayMethodEasyPay})

	require.ErrorIs(t, err, domain.ErrMissingChannelKey)
}

func TestCheckoutDeclinedPaymentKeepsCart(t *testing.T) {
	testCases := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "provider code", code: "CARD_DECLINED", wantErr: "CARD_DECLINED: insufficient funds"},
		{name: "empty code", code: "", wantErr: "no code: insufficient funds"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newCheckoutFixture(t, bagel(1))
			order := domain.Order{OrderID: "ord-1", PaymentID: "pay-1", Amount: 800, Status: domain.OrderPending}
			code := tc.code

			f.orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)
			f.orders.EXPECT().CreateOrder(mockAnyContext(), mock.Anything).Return(order, nil)
			f.orders.EXPECT().PreparePayment(mockAnyContext(), "ord-1", int64(7), mock.Anything).Return(nil)
			f.tokens.EXPECT().Get(mockAnyContext(), domain.TokenUserID).Return("", domain.ErrSecretNotFound)
			f.payments.EXPECT().RequestPayment(mockAnyContext(), mock.MatchedBy(func(req domain.PaymentRequest) bool {
				return req.Customer.UserID == "" && req.TotalAmount == 800
			})).Return(domain.PaymentResult{PaymentID: "pay-1", Code: &code, Message: "insufficient funds"}, nil)

			result, err := f.service.Checkout(context.Background(), CheckoutCommand{RecipientName: "Kim", PayMethod: domain.PayMethodCard})

			require.ErrorIs(t, err, domain.ErrPaymentFailed)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.Equal(t, "ord-1", result.Order.OrderID, "the order is reported so the caller can cancel it")

			state, err := f.cart.State(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, state.TotalQuantity)
		})
	}
}

func TestCheckoutSessionExpiryPropagates(t *testing.T) {
	f := newCheckoutFixture(t, bagel(1))
	f.orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)
	f.orders.EXPECT().CreateOrder(mockAnyContext(), mock.Anything).
		Return(domain.Order{}, errors.Join(domain.ErrSessionExpired, domain.ErrRefreshFailed))

	_, err := f.service.Checkout(context.Background(), CheckoutCommand{RecipientName: "Kim", PayMethod: domain.PayMethodCard})

	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestCheckoutChargesServerAmount(t *testing.T) {
	f := newCheckoutFixture(t, bagel(1))
	order := domain.Order{OrderID: "ord-1", PaymentID: "pay-1", Amount: 900}

	f.orders.EXPECT().GetPaymentConfig(mockAnyContext()).Return(paymentConfig, nil)
	f.orders.EXPECT().CreateOrder(mockAnyContext(), mock.Anything).Return(order, nil)
	f.orders.EXPECT().PreparePayment(mockAnyContext(), "ord-1", int64(7), mock.Anything).Return(nil)
	f.tokens.EXPECT().Get(mockAnyContext(), domain.TokenUserID).Return("1001", nil)
	f.payments.EXPECT().RequestPayment(mockAnyContext(), mock.MatchedBy(func(req domain.PaymentRequest) bool {
		return req.TotalAmount == 900
	})).Return(domain.PaymentResult{PaymentID: "pay-1", TxID: "tx"}, nil)
	f.repo.EXPECT().Delete(mockAnyContext()).Return(nil)

	_, err := f.service.Checkout(context.Background(), CheckoutCommand{RecipientName: "Kim", PayMethod: domain.PayMethodCard})
	require.NoError(t, err)
}
