package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"
	"bidmaster/internal/services"
	"bidmaster/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDelivery() models.DeliveryDetails {
	return models.DeliveryDetails{
		Name:    "Asha Verma",
		Phone:   "9876543210",
		Address: "14 MG Road",
		City:    "Pune",
		Pincode: "411001",
	}
}

type checkoutFixture struct {
	orders   *repositories.MockOrderRepository
	products *repositories.MockProductRepository
	wallets  *repositories.MockWalletRepository
	service  *services.CheckoutService
}

func newCheckoutFixture(t *testing.T, gwLatency, timeout time.Duration) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		orders:   repositories.NewMockOrderRepository(),
		products: repositories.NewMockProductRepository(),
		wallets:  repositories.NewMockWalletRepository(),
	}
	gw := gateway.NewClient(gateway.Config{Latency: gwLatency})
	f.service = services.NewCheckoutService(f.orders, f.products, f.wallets, gw, nil, timeout)

	err := f.products.Create(&models.Product{
		ID:     "prod-1",
		Title:  "Smartphone Pro Max",
		Price:  999,
		Status: models.ProductStatusLive,
	})
	require.NoError(t, err)
	return f
}

func (f *checkoutFixture) input(method models.PaymentMethod) services.PlaceOrderInput {
	return services.PlaceOrderInput{
		UserID:          "user-1",
		ProductID:       "prod-1",
		Quantity:        2,
		DeliveryDetails: validDelivery(),
		PaymentMethod:   method,
	}
}

func TestPlaceOrder_CODStaysPendingAndLeavesWalletAlone(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)
	_, err := f.wallets.Credit("user-1", 2500)
	require.NoError(t, err)

	order, err := f.service.PlaceOrder(context.Background(), f.input(models.PaymentMethodCOD))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 1998.0, order.TotalPrice)
	assert.Equal(t, 999.0, order.UnitPrice)
	assert.Equal(t, "Smartphone Pro Max", order.ProductTitle)
	assert.Equal(t, 1998.0, order.PaymentDetails.PayableOnDelivery)

	wallet, err := f.wallets.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 2500.0, wallet.Balance)
}

func TestPlaceOrder_WalletDebitsExactTotal(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)
	_, err := f.wallets.Credit("user-1", 2500)
	require.NoError(t, err)

	order, err := f.service.PlaceOrder(context.Background(), f.input(models.PaymentMethodWallet))
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, 1998.0, order.TotalPrice)
	assert.Equal(t, 1998.0, order.PaymentDetails.Deducted)
	assert.Equal(t, 502.0, order.PaymentDetails.Balance)

	wallet, err := f.wallets.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 502.0, wallet.Balance)
}

func TestPlaceOrder_WalletInsufficientBalanceCreatesNothing(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)
	_, err := f.wallets.Credit("user-1", 500)
	require.NoError(t, err)

	order, err := f.service.PlaceOrder(context.Background(), f.input(models.PaymentMethodWallet))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)

	// No order was created and the balance is untouched.
	orders, err := f.orders.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)

	wallet, err := f.wallets.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, wallet.Balance)
}

func TestPlaceOrder_OnlineSettlesWithTransactionID(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)

	in := f.input(models.PaymentMethodOnline)
	in.PaymentApp = "phonepe"

	order, err := f.service.PlaceOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, "phonepe", order.PaymentDetails.App)
	assert.NotEmpty(t, order.PaymentDetails.TransactionID)
	assert.Contains(t, order.PaymentDetails.TransactionID, "TXN")
}

func TestPlaceOrder_OnlineWithoutAppFails(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)

	in := f.input(models.PaymentMethodOnline)
	in.PaymentApp = ""

	_, err := f.service.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrMissingPaymentApp)
}

func TestPlaceOrder_OnlineTimesOut(t *testing.T) {
	// Gateway latency far above the checkout timeout.
	f := newCheckoutFixture(t, 500*time.Millisecond, 20*time.Millisecond)

	in := f.input(models.PaymentMethodOnline)
	in.PaymentApp = "paytm"

	_, err := f.service.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrPaymentTimeout)

	orders, err := f.orders.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrder_ProductOnHoldIsUnavailable(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)
	require.NoError(t, f.products.Create(&models.Product{
		ID:     "prod-2",
		Title:  "Gaming Laptop",
		Price:  1499,
		Status: models.ProductStatusHold,
	}))

	in := f.input(models.PaymentMethodCOD)
	in.ProductID = "prod-2"

	_, err := f.service.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrProductUnavailable)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)

	in := f.input(models.PaymentMethodCOD)
	in.ProductID = "no-such-product"

	_, err := f.service.PlaceOrder(context.Background(), in)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPlaceOrder_ValidationFailsBeforeAnyMutation(t *testing.T) {
	f := newCheckoutFixture(t, time.Millisecond, time.Second)
	_, err := f.wallets.Credit("user-1", 5000)
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*services.PlaceOrderInput)
	}{
		{"quantity too low", func(in *services.PlaceOrderInput) { in.Quantity = 0 }},
		{"quantity too high", func(in *services.PlaceOrderInput) { in.Quantity = 11 }},
		{"short phone", func(in *services.PlaceOrderInput) { in.DeliveryDetails.Phone = "12345" }},
		{"non-numeric phone", func(in *services.PlaceOrderInput) { in.DeliveryDetails.Phone = "98765abcde" }},
		{"bad pincode", func(in *services.PlaceOrderInput) { in.DeliveryDetails.Pincode = "41100" }},
		{"missing name", func(in *services.PlaceOrderInput) { in.DeliveryDetails.Name = "" }},
		{"missing city", func(in *services.PlaceOrderInput) { in.DeliveryDetails.City = "" }},
		{"missing address", func(in *services.PlaceOrderInput) { in.DeliveryDetails.Address = "" }},
		{"unknown payment app", func(in *services.PlaceOrderInput) {
			in.PaymentMethod = models.PaymentMethodOnline
			in.PaymentApp = "cashify"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input(models.PaymentMethodWallet)
			tc.mutate(&in)

			_, err := f.service.PlaceOrder(context.Background(), in)
			var ve *models.ValidationError
			assert.True(t, errors.As(err, &ve), "expected a ValidationError, got %v", err)

			// Fail-fast: nothing was written.
			orders, repoErr := f.orders.GetAll()
			require.NoError(t, repoErr)
			assert.Empty(t, orders)

			wallet, repoErr := f.wallets.GetByUserID("user-1")
			require.NoError(t, repoErr)
			assert.Equal(t, 5000.0, wallet.Balance)
		})
	}
}
