package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"
	"bidmaster/pkg/gateway"
	"bidmaster/pkg/rabbitmq"

	"github.com/google/uuid"
)

const (
	minQuantity = 1
	maxQuantity = 10
)

// PlaceOrderInput carries everything the checkout flow needs to settle a
// payment and create the order.
type PlaceOrderInput struct {
	UserID          string
	ProductID       string
	Quantity        int
	DeliveryDetails models.DeliveryDetails
	PaymentMethod   models.PaymentMethod
	// PaymentApp is the provider app for online payments (paytm, phonepe,
	// googlepay). Ignored for other methods.
	PaymentApp string
}

// CheckoutService orchestrates order placement: it validates the cart and
// delivery details, settles the chosen payment method, and persists the
// resulting order. All validation happens before any state mutation.
type CheckoutService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	walletRepo  repositories.WalletRepository
	gateway     *gateway.Client
	mqClient    *rabbitmq.Client
	// paymentTimeout bounds the simulated online settlement; on expiry the
	// checkout fails with ErrPaymentTimeout instead of leaving the order
	// in an ambiguous state.
	paymentTimeout time.Duration
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	walletRepo repositories.WalletRepository,
	gw *gateway.Client,
	mqClient *rabbitmq.Client,
	paymentTimeout time.Duration,
) *CheckoutService {
	if paymentTimeout <= 0 {
		paymentTimeout = 5 * time.Second
	}
	return &CheckoutService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		walletRepo:     walletRepo,
		gateway:        gw,
		mqClient:       mqClient,
		paymentTimeout: paymentTimeout,
	}
}

// PlaceOrder validates the cart, settles the payment, and creates the order.
//
// Settlement by method:
//   - cod: nothing is charged; payment stays pending until delivery.
//   - wallet: the balance is debited atomically with order creation. A
//     failed debit means no order; a failed insert refunds the debit.
//   - online: the gateway round-trip settles within the configured timeout
//     or the whole checkout fails with ErrPaymentTimeout.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("product lookup failed: %w", err)
	}
	if product.Status == models.ProductStatusHold {
		return nil, fmt.Errorf("product %s is on hold: %w", product.ID, models.ErrProductUnavailable)
	}

	unitPrice := product.Price
	totalPrice := unitPrice * float64(in.Quantity)

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          in.UserID,
		ProductID:       product.ID,
		ProductTitle:    product.Title, // snapshot at purchase time
		Quantity:        in.Quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      totalPrice,
		DeliveryDetails: in.DeliveryDetails,
		PaymentMethod:   in.PaymentMethod,
		Status:          models.OrderStatusPending,
	}

	debited := false
	switch in.PaymentMethod {
	case models.PaymentMethodCOD:
		order.PaymentStatus = models.PaymentStatusPending
		order.PaymentDetails = models.PaymentDetails{
			Method:            models.PaymentMethodCOD,
			PayableOnDelivery: totalPrice,
		}

	case models.PaymentMethodWallet:
		balance, err := s.walletRepo.Debit(in.UserID, totalPrice)
		if err != nil {
			return nil, err
		}
		debited = true
		order.PaymentStatus = models.PaymentStatusPaid
		order.PaymentDetails = models.PaymentDetails{
			Method:   models.PaymentMethodWallet,
			Deducted: totalPrice,
			Balance:  balance,
		}

	case models.PaymentMethodOnline:
		receipt, err := s.chargeOnline(ctx, in.PaymentApp, totalPrice)
		if err != nil {
			return nil, err
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.PaymentDetails = models.PaymentDetails{
			Method:        models.PaymentMethodOnline,
			App:           receipt.App,
			TransactionID: receipt.TransactionID,
		}
	}

	if err := s.orderRepo.Create(order); err != nil {
		if debited {
			// Undo the debit so the debit and the insert behave as one
			// transaction: no order, no balance change.
			if _, creditErr := s.walletRepo.Credit(in.UserID, totalPrice); creditErr != nil {
				log.Printf("CRITICAL: failed to refund wallet for user %s after order insert failure: %v", in.UserID, creditErr)
			}
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishCreated(order)
	return order, nil
}

// validate checks every precondition before any state is touched.
func (s *CheckoutService) validate(in PlaceOrderInput) error {
	if in.UserID == "" {
		return models.NewValidationError("user_id", "user is required")
	}
	if in.ProductID == "" {
		return models.NewValidationError("product_id", "product is required")
	}
	if in.Quantity < minQuantity || in.Quantity > maxQuantity {
		return models.NewValidationError("quantity",
			fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity))
	}

	dd := in.DeliveryDetails
	if dd.Name == "" {
		return models.NewValidationError("name", "recipient name is required")
	}
	if dd.Address == "" {
		return models.NewValidationError("address", "address is required")
	}
	if dd.City == "" {
		return models.NewValidationError("city", "city is required")
	}
	if !allDigits(dd.Phone) || len(dd.Phone) != 10 {
		return models.NewValidationError("phone", "phone must be exactly 10 digits")
	}
	if !allDigits(dd.Pincode) || len(dd.Pincode) != 6 {
		return models.NewValidationError("pincode", "pincode must be exactly 6 digits")
	}

	switch in.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodWallet:
	case models.PaymentMethodOnline:
		if in.PaymentApp == "" {
			return models.ErrMissingPaymentApp
		}
		if !gateway.IsSupportedApp(in.PaymentApp) {
			return models.NewValidationError("payment_app",
				fmt.Sprintf("unknown payment app %q", in.PaymentApp))
		}
	default:
		return models.NewValidationError("payment_method",
			fmt.Sprintf("unknown payment method %q", in.PaymentMethod))
	}
	return nil
}

// chargeOnline runs the simulated provider round-trip under the configured
// timeout.
func (s *CheckoutService) chargeOnline(ctx context.Context, app string, amount float64) (*gateway.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	receipt, err := s.gateway.Charge(ctx, app, amount)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("online payment via %s: %w", app, models.ErrPaymentTimeout)
		}
		return nil, fmt.Errorf("online payment via %s failed: %w", app, err)
	}
	return receipt, nil
}

// publishCreated emits the order.created event. Publishing is best-effort:
// a broker outage must not fail a checkout that already settled.
func (s *CheckoutService) publishCreated(order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}
	payload := map[string]interface{}{
		"orderID":       order.ID,
		"userID":        order.UserID,
		"status":        order.Status,
		"paymentStatus": order.PaymentStatus,
		"total":         order.TotalPrice,
	}
	if err := s.mqClient.PublishOrderEvent(rabbitmq.EventOrderCreated, payload); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
