package models

import "time"

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// orderStatusRank orders the forward fulfillment states. Cancelled is not
// ranked: it is reachable only via Cancel and is terminal.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// Rank returns the position of s in the forward fulfillment chain and
// whether s participates in it at all.
func (s OrderStatus) Rank() (int, bool) {
	r, ok := orderStatusRank[s]
	return r, ok
}

// PaymentMethod selects how an order is settled at checkout.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodWallet PaymentMethod = "wallet"
	PaymentMethodOnline PaymentMethod = "online"
)

// PaymentStatus is the settlement outcome of an order's payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Actor identifies who performed an order mutation.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
)

// ReturnType distinguishes a return from an exchange request.
type ReturnType string

const (
	ReturnTypeReturn   ReturnType = "return"
	ReturnTypeExchange ReturnType = "exchange"
)

// ReturnStatus is the resolution state of a return/exchange request.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// DeliveryDetails is the recipient snapshot captured at checkout. It is
// never updated after order creation.
type DeliveryDetails struct {
	Name                 string `json:"name" validate:"required"`
	Phone                string `json:"phone" validate:"required,len=10,numeric"`
	Address              string `json:"address" validate:"required"`
	City                 string `json:"city" validate:"required"`
	Pincode              string `json:"pincode" validate:"required,len=6,numeric"`
	Landmark             string `json:"landmark,omitempty" validate:"omitempty,max=200"`
	DeliveryInstructions string `json:"delivery_instructions,omitempty" validate:"omitempty,max=500"`
}

// PaymentDetails is method-specific settlement metadata. Only the fields
// relevant to the order's payment method are populated.
type PaymentDetails struct {
	Method PaymentMethod `json:"method"`
	// Wallet settlement
	Deducted float64 `json:"deducted,omitempty"`
	Balance  float64 `json:"balance,omitempty"`
	// Online settlement
	App           string `json:"app,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	// Cash on delivery
	PayableOnDelivery float64 `json:"payable_on_delivery,omitempty"`
}

// ReturnRequest is the post-delivery return/exchange sub-record. At most one
// is ever attached to an order.
type ReturnRequest struct {
	Type        ReturnType   `json:"type"`
	Reason      string       `json:"reason"`
	Status      ReturnStatus `json:"status"`
	RequestedAt time.Time    `json:"requested_at"`
}

// Order represents one purchase instance from checkout through fulfillment,
// cancellation, or return. Orders are created once by the checkout flow and
// mutated only through the order service; they are never deleted.
type Order struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       string `json:"user_id" gorm:"index;type:varchar(36)"`
	ProductID    string `json:"product_id" gorm:"type:varchar(36)"`
	ProductTitle string `json:"product_title"` // snapshot; catalog edits do not alter history
	Quantity     int    `json:"quantity"`

	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"` // always unit_price * quantity at creation

	DeliveryDetails DeliveryDetails `json:"delivery_details" gorm:"serializer:json"`

	PaymentMethod  PaymentMethod  `json:"payment_method"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	PaymentDetails PaymentDetails `json:"payment_details" gorm:"serializer:json"`

	Status OrderStatus `json:"status"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        Actor      `json:"cancelled_by,omitempty"`

	ReturnRequest *ReturnRequest `json:"return_request,omitempty" gorm:"serializer:json"`

	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	// Version is the optimistic-lock counter; bumped by the repository on
	// every successful update.
	Version int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanAdvanceTo reports whether the order may move forward to target via a
// plain status update. Same-status updates are allowed (idempotent), and the
// admin surface is not required to pass through every intermediate state.
func (o *Order) CanAdvanceTo(target OrderStatus) bool {
	cur, ok := o.Status.Rank()
	if !ok {
		return false // cancelled is terminal
	}
	tgt, ok := target.Rank()
	if !ok {
		return false // cancellation must go through Cancel
	}
	return tgt >= cur
}

// Cancellable reports whether the order may still be cancelled.
func (o *Order) Cancellable() bool {
	return o.Status != OrderStatusDelivered && o.Status != OrderStatusCancelled
}
