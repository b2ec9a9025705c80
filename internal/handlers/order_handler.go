package handlers

import (
	"log"

	"bidmaster/internal/models"
	"bidmaster/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and the order lifecycle.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the customer-facing order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/return", h.HandleRequestReturn)
}

// RegisterAdminRoutes registers the admin order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Post("/:id/cancel", h.HandleAdminCancelOrder)
	orderRoutes.Post("/:id/return/resolve", h.HandleResolveReturn)
}

// PlaceOrderRequest is the checkout request body.
type PlaceOrderRequest struct {
	ProductID       string                 `json:"product_id" validate:"required"`
	Quantity        int                    `json:"quantity" validate:"required,gte=1,lte=10"`
	DeliveryDetails models.DeliveryDetails `json:"delivery_details" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=cod wallet online"`
	PaymentApp      string                 `json:"payment_app" validate:"omitempty,oneof=paytm phonepe googlepay"`
}

// HandlePlaceOrder runs the checkout flow for the authenticated user.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	var req PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing place order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = "Field '" + e.Field() + "' failed on the '" + e.Tag() + "' tag"
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	order, err := h.checkoutService.PlaceOrder(c.Context(), services.PlaceOrderInput{
		UserID:          currentUserID(c),
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		DeliveryDetails: req.DeliveryDetails,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		PaymentApp:      req.PaymentApp,
	})
	if err != nil {
		log.Printf("Error placing order: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders returns the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrdersByUser(currentUserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetAllOrders returns every order, newest first. Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order. Customers can only read
// their own orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.orderService.GetOrderByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	if order.UserID != currentUserID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"code":    "not_found",
		})
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves an order forward through the fulfillment
// chain. Admin only.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var updateData struct {
		Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status must be one of pending, confirmed, shipped, delivered",
		})
	}

	order, err := h.orderService.UpdateStatus(c.Params("id"), models.OrderStatus(updateData.Status))
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// CancelOrderRequest carries the cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// HandleCancelOrder cancels the authenticated customer's own order.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	return h.cancel(c, models.ActorCustomer)
}

// HandleAdminCancelOrder cancels any order on the admin's behalf.
func (h *OrderHandler) HandleAdminCancelOrder(c *fiber.Ctx) error {
	return h.cancel(c, models.ActorAdmin)
}

func (h *OrderHandler) cancel(c *fiber.Ctx, actor models.Actor) error {
	var req CancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if actor == models.ActorCustomer {
		order, err := h.orderService.GetOrderByID(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if order.UserID != currentUserID(c) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Resource not found",
				"code":    "not_found",
			})
		}
	}

	order, err := h.orderService.Cancel(c.Params("id"), req.Reason, actor)
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// ReturnRequestBody carries a return/exchange request.
type ReturnRequestBody struct {
	Type   string `json:"type" validate:"required,oneof=return exchange"`
	Reason string `json:"reason" validate:"required,max=500"`
}

// HandleRequestReturn attaches a return/exchange request to a delivered
// order owned by the authenticated user.
func (h *OrderHandler) HandleRequestReturn(c *fiber.Ctx) error {
	var req ReturnRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	existing, err := h.orderService.GetOrderByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if existing.UserID != currentUserID(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"code":    "not_found",
		})
	}

	order, err := h.orderService.RequestReturn(c.Params("id"), models.ReturnType(req.Type), req.Reason)
	if err != nil {
		log.Printf("Error requesting return for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleResolveReturn approves or rejects a pending return request. Admin
// only.
func (h *OrderHandler) HandleResolveReturn(c *fiber.Ctx) error {
	var req struct {
		Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	order, err := h.orderService.ResolveReturn(c.Params("id"), models.ReturnStatus(req.Decision))
	if err != nil {
		log.Printf("Error resolving return for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(order)
}
