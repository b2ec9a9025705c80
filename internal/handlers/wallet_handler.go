package handlers

import (
	"log"

	"bidmaster/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WalletHandler handles HTTP requests for the user wallet.
type WalletHandler struct {
	walletService *services.WalletService
	validate      *validator.Validate
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *services.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the wallet routes with the Fiber app.
func (h *WalletHandler) RegisterRoutes(router fiber.Router) {
	walletRoutes := router.Group("/wallet")
	walletRoutes.Get("/", h.HandleGetBalance)
	walletRoutes.Post("/recharge", h.HandleRecharge)
}

// HandleGetBalance returns the authenticated user's wallet balance.
// Unknown users see a zero balance.
func (h *WalletHandler) HandleGetBalance(c *fiber.Ctx) error {
	balance, err := h.walletService.Balance(currentUserID(c))
	if err != nil {
		log.Printf("Error reading wallet balance: %v", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// RechargeRequest carries the credit amount.
type RechargeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// HandleRecharge credits the authenticated user's wallet.
func (h *WalletHandler) HandleRecharge(c *fiber.Ctx) error {
	var req RechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Recharge amount must be positive",
		})
	}

	balance, err := h.walletService.Recharge(currentUserID(c), req.Amount)
	if err != nil {
		log.Printf("Error recharging wallet: %v", err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}
