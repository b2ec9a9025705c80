package services

import (
	"errors"
	"fmt"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"
)

// WalletService handles business logic for per-user prepaid balances.
// Debits never go through here directly: the checkout flow is the only
// wallet-payment path, and it drives the repository's atomic debit itself.
type WalletService struct {
	walletRepo repositories.WalletRepository
}

// NewWalletService creates a new WalletService.
func NewWalletService(walletRepo repositories.WalletRepository) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
	}
}

// Balance returns the user's wallet balance. Unknown users have an implicit
// zero balance; the wallet row is created lazily on first credit.
func (s *WalletService) Balance(userID string) (float64, error) {
	wallet, err := s.walletRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read wallet balance: %w", err)
	}
	return wallet.Balance, nil
}

// Recharge credits the user's wallet and returns the resulting balance.
func (s *WalletService) Recharge(userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("amount", "recharge amount must be positive")
	}
	balance, err := s.walletRepo.Credit(userID, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to recharge wallet for user %s: %w", userID, err)
	}
	return balance, nil
}
