package repositories

import (
	"fmt"
	"sync"
	"time"

	"bidmaster/internal/models"
)

// MockWalletRepository is an in-memory implementation of WalletRepository.
// The mutex makes every balance change a single critical section, matching
// the conditional-UPDATE semantics of the GORM implementation.
type MockWalletRepository struct {
	wallets map[string]models.Wallet
	mu      sync.Mutex
}

// NewMockWalletRepository creates a new instance of MockWalletRepository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]models.Wallet),
	}
}

// GetByUserID returns the wallet for a user.
func (r *MockWalletRepository) GetByUserID(userID string) (*models.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user %s: %w", userID, models.ErrNotFound)
	}
	return &wallet, nil
}

// Ensure creates the zero-balance wallet if the user has none yet.
func (r *MockWalletRepository) Ensure(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.wallets[userID]; !ok {
		now := time.Now()
		r.wallets[userID] = models.Wallet{UserID: userID, Balance: 0, CreatedAt: now, UpdatedAt: now}
	}
	return nil
}

// Credit adds amount to the user's balance, creating the wallet if needed.
func (r *MockWalletRepository) Credit(userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("amount", "credit amount must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok {
		wallet = models.Wallet{UserID: userID, CreatedAt: time.Now()}
	}
	wallet.Balance += amount
	wallet.UpdatedAt = time.Now()
	r.wallets[userID] = wallet
	return wallet.Balance, nil
}

// Debit subtracts amount only when the balance covers it.
func (r *MockWalletRepository) Debit(userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("amount", "debit amount must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	wallet, ok := r.wallets[userID]
	if !ok || wallet.Balance < amount {
		return 0, fmt.Errorf("debit of %.2f for user %s: %w", amount, userID, models.ErrInsufficientBalance)
	}
	wallet.Balance -= amount
	wallet.UpdatedAt = time.Now()
	r.wallets[userID] = wallet
	return wallet.Balance, nil
}
