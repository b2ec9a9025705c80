package repositories

import (
	"bidmaster/internal/models"
)

// WalletRepository defines the interface for wallet balance access.
//
// Credit and Debit are atomic read-modify-writes: the GORM implementation
// uses single conditional UPDATE statements, the in-memory one a mutex.
// Both require amount > 0 and reject anything else with a validation
// error, so a bad amount can never move money in the wrong direction.
// Debit fails with models.ErrInsufficientBalance instead of ever letting a
// balance go negative.
type WalletRepository interface {
	GetByUserID(userID string) (*models.Wallet, error)
	// Ensure creates the wallet row with a zero balance if it does not
	// exist yet. Called at registration.
	Ensure(userID string) error
	// Credit adds amount (> 0) to the wallet (creating it if needed) and
	// returns the resulting balance.
	Credit(userID string, amount float64) (float64, error)
	// Debit subtracts amount (> 0) only if the current balance covers it
	// and returns the resulting balance.
	Debit(userID string, amount float64) (float64, error)
}
