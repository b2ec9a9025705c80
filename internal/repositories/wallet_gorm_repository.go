package repositories

import (
	"errors"
	"fmt"

	"bidmaster/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMWalletRepository is a GORM implementation of WalletRepository.
type GORMWalletRepository struct {
	db *gorm.DB
}

// NewGORMWalletRepository creates a new instance of GORMWalletRepository.
func NewGORMWalletRepository(db *gorm.DB) *GORMWalletRepository {
	return &GORMWalletRepository{
		db: db,
	}
}

// GetByUserID retrieves a wallet by its owning user.
func (r *GORMWalletRepository) GetByUserID(userID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wallet for user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get wallet for user %s: %w", userID, err)
	}
	return &wallet, nil
}

// Ensure creates the zero-balance wallet row if the user has none yet.
func (r *GORMWalletRepository) Ensure(userID string) error {
	wallet := models.Wallet{UserID: userID, Balance: 0}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&wallet).Error; err != nil {
		return fmt.Errorf("failed to ensure wallet for user %s: %w", userID, err)
	}
	return nil
}

// Credit adds amount to the user's balance in one statement, creating the
// wallet if it does not exist.
func (r *GORMWalletRepository) Credit(userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("amount", "credit amount must be positive")
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"balance": gorm.Expr("balance + ?", amount)}),
	}).Create(&models.Wallet{UserID: userID, Balance: amount}).Error; err != nil {
		return 0, fmt.Errorf("failed to credit wallet for user %s: %w", userID, err)
	}
	return r.balance(userID)
}

// Debit subtracts amount only when the balance covers it. The conditional
// UPDATE is the compare-and-swap: two racing debits cannot both succeed on
// the same funds.
func (r *GORMWalletRepository) Debit(userID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, models.NewValidationError("amount", "debit amount must be positive")
	}
	res := r.db.Model(&models.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to debit wallet for user %s: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Missing wallets behave as zero-balance wallets.
		return 0, fmt.Errorf("debit of %.2f for user %s: %w", amount, userID, models.ErrInsufficientBalance)
	}
	return r.balance(userID)
}

func (r *GORMWalletRepository) balance(userID string) (float64, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		return 0, fmt.Errorf("failed to read back balance for user %s: %w", userID, err)
	}
	return wallet.Balance, nil
}
