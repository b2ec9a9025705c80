package repositories_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openWalletDB(t *testing.T) *repositories.GORMWalletRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:wallet_repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Wallet{}))
	return repositories.NewGORMWalletRepository(db)
}

func TestWalletEnsureAndCredit(t *testing.T) {
	repo := openWalletDB(t)

	require.NoError(t, repo.Ensure("user-1"))
	wallet, err := repo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, wallet.Balance)

	balance, err := repo.Credit("user-1", 500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, balance)

	// Ensure after a credit must not reset the balance
	require.NoError(t, repo.Ensure("user-1"))
	wallet, err = repo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, wallet.Balance)

	// Credit creates the wallet when none exists yet
	balance, err = repo.Credit("user-2", 42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, balance)
}

func TestWalletDebit_NeverGoesNegative(t *testing.T) {
	repo := openWalletDB(t)

	_, err := repo.Credit("user-1", 100)
	require.NoError(t, err)

	_, err = repo.Debit("user-1", 150)
	assert.True(t, errors.Is(err, models.ErrInsufficientBalance))

	wallet, err := repo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, wallet.Balance)

	balance, err := repo.Debit("user-1", 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, balance)

	_, err = repo.Debit("user-1", 1)
	assert.True(t, errors.Is(err, models.ErrInsufficientBalance))

	// A debit against a user with no wallet behaves as a zero balance
	_, err = repo.Debit("ghost", 1)
	assert.True(t, errors.Is(err, models.ErrInsufficientBalance))
}

// A non-positive amount is rejected outright; a negative debit would
// otherwise add money instead of subtracting it.
func TestWalletAmountsMustBePositive(t *testing.T) {
	repo := openWalletDB(t)

	_, err := repo.Credit("user-1", 100)
	require.NoError(t, err)

	for _, amount := range []float64{0, -25} {
		_, err = repo.Debit("user-1", amount)
		assert.True(t, models.IsValidation(err), "debit of %.2f should fail validation", amount)
		_, err = repo.Credit("user-1", amount)
		assert.True(t, models.IsValidation(err), "credit of %.2f should fail validation", amount)
	}

	wallet, err := repo.GetByUserID("user-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, wallet.Balance)
}
