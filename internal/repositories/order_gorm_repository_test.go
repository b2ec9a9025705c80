package repositories_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

func openOrderDB(t *testing.T) *repositories.GORMOrderRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))
	return repositories.NewGORMOrderRepository(db)
}

func sampleOrder(userID string) *models.Order {
	requestedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &models.Order{
		UserID:       userID,
		ProductID:    "prod-1",
		ProductTitle: "Vintage Rolex Watch",
		Quantity:     2,
		UnitPrice:    999,
		TotalPrice:   1998,
		DeliveryDetails: models.DeliveryDetails{
			Name:                 "Asha Rao",
			Phone:                "9876543210",
			Address:              "42 MG Road",
			City:                 "Bengaluru",
			Pincode:              "560001",
			Landmark:             "Opposite the metro station",
			DeliveryInstructions: "Ring twice",
		},
		PaymentMethod: models.PaymentMethodWallet,
		PaymentStatus: models.PaymentStatusPaid,
		PaymentDetails: models.PaymentDetails{
			Method:   models.PaymentMethodWallet,
			Deducted: 1998,
			Balance:  502,
		},
		Status: models.OrderStatusPending,
		ReturnRequest: &models.ReturnRequest{
			Type:        models.ReturnTypeExchange,
			Reason:      "wrong color",
			Status:      models.ReturnStatusPending,
			RequestedAt: requestedAt,
		},
	}
}

// The nested sub-records travel through the JSON serializer; a reload must
// reproduce them field for field.
func TestOrderRoundTrip(t *testing.T) {
	repo := openOrderDB(t)

	order := sampleOrder("user-1")
	require.NoError(t, repo.Create(order))
	require.NotEmpty(t, order.ID)

	loaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)

	assert.Equal(t, order.UserID, loaded.UserID)
	assert.Equal(t, order.ProductTitle, loaded.ProductTitle)
	assert.Equal(t, order.Quantity, loaded.Quantity)
	assert.Equal(t, order.UnitPrice, loaded.UnitPrice)
	assert.Equal(t, order.TotalPrice, loaded.TotalPrice)
	assert.Equal(t, order.DeliveryDetails, loaded.DeliveryDetails)
	assert.Equal(t, order.PaymentMethod, loaded.PaymentMethod)
	assert.Equal(t, order.PaymentStatus, loaded.PaymentStatus)
	assert.Equal(t, order.PaymentDetails, loaded.PaymentDetails)
	require.NotNil(t, loaded.ReturnRequest)
	assert.Equal(t, order.ReturnRequest.Type, loaded.ReturnRequest.Type)
	assert.Equal(t, order.ReturnRequest.Reason, loaded.ReturnRequest.Reason)
	assert.Equal(t, order.ReturnRequest.Status, loaded.ReturnRequest.Status)
	assert.True(t, order.ReturnRequest.RequestedAt.Equal(loaded.ReturnRequest.RequestedAt))
	assert.Equal(t, order.Status, loaded.Status)
}

func TestOrderGetByID_NotFound(t *testing.T) {
	repo := openOrderDB(t)

	_, err := repo.GetByID("no-such-order")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestOrderUpdate_BumpsVersion(t *testing.T) {
	repo := openOrderDB(t)

	order := sampleOrder("user-1")
	require.NoError(t, repo.Create(order))

	loaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)

	loaded.Status = models.OrderStatusConfirmed
	require.NoError(t, repo.Update(loaded))
	assert.Equal(t, order.Version+1, loaded.Version)

	reloaded, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, reloaded.Status)
	assert.Equal(t, loaded.Version, reloaded.Version)
}

// Two writers load the same version; the second write must fail instead of
// silently overwriting the first.
func TestOrderUpdate_VersionConflict(t *testing.T) {
	repo := openOrderDB(t)

	order := sampleOrder("user-1")
	require.NoError(t, repo.Create(order))

	first, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(order.ID)
	require.NoError(t, err)

	first.Status = models.OrderStatusConfirmed
	require.NoError(t, repo.Update(first))

	second.Status = models.OrderStatusShipped
	err = repo.Update(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConflict))

	// The losing write changed nothing
	current, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, current.Status)
}

func TestOrderUpdate_MissingOrder(t *testing.T) {
	repo := openOrderDB(t)

	order := sampleOrder("user-1")
	order.ID = "never-created"
	err := repo.Update(order)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestOrderListing_NewestFirstAndScoped(t *testing.T) {
	repo := openOrderDB(t)

	older := sampleOrder("user-1")
	older.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(older))

	newer := sampleOrder("user-1")
	newer.CreatedAt = time.Now()
	require.NoError(t, repo.Create(newer))

	other := sampleOrder("user-2")
	other.CreatedAt = time.Now().Add(-30 * time.Minute)
	require.NoError(t, repo.Create(other))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newer.ID, all[0].ID)
	assert.Equal(t, older.ID, all[2].ID)

	mine, err := repo.GetByUserID("user-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)
}
