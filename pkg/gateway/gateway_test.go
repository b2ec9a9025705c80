package gateway_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bidmaster/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeSettles(t *testing.T) {
	client := gateway.NewClient(gateway.Config{Latency: time.Millisecond})

	receipt, err := client.Charge(context.Background(), "paytm", 1998)
	require.NoError(t, err)
	assert.Equal(t, "paytm", receipt.App)
	assert.Equal(t, 1998.0, receipt.Amount)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "TXN"))
}

func TestChargeTransactionIDsAreUnique(t *testing.T) {
	client := gateway.NewClient(gateway.Config{Latency: time.Millisecond})

	first, err := client.Charge(context.Background(), "googlepay", 100)
	require.NoError(t, err)
	second, err := client.Charge(context.Background(), "googlepay", 100)
	require.NoError(t, err)
	assert.NotEqual(t, first.TransactionID, second.TransactionID)
}

func TestChargeRespectsContextDeadline(t *testing.T) {
	client := gateway.NewClient(gateway.Config{Latency: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	receipt, err := client.Charge(ctx, "phonepe", 500)
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestChargeRejectsUnsupportedApp(t *testing.T) {
	client := gateway.NewClient(gateway.Config{Latency: time.Millisecond})

	receipt, err := client.Charge(context.Background(), "cashapp", 500)
	require.Error(t, err)
	assert.Nil(t, receipt)
	assert.Contains(t, err.Error(), "unsupported payment app")
}

func TestIsSupportedApp(t *testing.T) {
	for _, app := range gateway.SupportedApps {
		assert.True(t, gateway.IsSupportedApp(app), app)
	}
	assert.False(t, gateway.IsSupportedApp(""))
	assert.False(t, gateway.IsSupportedApp("venmo"))
}
