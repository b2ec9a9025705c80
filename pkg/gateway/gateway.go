// Package gateway simulates an online payment provider. There is no real
// gateway behind it: a charge suspends for a configured latency and then
// settles, which is enough to exercise the timeout and asynchronous
// settlement paths of the checkout flow.
package gateway

import (
	"context"
	"fmt"
	"log"
	"time"
)

// SupportedApps lists the provider apps a customer can pay through.
var SupportedApps = []string{"paytm", "phonepe", "googlepay"}

// Config holds the simulated provider's timing knobs.
type Config struct {
	// Latency is how long a charge takes to settle.
	Latency time.Duration
}

// Receipt is the provider's settlement confirmation.
type Receipt struct {
	App           string
	Amount        float64
	TransactionID string
}

// Client is a handle to the simulated provider.
type Client struct {
	latency time.Duration
}

// NewClient creates a gateway client with the given configuration.
func NewClient(cfg Config) *Client {
	latency := cfg.Latency
	if latency <= 0 {
		latency = 2 * time.Second
	}
	return &Client{latency: latency}
}

// IsSupportedApp reports whether app is a provider the gateway can charge
// through.
func IsSupportedApp(app string) bool {
	for _, a := range SupportedApps {
		if a == app {
			return true
		}
	}
	return false
}

// Charge settles amount through the given provider app. It suspends for the
// simulated latency but respects ctx, so a caller-imposed deadline bounds
// the wait; on expiry the ctx error is returned and no receipt is issued.
// Other charges are unaffected: each call waits on its own timer.
func (c *Client) Charge(ctx context.Context, app string, amount float64) (*Receipt, error) {
	if !IsSupportedApp(app) {
		return nil, fmt.Errorf("unsupported payment app: %s", app)
	}

	timer := time.NewTimer(c.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		receipt := &Receipt{
			App:           app,
			Amount:        amount,
			TransactionID: fmt.Sprintf("TXN%d", time.Now().UnixNano()),
		}
		log.Printf("gateway: charged %.2f via %s (txn %s)", amount, app, receipt.TransactionID)
		return receipt, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("charge via %s did not settle: %w", app, ctx.Err())
	}
}
