package main

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestNewAppHealthCheck(t *testing.T) {
	app, _, err := NewApp(nil) // nil MQ client: publishing is skipped
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _, err := NewApp(nil)
	assert.NoError(t, err)

	for _, path := range []string{"/api/v1/products", "/api/v1/orders", "/api/v1/wallet"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req, -1)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "expected 401 for %s without token", path)
		resp.Body.Close()
	}
}
