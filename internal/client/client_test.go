package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),                   // Use a no-op logger for tests
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return c, server
}

func TestHealth(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		assert.NoError(t, c.Health(context.Background()))
	})

	t.Run("ServerDown", func(t *testing.T) {
		c, server := setupTestServer(http.NotFoundHandler())
		server.Close()

		assert.Error(t, c.Health(context.Background()))
	})
}

func TestLogTrade(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/trades", r.URL.Path)

			var input journal.TradeInput
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			assert.Equal(t, "MNQ", input.Symbol)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Trade{Symbol: input.Symbol, Pnl: 18.5})
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trade, err := c.LogTrade(context.Background(), &journal.TradeInput{
			Symbol:    "MNQ",
			Direction: models.DirectionLong,
			Quantity:  1,
			ExitTime:  time.Now(),
		})

		assert.NoError(t, err)
		assert.Equal(t, 18.5, trade.Pnl)
	})

	t.Run("ValidationRejected", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "stop loss must be below entry for LONG and above entry for SHORT", http.StatusBadRequest)
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		_, err := c.LogTrade(context.Background(), &journal.TradeInput{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rejected")
	})

	t.Run("RetriesOnServerError", func(t *testing.T) {
		attempts := 0
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Trade{Pnl: 1})
		})
		c, server := setupTestServer(handler)
		defer server.Close()

		trade, err := c.LogTrade(context.Background(), &journal.TradeInput{})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
		assert.Equal(t, 1.0, trade.Pnl)
	})
}
