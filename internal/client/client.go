package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client is a client for the journal server's JSON API, used by tools that
// replay trade history into a running server.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// NewClient creates a new journal API client.
func NewClient(cfg *config.Importer, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// Health checks connectivity to the journal server.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/health", c.client.R())
	if err != nil {
		return fmt.Errorf("failed to reach journal server: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("journal server unhealthy: %s", resp.Status())
	}
	return nil
}

// CreateAccount creates a trading account on the server.
func (c *Client) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	req := c.client.R().
		SetBody(account).
		SetResult(&models.Account{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/accounts", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create account rejected: %s: %s", resp.Status(), resp.String())
	}
	return resp.Result().(*models.Account), nil
}

// LogTrade records one trade on the server and returns the stored record,
// including the server-derived P&L.
func (c *Client) LogTrade(ctx context.Context, input *journal.TradeInput) (*models.Trade, error) {
	req := c.client.R().
		SetBody(input).
		SetResult(&models.Trade{})

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/trades", req)
	if err != nil {
		return nil, fmt.Errorf("failed to log trade: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("trade rejected: %s: %s", resp.Status(), resp.String())
	}
	return resp.Result().(*models.Trade), nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err = req.SetContext(ctx).Execute(method, url)
		if err == nil && resp.StatusCode() != http.StatusTooManyRequests && resp.StatusCode() < 500 {
			return resp, nil
		}

		backoff := time.Duration(i+1) * 500 * time.Millisecond
		c.logger.Warn("Request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if err != nil {
		return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
	}
	return resp, nil
}
