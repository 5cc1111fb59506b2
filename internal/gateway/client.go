// Package gateway wraps the payment provider's Orders API. The key
// secret stays inside this package and internal/signing; order handles
// returned to callers never include it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Order is the provider-side order handle returned to the checkout
// caller: id, amount in minor units, currency and our receipt reference.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

type CreateOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type API interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
}

type Client struct {
	client    *http.Client
	baseURL   string
	keyID     string
	keySecret string
	logger    *slog.Logger
}

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   cfg.BaseURL,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		logger:    logger,
	}
}

// CreateOrder registers an intended charge with the provider. Amount is
// already in the gateway's minor currency unit (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	url := fmt.Sprintf("%s/v1/orders", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("request creation error: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	c.logger.Info("creating gateway order",
		"url", url,
		"amount", req.Amount,
		"currency", req.Currency,
		"receipt", req.Receipt)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("gateway order request failed", "error", err, "receipt", req.Receipt)
		return nil, fmt.Errorf("HTTP request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("response read error: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("gateway returned error",
			"status", resp.StatusCode,
			"response", string(respBody),
			"receipt", req.Receipt)
		return nil, fmt.Errorf("gateway error: status %d", resp.StatusCode)
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("response unmarshal error: %w", err)
	}

	c.logger.Info("gateway order created",
		"gateway_order_id", order.ID,
		"amount", order.Amount,
		"currency", order.Currency)

	return &order, nil
}
