// Package provider talks to the external exchange-rate API
// (AwesomeAPI-compatible: GET /json/{FROM}-{TO} returning a quote array).
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/itaipu/go-shop/internal/currency/domain"
)

var ErrNoQuote = errors.New("no quote returned for currency pair")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetQuote fetches the quote for a single pair. The upstream answers with a
// list; only the first element is meaningful.
func (c *Client) GetQuote(ctx context.Context, from, to string) (*domain.CurrencyQuote, error) {
	url := fmt.Sprintf("%s/json/%s-%s", c.baseURL, from, to)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call quote provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %s", resp.Status)
	}

	var quotes []domain.CurrencyQuote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("decode quote response: %w", err)
	}
	if len(quotes) == 0 {
		return nil, ErrNoQuote
	}

	return &quotes[0], nil
}
