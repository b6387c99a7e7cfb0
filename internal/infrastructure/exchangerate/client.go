package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://api.frankfurter.dev/v1"
	defaultTimeout = 15 * time.Second
)

// Client fetches exchange rates from the rate provider API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// ClientInterface is the fetch surface the rate service depends on.
type ClientInterface interface {
	GetRate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error)
}

// NewClient creates a new exchange rate API client. An empty baseURL
// selects the default provider.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: baseURL,
	}
}

// RateResponse represents the API response for a dated rate query
type RateResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// GetRate fetches the rate for one currency pair on a date. The provider
// serves the latest published rate for dates it has no fixing for
// (weekends, holidays), which is the behavior expense freezing wants.
func (c *Client) GetRate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s/%s?base=%s&symbols=%s",
		c.baseURL, on.Format("2006-01-02"), url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var rateResp RateResponse
	if err := json.Unmarshal(body, &rateResp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	rate, ok := rateResp.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate API response missing %s rate", to)
	}

	return rate, nil
}
