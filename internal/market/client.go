package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches quotes from a Yahoo-chart-shaped JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client. The timeout bounds every fetch so
// a hung feed cannot stall a settlement request indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// chartResponse mirrors the feed's wire format.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetchChart(ctx context.Context, symbol, rng, interval string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "paper-trading-simulator/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market data fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data fetch failed: status %d", resp.StatusCode)
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("market data decode failed: %w", err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("market data error: %s", cr.Chart.Error.Description)
	}
	if len(cr.Chart.Result) == 0 {
		return nil, ErrNoPrice
	}
	return &cr, nil
}

// CurrentPrice returns the latest quote for symbol.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	cr, err := c.fetchChart(ctx, symbol, "1d", "1m")
	if err != nil {
		return 0, err
	}
	price := cr.Chart.Result[0].Meta.RegularMarketPrice
	if price <= 0 {
		return 0, ErrNoPrice
	}
	return price, nil
}

// Series returns the price history for symbol over rng at interval.
func (c *Client) Series(ctx context.Context, symbol, rng, interval string) (Series, error) {
	cr, err := c.fetchChart(ctx, symbol, rng, interval)
	if err != nil {
		return Series{}, err
	}

	result := cr.Chart.Result[0]
	if result.Meta.RegularMarketPrice <= 0 {
		return Series{}, ErrNoPrice
	}

	s := Series{
		Timestamps:   result.Timestamp,
		CurrentPrice: result.Meta.RegularMarketPrice,
	}
	if len(result.Indicators.Quote) > 0 {
		s.Prices = result.Indicators.Quote[0].Close
	}
	return s, nil
}
