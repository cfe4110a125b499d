// Package serpapi implements the flight, hotel and web search providers on
// top of the SerpAPI search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	logx "github.com/tripflow/server/pkg/logger"
)

const baseURL = "https://serpapi.com/search"

// Client is a thin SerpAPI HTTP client shared by the search adapters.
type Client struct {
	apiKey   string
	currency string
	http     *http.Client
}

func NewClient(apiKey, currency string, timeout time.Duration) *Client {
	return &Client{
		apiKey:   apiKey,
		currency: currency,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, params url.Values, dest any) error {
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logx.Error().Int("status", resp.StatusCode).Str("engine", params.Get("engine")).Msg("serpapi returned non-200")
		return fmt.Errorf("serpapi status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("serpapi decode: %w", err)
	}
	return nil
}
