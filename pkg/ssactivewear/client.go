package ssactivewear

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/pkg/httpretry"
)

const (
	// DefaultBaseURL is the S&S Activewear API base URL.
	DefaultBaseURL = "https://api.ssactivewear.com"
)

// Config holds S&S Activewear API configuration. The account number and
// API key are sent as HTTP basic auth on every request.
type Config struct {
	BaseURL       string
	AccountNumber string
	APIKey        string
}

// Client is a minimal HTTP client for the S&S Activewear API.
type Client struct {
	httpClient *http.Client
	config     Config
	retry      httpretry.Policy
	debug      bool
}

// NewClient constructs a new S&S Activewear client with sane defaults.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		config:     config,
		retry:      httpretry.DefaultPolicy(),
		debug:      os.Getenv("ENV") == "development",
	}
}

// GetStyle retrieves a single style with embedded colors, sizes, pricing
// and stock. Returns (nil, nil) when the style does not exist.
func (c *Client) GetStyle(ctx context.Context, styleID string) (*Style, error) {
	var style Style
	if err := c.doRequest(ctx, "/v2/products/"+url.PathEscape(styleID), &style); err != nil {
		if httpretry.StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &style, nil
}

// GetStyles retrieves one page of the product list.
func (c *Client) GetStyles(ctx context.Context, page, perPage int) (*StylesPage, error) {
	var result StylesPage
	endpoint := fmt.Sprintf("/v2/products?page=%d&perPage=%d", page, perPage)
	if err := c.doRequest(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks API reachability via the categories endpoint.
func (c *Client) Ping(ctx context.Context) bool {
	return c.doRequest(ctx, "/v2/categories", nil) == nil
}

// doRequest performs an authenticated GET with retries and decodes the
// JSON response into result when non-nil.
func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	if c.debug {
		log.Debug().
			Str("endpoint", c.config.BaseURL+endpoint).
			Msg("[SSACTIVEWEAR] Outgoing request")
	}

	resp, err := httpretry.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, c.config.BaseURL+endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.config.AccountNumber, c.config.APIKey)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[SSACTIVEWEAR] Incoming response")
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
