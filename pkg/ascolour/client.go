package ascolour

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/pkg/httpretry"
)

const (
	// DefaultBaseURL is the AS Colour API base URL.
	DefaultBaseURL = "https://api.ascolour.com"
)

// Config holds AS Colour API configuration. The subscription key covers
// catalog and inventory; email/password unlock the JWT-gated pricing API.
type Config struct {
	BaseURL         string
	SubscriptionKey string
	Email           string
	Password        string
}

// Client is a minimal HTTP client for the AS Colour API.
type Client struct {
	httpClient *http.Client
	config     Config
	retry      httpretry.Policy
	debug      bool

	mu    sync.RWMutex
	token string
}

// NewClient constructs a new AS Colour client with sane defaults.
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

// Authenticate obtains the JWT used by pricing endpoints and stores it for
// subsequent requests. Safe to call concurrently.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.config.Email == "" || c.config.Password == "" {
		return fmt.Errorf("pricing credentials not configured")
	}

	var auth authResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/api/authentication", authRequest{
		Email:    c.config.Email,
		Password: c.config.Password,
	}, &auth, false); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	token := auth.Token
	if token == "" {
		token = auth.AccessToken
	}
	if token == "" {
		return fmt.Errorf("authentication response missing token")
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// GetStyles retrieves a catalog page.
func (c *Client) GetStyles(ctx context.Context, page, pageSize int) ([]Style, error) {
	var env stylesEnvelope
	endpoint := fmt.Sprintf("/v1/catalog/products?pageNumber=%d&pageSize=%d", page, pageSize)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &env, false); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetStyle retrieves a single style by code. Returns (nil, nil) when the
// style does not exist.
func (c *Client) GetStyle(ctx context.Context, styleCode string) (*Style, error) {
	var env styleEnvelope
	endpoint := "/v1/catalog/products/" + styleCode
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &env, false); err != nil {
		if httpretry.StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return env.Data, nil
}

// GetInventoryItem retrieves stock for one variant SKU. This is a secondary
// call per variant; the catalog payload carries no quantities. Returns
// (nil, nil) when the SKU is unknown upstream.
func (c *Client) GetInventoryItem(ctx context.Context, sku string) (*InventoryItem, error) {
	var item InventoryItem
	endpoint := "/v1/inventory/items/" + sku
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &item, false); err != nil {
		if httpretry.StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetStylePricing retrieves wholesale pricing for a style. Authenticates
// lazily on first use. Returns (nil, nil) when no pricing exists.
func (c *Client) GetStylePricing(ctx context.Context, styleCode string) (*StylePricing, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	var pricing StylePricing
	endpoint := "/v1/pricing/styles/" + styleCode
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &pricing, true); err != nil {
		if httpretry.StatusCode(err) == http.StatusNotFound {
			return nil, nil
		}
		if httpretry.StatusCode(err) == http.StatusUnauthorized {
			// Token expired; drop it so the next call re-authenticates.
			c.mu.Lock()
			c.token = ""
			c.mu.Unlock()
		}
		return nil, err
	}
	return &pricing, nil
}

// Ping checks API reachability using the cheapest catalog endpoint.
func (c *Client) Ping(ctx context.Context) bool {
	err := c.doRequest(ctx, http.MethodGet, "/v1/catalog/colours?pageNumber=1&pageSize=1", nil, nil, false)
	return err == nil
}

func (c *Client) ensureToken(ctx context.Context) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		return nil
	}
	return c.Authenticate(ctx)
}

// doRequest performs an HTTP request with the subscription key header (and
// the bearer token when authed is set), retrying per the shared policy, and
// decodes the JSON response into result when non-nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any, authed bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.config.BaseURL+endpoint).
			Str("method", method).
			Msg("[ASCOLOUR] Outgoing request")
	}

	resp, err := httpretry.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequest(method, c.config.BaseURL+endpoint, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Subscription-Key", c.config.SubscriptionKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authed {
			c.mu.RLock()
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}
			c.mu.RUnlock()
		}
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
			Msg("[ASCOLOUR] Incoming response")
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
