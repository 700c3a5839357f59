// Package strapi is a generic document client for the headless CMS. It
// knows collections, filters and pagination, nothing about print-shop
// domain types; callers decode rows into their own structs.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printshop-os/inventory_api/pkg/httpretry"
)

// Config holds CMS connection settings.
type Config struct {
	BaseURL  string
	APIToken string
}

// Client is a minimal HTTP client for the CMS document API.
type Client struct {
	httpClient *http.Client
	config     Config
	retry      httpretry.Policy
	debug      bool
}

// NewClient constructs a new CMS client with sane defaults.
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     config,
		retry:      httpretry.DefaultPolicy(),
		debug:      os.Getenv("ENV") == "development",
	}
}

// Find queries a collection and decodes the data rows into out, which must
// be a pointer to a slice. Returns the pagination meta block.
func (c *Client) Find(ctx context.Context, collection string, opts FindOptions, out any) (*Pagination, error) {
	endpoint := "/api/" + collection
	if q := buildQuery(opts); q != "" {
		endpoint += "?" + q
	}

	var list listResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	if out != nil && len(list.Data) > 0 {
		if err := json.Unmarshal(list.Data, out); err != nil {
			return nil, fmt.Errorf("failed to decode documents: %w", err)
		}
	}
	return &list.Meta.Pagination, nil
}

// FindAll pages through a collection and returns every document decoded as
// T. opts.Page is managed internally; a zero PageSize defaults to 100.
func FindAll[T any](ctx context.Context, c *Client, collection string, opts FindOptions) ([]T, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	opts.WithCount = true

	var all []T
	for page := 1; ; page++ {
		opts.Page = page
		var rows []T
		p, err := c.Find(ctx, collection, opts, &rows)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) == 0 || page >= p.PageCount {
			return all, nil
		}
	}
}

// Create inserts a document into a collection.
func (c *Client) Create(ctx context.Context, collection string, data any) error {
	return c.doRequest(ctx, http.MethodPost, "/api/"+collection, writeRequest{Data: data}, nil)
}

// Update rewrites fields of an existing document by its document id.
func (c *Client) Update(ctx context.Context, collection, documentID string, data any) error {
	endpoint := "/api/" + collection + "/" + url.PathEscape(documentID)
	return c.doRequest(ctx, http.MethodPut, endpoint, writeRequest{Data: data}, nil)
}

// Count returns the total number of documents matching the filters.
func (c *Client) Count(ctx context.Context, collection string, filters map[string]string) (int, error) {
	p, err := c.Find(ctx, collection, FindOptions{
		Filters:   filters,
		PageSize:  1,
		WithCount: true,
	}, nil)
	if err != nil {
		return 0, err
	}
	return p.Total, nil
}

// Health reports whether the CMS answers its health endpoint.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/_health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK
}

func buildQuery(opts FindOptions) string {
	q := url.Values{}
	for field, value := range opts.Filters {
		q.Set(fmt.Sprintf("filters[%s][$eq]", field), value)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Page > 0 {
		q.Set("pagination[page]", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pagination[pageSize]", strconv.Itoa(opts.PageSize))
	}
	if opts.WithCount {
		q.Set("pagination[withCount]", "true")
	}
	for i, f := range opts.Fields {
		q.Set(fmt.Sprintf("fields[%d]", i), f)
	}
	return q.Encode()
}

// doRequest performs an HTTP request with bearer auth, retrying server
// errors and connection failures per the shared policy. Validation and
// auth errors (400/401/403/404) fail fast.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
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
			Msg("[STRAPI] Outgoing request")
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
		if c.config.APIToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
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
			Msg("[STRAPI] Incoming response")
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
