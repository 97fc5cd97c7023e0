package compass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"compass-earn/internal/config"

	"github.com/zeromicro/go-zero/rest/httpc"
)

const (
	apiKeyHeader = "x-api-key"
	userAgent    = "compass-earn/1.0"
)

// APIError is a non-2xx response from the Compass API.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("compass api error %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// IsClientError reports whether the upstream rejected the request itself.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Client calls the Compass API. It holds no per-request state and is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	sortCase string
	service  httpc.Service
}

// NewClient builds a client from configuration.
func NewClient(c config.CompassConf) *Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTP(c, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP builds a client on a caller supplied http.Client.
func NewClientWithHTTP(c config.CompassConf, cli *http.Client) *Client {
	sortCase := c.SortParamCase
	if sortCase == "" {
		sortCase = SortCaseSnake
	}
	return &Client{
		baseURL:  strings.TrimRight(c.ApiUrl, "/"),
		apiKey:   c.ApiKey,
		sortCase: sortCase,
		service:  httpc.NewServiceWithClient("compass", cli),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.service.DoRequest(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
