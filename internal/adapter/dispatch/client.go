package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
)

// Client talks to the upstream taxi-dispatch platform. Every endpoint is
// tenant-scoped: the tenant id travels in a request header and the same URL
// serves each tenant's partition of the fleet.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

const (
	headerAPIKey  = "X-Api-Key"
	headerCompany = "X-Company-Id"
)

// getJSON issues one tenant-scoped GET and decodes the response body into dst.
func (c *Client) getJSON(ctx context.Context, tenant, path string, dst any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerCompany, tenant)

	resp, err := c.http.Do(req)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("failed to call %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return wrap.Error(ctx, fmt.Errorf("unexpected response status %d from %s", resp.StatusCode, path))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to decode response from %s: %w", path, err))
	}

	return nil
}

func opErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
