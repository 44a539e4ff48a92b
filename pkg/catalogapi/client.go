// Package catalogapi is a small JSON client for the storefront catalog backend.
package catalogapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("catalog api error: status=%d body=%s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("catalog api error: status=%d", e.StatusCode)
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

func (c Client) GetJSON(ctx context.Context, path string, respBody any) error {
	_, err := c.doJSON(ctx, http.MethodGet, path, nil, respBody)
	return err
}

func (c Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) (int, error) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return 0, fmt.Errorf("missing catalog api base url")
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return resp.StatusCode, fmt.Errorf("decode catalog response failed: %w body=%s", err, string(b))
		}
	}

	return resp.StatusCode, nil
}
