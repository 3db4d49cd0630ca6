// Package persist wraps the save/load endpoint that stores generated apps
// with their conversation state. External collaborator; contract only.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// SavedApp is the persistence contract: the document plus optional
// conversation and API-spec state.
type SavedApp struct {
	HTML     string            `json:"html"`
	Messages []json.RawMessage `json:"messages,omitempty"`
	APISpec  json.RawMessage   `json:"apiSpec,omitempty"`
}

// Client calls the persistence endpoint with automatic retries.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
}

// New creates a client for the given endpoint base URL.
func New(baseURL string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	if timeout > 0 {
		rc.HTTPClient.Timeout = timeout
	}
	return &Client{http: rc, baseURL: baseURL}
}

// Save persists an app and returns its storage ID.
func (c *Client) Save(ctx context.Context, app SavedApp) (string, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/apps", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("save endpoint returned %s", resp.Status)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode save response: %w", err)
	}
	return out.ID, nil
}

// Load retrieves a saved app by ID.
func (c *Client) Load(ctx context.Context, appID string) (*SavedApp, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/apps/"+appID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("app %s not found", appID)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("load endpoint returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var app SavedApp
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("decode saved app: %w", err)
	}
	return &app, nil
}
