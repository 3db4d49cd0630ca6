// Package chat wraps the developer-supplied generation endpoint that turns
// a prompt into a single-file HTML app. The endpoint is an external
// collaborator: this client only speaks its request/response contract.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/byof/framehost/internal/resilience"
)

// GeneratedApp is the generation endpoint's response contract.
type GeneratedApp struct {
	HTML  string `json:"html"`
	Title string `json:"title,omitempty"`
}

// Request is the generation request contract.
type Request struct {
	Prompt   string            `json:"prompt"`
	Context  map[string]string `json:"context,omitempty"`
	Messages []Message         `json:"messages,omitempty"`
}

// Message is one turn of the generation conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the generation endpoint with retries and a circuit breaker.
type Client struct {
	http    *resty.Client
	breaker *resilience.Breaker
}

// New creates a client for the given endpoint base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:    httpClient,
		breaker: resilience.New("chat", resilience.Settings{}),
	}
}

// Generate requests a generated app for a prompt.
func (c *Client) Generate(ctx context.Context, req Request) (*GeneratedApp, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var app GeneratedApp
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&app).
			Post("/generate")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("generation endpoint returned %s", resp.Status())
		}
		if app.HTML == "" {
			return nil, fmt.Errorf("generation endpoint returned no html")
		}
		return &app, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*GeneratedApp), nil
}
