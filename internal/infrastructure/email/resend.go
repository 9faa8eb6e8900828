// Package email implements the outbound notification channel against a
// Resend-compatible HTTP email API.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.resend.com"
	sendTimeout    = 5 * time.Second
)

// Config holds the settings for the email channel.
type Config struct {
	APIKey  string
	From    string
	BaseURL string // override for tests; defaults to the Resend API
}

// Client sends email through the provider's REST API. Every send is a
// bounded best-effort attempt; callers treat failures as log-and-continue.
type Client struct {
	httpClient *http.Client
	apiKey     string
	from       string
	baseURL    string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: sendTimeout},
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		baseURL:    baseURL,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send posts one email to the provider. The context bounds the attempt in
// addition to the client timeout.
func (c *Client) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      to,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("email: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("email: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email: provider returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}
