// Package client is a small Go client for the mock gateway, for use in the
// test suites of applications that integrate with the emulated provider.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mock_gateway/mail"
	"mock_gateway/sms"
)

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether the gateway answered 429.
func (e *APIError) RateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

// SMSRequest is the payload of POST /sms/send.
type SMSRequest struct {
	To   string
	From string
	Body string
}

// SMSResult mirrors the success body of POST /sms/send.
type SMSResult struct {
	Status     string `json:"status"`
	MessageID  string `json:"message_id"`
	ToNumber   string `json:"to_number"`
	FromNumber string `json:"from_number"`
	Body       string `json:"body"`
}

// EmailResult mirrors the success body of POST /email/send.
type EmailResult struct {
	Status    string   `json:"status"`
	MessageID string   `json:"message_id"`
	ToAddrs   []string `json:"to_addrs"`
	FromAddr  string   `json:"from_addr"`
	Subject   string   `json:"subject"`
}

// Client talks to one gateway instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the gateway at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendSMS posts an SMS.
func (c *Client) SendSMS(ctx context.Context, req SMSRequest) (*SMSResult, error) {
	form := url.Values{
		sms.FieldTo:   {req.To},
		sms.FieldFrom: {req.From},
		sms.FieldBody: {req.Body},
	}
	var out SMSResult
	if err := c.postForm(ctx, "/sms/send", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendEmail posts a raw RFC 822 email.
func (c *Client) SendEmail(ctx context.Context, raw string) (*EmailResult, error) {
	var out EmailResult
	if err := c.postForm(ctx, "/email/send", url.Values{mail.FieldMessage: {raw}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendDraft renders d with mail.Compose and posts it.
func (c *Client) SendDraft(ctx context.Context, d mail.Draft) (*EmailResult, error) {
	raw, err := mail.Compose(d)
	if err != nil {
		return nil, err
	}
	return c.SendEmail(ctx, raw)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &e) != nil || e.Message == "" {
			e.Message = strings.TrimSpace(string(body))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
