// Package transport implements the HTTPS JSON transport shared by the
// client facade: POST a typed body, parse the uniform
// {status, message, ...} envelope, map non-2xx responses to a
// processing error.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jpequegn/powclient/internal/errs"
)

// Envelope is the uniform JSON wrapper returned by both /request and
// /response. Unknown fields are ignored; Raw retains the full decoded
// body so callers can pull out their own nested field (challenge,
// token, ...).
type Envelope struct {
	Status  uint16          `json:"status"`
	Message string          `json:"message"`
	Raw     json.RawMessage `json:"-"`
}

// Client POSTs JSON bodies to a configured base URL and parses the
// response envelope. No retries, no redirects beyond the HTTPS
// defaults, no connection-pool tuning is observable.
type Client struct {
	BaseURL   string
	UserAgent string
	http      *http.Client
}

// New creates a Client with the given base URL, user agent, and
// per-request timeout.
func New(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// PostJSON serializes body as JSON, POSTs it to c.BaseURL+path, and
// parses the response as an Envelope. A non-2xx response yields a
// ProcessingError carrying the response's status and message.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (Envelope, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return Envelope{}, errs.NewSerialization(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return Envelope{}, errs.NewNetwork(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Envelope{}, errs.NewNetwork(err)
	}
	defer func() { _ = resp.Body.Close() }()

	var raw json.RawMessage
	decodeErr := json.NewDecoder(resp.Body).Decode(&raw)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env Envelope
		if decodeErr == nil {
			_ = json.Unmarshal(raw, &env)
		}
		message := env.Message
		if message == "" {
			message = resp.Status
		}
		return Envelope{}, errs.NewProcessing(uint16(resp.StatusCode), message)
	}

	if decodeErr != nil {
		return Envelope{}, errs.NewSerialization(fmt.Errorf("decoding response body: %w", decodeErr))
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, errs.NewSerialization(err)
	}
	env.Raw = raw

	return env, nil
}

// Field extracts and decodes the named top-level field from the
// envelope's raw body into dst. Returns a ProcessingError if the field
// is absent or status != 200.
func (e Envelope) Field(name string, dst any) error {
	if e.Status != 200 {
		return errs.NewProcessing(e.Status, e.Message)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(e.Raw, &fields); err != nil {
		return errs.NewSerialization(err)
	}

	raw, ok := fields[name]
	if !ok {
		return errs.NewProcessing(e.Status, fmt.Sprintf("missing %q field in response", name))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.NewSerialization(err)
	}
	return nil
}
