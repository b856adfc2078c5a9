package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxRetries     = 3
	retryBaseDelay = time.Second

	genericErrorMsg = "request failed, please try again"
)

// Client is the retrying HTTP client used for calls to the remote pricing
// and file-analysis services. Concurrent requests are independent; the only
// coordination is one retry sequence per failed request.
type Client struct {
	httpClient *http.Client
	session    SessionStore
	logger     *zap.Logger
	sleep      func(time.Duration) // injectable for tests
}

// New creates a Client. A nil httpClient falls back to a 30s-timeout client.
func New(httpClient *http.Client, session SessionStore, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		session:    session,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Do sends the request, adding the bearer header when a token is stored and
// retrying transient network failures with linear backoff: the initial
// attempt plus up to maxRetries retries, sleeping 1s, 2s, 3s before each.
// HTTP error statuses are never retried. A 401 clears the stored session;
// the caller decides what to do next.
func (c *Client) Do(ctx context.Context, method, rawURL string, body []byte, contentType string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(retryBaseDelay * time.Duration(attempt))
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			if resp.StatusCode == http.StatusUnauthorized {
				c.session.Clear()
				c.logger.Warn("received 401, cleared local session",
					zap.String("url", rawURL))
			}
			return resp, nil
		}

		if !isTransient(err) {
			return nil, err
		}

		lastErr = err
		c.logger.Warn("transient network error, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s", NormalizeErrorBody(resp.Body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, rawURL string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.Do(ctx, http.MethodPost, rawURL, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s", NormalizeErrorBody(resp.Body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// isTransient classifies network-layer failures worth retrying: connection
// resets, timeouts, "network changed" style errors. HTTP-level errors never
// reach here (httpClient.Do returned a response).
func isTransient(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		err = urlErr.Err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "network") ||
		strings.Contains(msg, "EOF")
}

// NormalizeErrorBody turns a non-2xx response body into a user-facing
// message. The backend convention is a JSON object with an optional
// "detail" field that may be a string, a list of validation errors, or an
// object; anything else degrades to a generic message.
func NormalizeErrorBody(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return genericErrorMsg
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return genericErrorMsg
	}

	// detail: plain string
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
		return s
	}

	// detail: validation error list, {loc, msg} entries
	var list []struct {
		Msg string `json:"msg"`
		Loc []any  `json:"loc"`
	}
	if err := json.Unmarshal(body.Detail, &list); err == nil && len(list) > 0 {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	// detail: arbitrary object
	var obj map[string]any
	if err := json.Unmarshal(body.Detail, &obj); err == nil && len(obj) > 0 {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			return msg
		}
		return string(body.Detail)
	}

	return genericErrorMsg
}
