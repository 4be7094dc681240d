package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

const defaultRetryAfter = 5 * time.Second

// TooManyRequestsError represents rate limiting signal from the push gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// HTTPClient delivers notifications to the push gateway over HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// payload mirrors the JSON body accepted by the push gateway.
type payload struct {
	UserType string            `json:"user_type"`
	UserID   int64             `json:"user_id"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
}

// NewHTTPClient creates push gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notification url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notification url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

// Notify posts one notification. Any non-2xx answer is an error.
func (c *HTTPClient) Notify(ctx context.Context, n model.Notification) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/notifications")

	body, err := json.Marshal(payload{
		UserType: n.UserType,
		UserID:   n.UserID,
		Title:    n.Title,
		Body:     n.Body,
		Data:     n.Data,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("push request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return fmt.Errorf("push gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
