// Package reporter posts play-through results to the backend session API.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"lexio/internal/game"
)

const (
	requestTimeout = 10 * time.Second
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"
)

// Bootstrap is what the session bootstrap endpoint returns: everything a
// client needs to start the engine.
type Bootstrap struct {
	Session game.Session    `json:"session"`
	Config  game.GameConfig `json:"config"`
}

// Client implements game.Reporter over HTTP. It keeps a cookie jar so the
// CSRF cookie issued with the session bootstrap is echoed back as a header on
// every POST. Every call is attempt-once; retrying is the caller's decision
// and nobody makes it.
type Client struct {
	baseURL    *url.URL
	endpoints  game.Endpoints
	httpClient *http.Client
}

// NewClient creates a reporter for endpoints relative to baseURL.
func NewClient(baseURL string, endpoints game.Endpoints) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		baseURL:   parsed,
		endpoints: endpoints,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Jar:     jar,
		},
	}, nil
}

// FetchBootstrap loads the session and game config for a session URL. The
// response sets the CSRF cookie the jar carries into subsequent posts.
func (c *Client) FetchBootstrap(ctx context.Context, path string) (*Bootstrap, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session bootstrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var boot Bootstrap
	if err := json.NewDecoder(resp.Body).Decode(&boot); err != nil {
		return nil, fmt.Errorf("failed to decode session bootstrap: %w", err)
	}
	return &boot, nil
}

// ReportQuestion posts one resolved question. Best-effort telemetry; the
// engine logs and swallows the error.
func (c *Client) ReportQuestion(ctx context.Context, r game.QuestionReport) error {
	return c.post(ctx, c.endpoints.QuestionResponse, r, nil)
}

// ReportLevel posts a completed level's totals.
func (c *Client) ReportLevel(ctx context.Context, r game.LevelReport) error {
	return c.post(ctx, c.endpoints.LevelComplete, r, nil)
}

// ReportFinish posts the final totals and returns the backend's navigation
// answer.
func (c *Client) ReportFinish(ctx context.Context, r game.FinishReport) (*game.FinishResponse, error) {
	var resp game.FinishResponse
	if err := c.post(ctx, c.endpoints.FinishGame, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	target, err := c.resolve(endpoint)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.csrfToken(target); token != "" {
		req.Header.Set(csrfHeaderName, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return nil
}

func (c *Client) resolve(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// csrfToken pulls the CSRF cookie value from the jar for the target URL.
func (c *Client) csrfToken(target *url.URL) string {
	for _, cookie := range c.httpClient.Jar.Cookies(target) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}
