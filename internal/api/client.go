package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds gateway configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
	}
}

// Client is the authenticated request gateway. Every call carries the bearer
// access token; on a 401 the client exchanges the refresh token exactly once
// and retries the original call once. When the exchange itself fails it
// clears the credentials, invokes the logout hook, and surfaces the failure
// as a TransportError wrapping ErrLoggedOut.
type Client struct {
	base     string
	httpc    *http.Client
	creds    *Credentials
	log      *zap.Logger
	onLogout func()
}

// New creates a Client. creds must not be nil; onLogout may be nil.
func New(cfg Config, creds *Credentials, log *zap.Logger, onLogout func()) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:     cfg.BaseURL,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		creds:    creds,
		log:      log,
		onLogout: onLogout,
	}
}

// post issues an authenticated POST and returns the raw response body.
// This is the single choke point implementing the refresh-once contract.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	// Proactive refresh when the access token is about to lapse. Failure
	// here is non-fatal: the reactive 401 path below stays authoritative.
	if c.creds.NeedsRefresh(time.Now()) {
		if err := c.refresh(ctx); err != nil {
			c.log.Warn("proactive token refresh failed", zap.Error(err))
		}
	}

	raw, status, err := c.doOnce(ctx, path, body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if status == http.StatusUnauthorized {
		if err := c.refresh(ctx); err != nil {
			c.creds.Clear()
			if c.onLogout != nil {
				c.onLogout()
			}
			c.log.Warn("credential refresh failed, forcing logout", zap.String("path", path))
			return nil, &TransportError{Status: status, Err: &ErrLoggedOut{Err: err}}
		}
		raw, status, err = c.doOnce(ctx, path, body)
		if err != nil {
			return nil, &TransportError{Err: err}
		}
		if status == http.StatusUnauthorized {
			c.creds.Clear()
			if c.onLogout != nil {
				c.onLogout()
			}
			return nil, &TransportError{Status: status, Err: &ErrLoggedOut{Err: fmt.Errorf("still unauthorized after refresh")}}
		}
	}

	switch {
	case status >= 200 && status < 300:
		return raw, nil
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Message != "" {
			return nil, &ValidationError{Message: er.Message}
		}
		return nil, &ValidationError{Message: http.StatusText(status)}
	default:
		return nil, &TransportError{Status: status, Err: fmt.Errorf("unexpected status %d", status)}
	}
}

// doOnce performs a single HTTP round trip with the current access token.
func (c *Client) doOnce(ctx context.Context, path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if !c.creds.Empty() {
		req.Header.Set("Authorization", "Bearer "+c.creds.Access)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("api call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return raw, resp.StatusCode, nil
}

// refresh exchanges the refresh token for a new access token. At most one
// exchange happens per failed call; the server rotates the refresh token
// when it chooses to.
func (c *Client) refresh(ctx context.Context) error {
	if c.creds.Refresh == "" {
		return fmt.Errorf("no refresh token")
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(refreshRequest{RefreshToken: c.creds.Refresh}); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/refresh-token", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh rejected with status %d", resp.StatusCode)
	}

	var rr refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if rr.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	c.creds.Access = rr.AccessToken
	if rr.RefreshToken != "" {
		c.creds.Refresh = rr.RefreshToken
	}
	return nil
}
