package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Service names one of the three backends.
type Service string

const (
	ServiceUser    Service = "user"
	ServiceRoom    Service = "room"
	ServiceContent Service = "content"
)

const maxErrorBody = 64 << 10

// CredentialSource hands out the bearer credential for outgoing requests.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool)
}

// UnauthorizedFunc is called with the request path whenever a backend answers 401.
type UnauthorizedFunc func(ctx context.Context, path string)

// Options configure a Client.
type Options struct {
	UserURL    string
	RoomURL    string
	ContentURL string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is the shared HTTP transport of all service clients. It injects the
// bearer credential, reports 401 responses, and tracks whether the backend
// is reachable.
type Client struct {
	baseURLs map[Service]string
	http     *http.Client
	log      *zerolog.Logger

	offline atomic.Bool

	mu             sync.RWMutex
	creds          CredentialSource
	onUnauthorized UnauthorizedFunc
}

// NewClient builds a transport from opts.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if opts.Timeout > 0 {
		c := *httpClient
		c.Timeout = opts.Timeout
		httpClient = &c
	}

	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Client{
		baseURLs: map[Service]string{
			ServiceUser:    strings.TrimRight(opts.UserURL, "/"),
			ServiceRoom:    strings.TrimRight(opts.RoomURL, "/"),
			ServiceContent: strings.TrimRight(opts.ContentURL, "/"),
		},
		http: httpClient,
		log:  logger,
	}
}

// SetCredentials installs the source of the bearer credential.
func (c *Client) SetCredentials(src CredentialSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = src
}

// OnUnauthorized installs the 401 hook.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Offline reports whether a network failure switched the client offline.
func (c *Client) Offline() bool {
	return c.offline.Load()
}

// ResetOffline clears the offline flag.
func (c *Client) ResetOffline() {
	c.offline.Store(false)
}

// Do sends a JSON request to the service and decodes the JSON response into
// out when out is non-nil.
func (c *Client) Do(ctx context.Context, svc Service, method, path string, query url.Values, body, out any) error {
	if c.offline.Load() {
		return fmt.Errorf("%s %s: %w", method, path, ErrOffline)
	}

	base, ok := c.baseURLs[svc]
	if !ok || base == "" {
		return fmt.Errorf("no base url for %s service", svc)
	}

	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	creds, onUnauthorized := c.creds, c.onUnauthorized
	c.mu.RUnlock()

	if creds != nil {
		if token, ok := creds.Credential(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A caller giving up is not a sign that the backend is gone.
		if ctx.Err() != nil {
			return fmt.Errorf("%s %s: %w", method, path, ctx.Err())
		}
		c.offline.Store(true)
		c.log.Warn().Err(err).Str("service", string(svc)).Str("path", path).Msg("backend unreachable, switching to offline mode")
		return fmt.Errorf("%w: %s %s: %w", ErrOffline, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    errorMessage(resp.Body),
		}
		c.log.Debug().Str("service", string(svc)).Str("path", path).Int("status", resp.StatusCode).Msg("request failed")
		if resp.StatusCode == http.StatusUnauthorized && onUnauthorized != nil {
			onUnauthorized(ctx, path)
		}
		return httpErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} or {"message": "..."} from an error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}
