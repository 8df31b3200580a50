package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mesaeats/mesa-client/pkg/config"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

var errBaseURLRequired = errors.New("backend base url is required")

// Client wraps the delivery platform's REST API with bearer injection, a
// fixed request timeout, and typed error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
	metrics    *metrics.ClientMetrics

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics wires call instrumentation.
func WithMetrics(m *metrics.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithUnauthorizedHook registers the callback invoked whenever the backend
// answers 401. The original request is not retried.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// NewClient builds the backend client from configuration.
func NewClient(cfg config.BackendConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logg:       logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// SetToken installs the bearer token injected into subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the stored bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type errorPayload struct {
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, operation, method, path string, body any, dest any) error {
	started := time.Now()
	err := c.do(ctx, method, path, body, dest)
	c.metrics.ObserveCall(operation, time.Since(started))
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		c.metrics.IncCallFailure(operation, code)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "backend unreachable")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return pkgerrors.New(pkgerrors.CodeUnauthenticated, "backend rejected credentials")
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.New(pkgerrors.CodeServerRejected, rejectionMessage(resp)).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeServerRejected, err, "decode response body")
	}
	return nil
}

func rejectionMessage(resp *http.Response) string {
	var payload errorPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload); err == nil {
		if payload.Error != nil && payload.Error.Message != "" {
			return payload.Error.Message
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("backend returned status %d", resp.StatusCode)
}

func (c *Client) getBytes(ctx context.Context, operation, path string) ([]byte, error) {
	started := time.Now()
	data, err := c.rawGet(ctx, path)
	c.metrics.ObserveCall(operation, time.Since(started))
	if err != nil {
		code := string(pkgerrors.CodeInternal)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		c.metrics.IncCallFailure(operation, code)
	}
	return data, err
}

func (c *Client) rawGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "backend rejected credentials")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeServerRejected, rejectionMessage(resp))
	}
	return io.ReadAll(resp.Body)
}
