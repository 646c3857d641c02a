// Package upstream forwards each operation to a WattTime base URL.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"watttime-api/internal/backend"
)

const maxErrorBody = 64 << 10

// Client is a minimal WattTime REST client.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithUserAgent sets the User-Agent sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient constructs an upstream client.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("upstream: empty base url")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("upstream: invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		userAgent: "watttime-api",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Org      string `json:"org,omitempty"`
}

type registerResponse struct {
	User string `json:"user"`
	OK   string `json:"ok"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type passwordResponse struct {
	OK string `json:"ok"`
}

type regionResponse struct {
	Abbrev     string `json:"abbrev"`
	Name       string `json:"name"`
	SignalType string `json:"signal_type"`
}

// Register forwards a registration as a JSON body.
func (c *Client) Register(ctx context.Context, req backend.Registration) (backend.Registered, error) {
	body := registerRequest{Username: req.Username, Password: req.Password, Email: req.Email, Org: req.Org}
	var resp registerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/register", nil, body, nil, &resp); err != nil {
		return backend.Registered{}, err
	}
	return backend.Registered{User: resp.User, OK: resp.OK}, nil
}

// Login exchanges basic credentials for a token.
func (c *Client) Login(ctx context.Context, creds backend.Credentials) (backend.Token, error) {
	var resp loginResponse
	authorize := func(r *http.Request) { r.SetBasicAuth(creds.Username, creds.Password) }
	if err := c.doJSON(ctx, http.MethodGet, "/login", nil, nil, authorize, &resp); err != nil {
		return backend.Token{}, err
	}
	if resp.Token == "" {
		return backend.Token{}, fmt.Errorf("%w: empty token", backend.ErrUpstream)
	}
	return backend.Token{Token: resp.Token}, nil
}

// ResetPassword requests a reset email for username.
func (c *Client) ResetPassword(ctx context.Context, username string) (backend.PasswordReset, error) {
	var resp passwordResponse
	query := url.Values{"username": {username}}
	if err := c.doJSON(ctx, http.MethodGet, "/password", query, nil, nil, &resp); err != nil {
		return backend.PasswordReset{}, err
	}
	return backend.PasswordReset{OK: resp.OK}, nil
}

// RegionFromLoc looks up the grid region for a coordinate.
func (c *Client) RegionFromLoc(ctx context.Context, query backend.RegionQuery) (backend.Region, error) {
	if query.BearerToken == "" {
		return backend.Region{}, backend.ErrUnauthorized
	}
	params := url.Values{
		"latitude":    {strconv.FormatFloat(query.Latitude, 'f', -1, 64)},
		"longitude":   {strconv.FormatFloat(query.Longitude, 'f', -1, 64)},
		"signal_type": {string(query.SignalType)},
	}
	authorize := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+query.BearerToken) }
	var resp regionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v3/region-from-loc", params, nil, authorize, &resp); err != nil {
		return backend.Region{}, err
	}
	return backend.Region{Abbrev: resp.Abbrev, Name: resp.Name, SignalType: backend.SignalType(resp.SignalType)}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, authorize func(*http.Request), out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if authorize != nil {
		authorize(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", backend.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", backend.ErrUpstream, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := errorMessage(data)
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &backend.StatusError{Status: resp.StatusCode, Message: message, Err: backend.ErrUnauthorized}
	case resp.StatusCode == http.StatusNotFound:
		return &backend.StatusError{Status: resp.StatusCode, Message: message, Err: backend.ErrNotFound}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &backend.StatusError{Status: resp.StatusCode, Message: message, Err: backend.ErrInvalidInput}
	default:
		return &backend.StatusError{
			Status:  http.StatusBadGateway,
			Message: fmt.Sprintf("upstream http %d: %s", resp.StatusCode, message),
			Err:     backend.ErrUpstream,
		}
	}
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if value, ok := payload[key].(string); ok && value != "" {
				return value
			}
		}
	}
	text := string(trimmed)
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
