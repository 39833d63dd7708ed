// Package client is a Go SDK for the logistics API. A Client issues the
// calls; a Session owns the signed-in user and the bearer token.
package client

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

	"github.com/rs/zerolog"
)

// ErrUnauthorized is matched (via errors.Is) by every error produced from a
// 401 response. The session has already been cleared when it is returned;
// callers should send the user back to the login screen.
var ErrUnauthorized = errors.New("client: unauthorized")

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("api: %d %s (%s)", e.StatusCode, e.Message, strings.Join(parts, "; "))
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

// Client calls the logistics API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         zerolog.Logger
	session        *Session
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUnauthorizedHandler registers fn to run after a 401 has cleared the
// session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New returns a Client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Auth ---

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/auth/profile", nil, update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// --- Cities ---

// Cities lists the active cities.
func (c *Client) Cities(ctx context.Context) ([]City, error) {
	var out struct {
		Cities []City `json:"cities"`
	}
	if err := c.do(ctx, http.MethodGet, "/cities", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Cities, nil
}

// AdminCities lists every city with its user count. Admin only.
func (c *Client) AdminCities(ctx context.Context) ([]CityWithCount, error) {
	var out struct {
		Cities []CityWithCount `json:"cities"`
	}
	if err := c.do(ctx, http.MethodGet, "/cities/admin", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Cities, nil
}

func (c *Client) City(ctx context.Context, id string) (*CityWithCount, error) {
	var out struct {
		City *CityWithCount `json:"city"`
	}
	if err := c.do(ctx, http.MethodGet, "/cities/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.City, nil
}

func (c *Client) CreateCity(ctx context.Context, in CityInput) (*City, error) {
	var out struct {
		City *City `json:"city"`
	}
	if err := c.do(ctx, http.MethodPost, "/cities", nil, in, &out); err != nil {
		return nil, err
	}
	return out.City, nil
}

func (c *Client) UpdateCity(ctx context.Context, id string, update CityUpdate) (*City, error) {
	var out struct {
		City *City `json:"city"`
	}
	if err := c.do(ctx, http.MethodPut, "/cities/"+url.PathEscape(id), nil, update, &out); err != nil {
		return nil, err
	}
	return out.City, nil
}

// DeleteCity removes a city, or deactivates it when users still reference
// it. The returned message tells which happened.
func (c *Client) DeleteCity(ctx context.Context, id string) (string, error) {
	env, err := c.send(ctx, http.MethodDelete, "/cities/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// --- Users (admin) ---

func (c *Client) Users(ctx context.Context, p ListUsersParams) (*UserPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Role != "" {
		q.Set("role", p.Role)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}

	var out UserPage
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id, role string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/role", nil, body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.send(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) UserStats(ctx context.Context) (*UserStats, error) {
	var out struct {
		Stats *UserStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/stats/overview", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// --- transport ---

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	env, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}

	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api call")

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Fields: env.Errors}
	}
	return &env, nil
}

func (c *Client) unauthorized() {
	if c.session != nil {
		if err := c.session.clear(); err != nil {
			c.logger.Warn().Err(err).Msg("clearing session")
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}
