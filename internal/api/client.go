// Package api implements the JSON-over-HTTP client for the weather-favorites
// backend. Every operation is a single request; submissions are always
// user-triggered, so there is no retry loop here.
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
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Ulannnnnnn/WebFinal/internal/models"
)

// ErrUnauthorized marks a 401 from the backend: the stored token is missing,
// invalid, or expired. Callers use this to suggest signing in again.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a failed backend response. The backend reports {error, details?};
// an unparsable body becomes an empty error object, rendered as the generic
// request-failed message.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Request failed"
	}
	if len(e.Details) > 0 {
		return msg + ": " + joinDetails(e.Details)
	}
	return msg
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func joinDetails(details []string) string {
	out := ""
	for i, d := range details {
		if i > 0 {
			out += ", "
		}
		out += d
	}
	return out
}

// Client talks to the backend. Construct with NewClient; the zero value is
// not usable.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a Client for the given base URL. limiter and logger may
// be nil.
func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid api base URL: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}, nil
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// do performs one request and returns the raw response body on 2xx. token may
// be empty for the auth endpoints; body may be nil for GET/DELETE.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(reqCtx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	corrID := uuid.NewString()
	req.Header.Set("X-Correlation-ID", corrID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("correlation_id", corrID),
			zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("correlation_id", corrID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		// Unparsable failure bodies degrade to the empty error object.
		_ = json.Unmarshal(respBody, &eb)
		return nil, &Error{Status: resp.StatusCode, Message: eb.Error, Details: eb.Details}
	}

	return respBody, nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and returns the issued bearer token.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", nil, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	return decodeToken(body)
}

// Login authenticates and returns the issued bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	return decodeToken(body)
}

func decodeToken(body []byte) (string, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("parse auth response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("auth response contained no token")
	}
	return tr.Token, nil
}

// Profile returns the raw profile object for display.
func (c *Client) Profile(ctx context.Context, token string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/users/profile", token, nil, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// ListFavorites fetches the full favorites collection.
func (c *Client) ListFavorites(ctx context.Context, token string) ([]models.Favorite, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/resource", token, nil, nil)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Resources []models.Favorite `json:"resources"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("parse favorites response: %w", err)
	}
	return wrapper.Resources, nil
}

// AddFavorite creates a favorite and returns the created record.
func (c *Client) AddFavorite(ctx context.Context, token string, input models.FavoriteInput) (models.Favorite, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/resource", token, nil, input)
	if err != nil {
		return models.Favorite{}, err
	}
	var fav models.Favorite
	if err := json.Unmarshal(body, &fav); err != nil {
		return models.Favorite{}, fmt.Errorf("parse created favorite: %w", err)
	}
	return fav, nil
}

// DeleteFavorite deletes by identifier. The client performs no local
// existence check; an unknown id is still sent to the backend.
func (c *Client) DeleteFavorite(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/resource/"+url.PathEscape(id), token, nil, nil)
	return err
}

// Forecast fetches the raw forecast payload for a coordinate pair. The caller
// extracts the summary; the raw payload is also displayed as-is.
func (c *Client) Forecast(ctx context.Context, token string, lat, lon float64) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("lat", formatCoordinate(lat))
	query.Set("lon", formatCoordinate(lon))
	body, err := c.do(ctx, http.MethodGet, "/api/weather/forecast", token, query, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// formatCoordinate renders a coordinate the way the user typed it where
// possible: minimal digits, no exponent.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
