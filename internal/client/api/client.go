package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domaingames "github.com/preston-bernstein/prediction-service/internal/domain/games"
	"github.com/preston-bernstein/prediction-service/internal/domain/money"
	"github.com/preston-bernstein/prediction-service/internal/domain/users"
)

// Config controls how the client reaches the prediction service.
type Config struct {
	BaseURL       string
	HTTPClient    *http.Client
	Timeout       time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	Logger        *slog.Logger
}

// Client calls the prediction service HTTP API.
type Client struct {
	baseURL       string
	httpClient    httpDoer
	retryAttempts int
	retryBackoff  time.Duration
	logger        *slog.Logger
}

// SubmitRequest is the body of POST /predict.
type SubmitRequest struct {
	UserID string       `json:"userId"`
	GameID string       `json:"gameId"`
	Pick   string       `json:"pick"`
	Amount money.Amount `json:"amount"`
}

// SubmitResponse is the body of a successful POST /predict.
type SubmitResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    users.User `json:"user"`
}

type errorBody struct {
	Error string `json:"error"`
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = defaultRetryAttempts
	}
	wait := cfg.RetryBackoff
	if wait <= 0 {
		wait = defaultRetryBackoff
	}
	return &Client{
		baseURL:       normalizeBaseURL(cfg.BaseURL),
		httpClient:    resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		retryAttempts: attempts,
		retryBackoff:  wait,
		logger:        cfg.Logger,
	}
}

// ListGames returns every game in service order.
func (c *Client) ListGames(ctx context.Context) ([]domaingames.Game, error) {
	var games []domaingames.Game
	if err := c.get(ctx, "list games", "/games", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame returns a single game or an error wrapping ErrNotFound.
func (c *Client) GetGame(ctx context.Context, id string) (domaingames.Game, error) {
	var game domaingames.Game
	if err := c.get(ctx, "get game", "/games/"+url.PathEscape(id), &game); err != nil {
		return domaingames.Game{}, err
	}
	return game, nil
}

// GetUser returns the current user snapshot.
func (c *Client) GetUser(ctx context.Context) (users.User, error) {
	var user users.User
	if err := c.get(ctx, "get user", "/user", &user); err != nil {
		return users.User{}, err
	}
	return user, nil
}

// SubmitPrediction places a prediction. It is never retried: the service
// does not deduplicate, so a retry could debit twice.
func (c *Client) SubmitPrediction(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SubmitResponse{}, err
	}
	var resp SubmitResponse
	if err := c.do(ctx, "submit prediction", http.MethodPost, "/predict", body, &resp); err != nil {
		return SubmitResponse{}, err
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, op, path string, dest any) error {
	return c.retry(ctx, op, func() error {
		return c.do(ctx, op, http.MethodGet, path, nil, dest)
	})
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, dest any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, readStatusError(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func readStatusError(resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
