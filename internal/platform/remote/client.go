package remote

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

	"github.com/phrazzld/journal-drill/internal/api/shared"
	"github.com/phrazzld/journal-drill/internal/domain"
	"github.com/phrazzld/journal-drill/internal/platform/logger"
	"github.com/phrazzld/journal-drill/internal/redact"
	"github.com/phrazzld/journal-drill/internal/service/drill"
	"github.com/phrazzld/journal-drill/internal/store"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 10 * time.Second

// Client is a drill.Gateway backed by a remote server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

var _ drill.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a Client for the server at baseURL.
// If logger is nil, a default logger will be used.
func New(baseURL string, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  logger.With(slog.String("component", "remote_gateway")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type progressPayload struct {
	CompletedScenarios domain.CompletionMap `json:"completedScenarios"`
	CurrentID          *int                 `json:"currentId"`
	Version            int64                `json:"version"`
}

type attemptPayload struct {
	Email      string `json:"email"`
	ScenarioID int    `json:"scenario_id"`
	IsCorrect  bool   `json:"is_correct"`
}

// LoadProgress implements drill.Gateway. The server answers with the default
// state when nothing is stored and marks it with shared.ProgressStoredHeader;
// that answer is reported as store.ErrProgressNotFound.
func (c *Client) LoadProgress(ctx context.Context, email string) (*domain.ProgressState, error) {
	var payload progressPayload
	header, err := c.do(ctx, http.MethodGet, c.progressURL(email), nil, &payload)
	if err != nil {
		return nil, err
	}
	if payload.CurrentID == nil {
		return nil, fmt.Errorf("%w: progress response has no currentId", store.ErrInvalidEntity)
	}
	if header.Get(shared.ProgressStoredHeader) == "false" {
		return nil, store.ErrProgressNotFound
	}

	state := domain.ProgressState{
		CurrentScenarioID:  *payload.CurrentID,
		CompletedScenarios: payload.CompletedScenarios,
		Version:            payload.Version,
	}
	if state.CompletedScenarios == nil {
		state.CompletedScenarios = domain.CompletionMap{}
	}
	return &state, nil
}

// SaveProgress implements drill.Gateway.
func (c *Client) SaveProgress(ctx context.Context, email string, state domain.ProgressState) error {
	currentID := state.CurrentScenarioID
	payload := progressPayload{
		CompletedScenarios: state.CompletedScenarios,
		CurrentID:          &currentID,
		Version:            state.Version,
	}
	if payload.CompletedScenarios == nil {
		payload.CompletedScenarios = domain.CompletionMap{}
	}
	_, err := c.do(ctx, http.MethodPost, c.progressURL(email), payload, nil)
	return err
}

// RecordAttempt implements drill.Gateway.
func (c *Client) RecordAttempt(ctx context.Context, email string, scenarioID int, correct bool) error {
	payload := attemptPayload{Email: email, ScenarioID: scenarioID, IsCorrect: correct}
	_, err := c.do(ctx, http.MethodPost, c.endpoint("/api/attempt", nil), payload, nil)
	return err
}

func (c *Client) progressURL(email string) string {
	return c.endpoint("/api/progress", url.Values{"email": {email}})
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) (http.Header, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", store.ErrUnavailable, method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var msg messageResponse
		_ = json.Unmarshal(raw, &msg)
		log.Debug("remote request failed",
			slog.String("method", method),
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg.Message))
		return nil, statusError(resp.StatusCode, msg)
	}

	if out == nil {
		return resp.Header, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

func statusError(status int, msg messageResponse) error {
	detail := msg.Message
	if msg.Error != "" {
		detail += ": " + redact.String(msg.Error)
	}
	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", store.ErrInvalidEntity, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, detail)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: server returned %d: %s", store.ErrUnavailable, status, detail)
	default:
		return fmt.Errorf("server returned %d: %s", status, detail)
	}
}
