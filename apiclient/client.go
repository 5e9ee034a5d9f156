// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/eballot/auth"
	"github.com/danielhkuo/eballot/middleware"
	"github.com/danielhkuo/eballot/models"
	"github.com/danielhkuo/eballot/router"
)

const DefaultBaseURL = "http://localhost:5000/api"

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// Operation names, used in errors, logs and metric labels
const (
	OpHealth         = "health"
	OpRegister       = "register"
	OpLogin          = "login"
	OpDashboardStats = "dashboard_stats"
	OpListElections  = "list_elections"
	OpListCandidates = "list_candidates"
	OpCastVote       = "cast_vote"
	OpResults        = "results"
)

// Shown when the service rejects a request without saying why
var fallbackMessages = map[string]string{
	OpHealth:         "Health check failed",
	OpRegister:       "Registration failed",
	OpLogin:          "Login failed",
	OpDashboardStats: "Failed to load dashboard",
	OpListElections:  "Failed to load elections",
	OpListCandidates: "Failed to load candidates",
	OpCastVote:       "Failed to cast vote",
	OpResults:        "Failed to load results",
}

// APIError is a request the service answered and rejected.
// Message is the service's own text, suitable for display as is.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError is a request that got no usable answer: the service was
// unreachable, or the response could not be decoded.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

var errMalformed = errors.New("malformed response")

// Client is an HTTP client for the voting service API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	registry   prometheus.Registerer
	metrics    *metrics
	timeout    time.Duration
}

// ClientOption is a functional option for configuring a Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom *http.Client. It replaces the default client,
// including its logging transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger specifies the logger object to use for logging messages
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPromRegistry specifies the prometheus registry to use for metrics
func WithPromRegistry(registry prometheus.Registerer) ClientOption {
	return func(c *Client) {
		c.registry = registry
	}
}

// WithTimeout bounds each request. Zero leaves it to the transport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a client for the API rooted at baseURL
// (e.g., "http://localhost:5000/api").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: &middleware.LoggingTransport{Logger: c.logger},
			Timeout:   c.timeout,
		}
	}
	c.metrics = newMetrics(c.registry)
	return c
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks that the service is up. Corresponds to GET /health.
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var out models.HealthResponse
	if err := c.do(ctx, OpHealth, router.Health(), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register submits a new voter. Corresponds to POST /register.
// The input is sent as given; validation is the caller's job.
func (c *Client) Register(
	ctx context.Context,
	in models.RegistrationInput,
) (*models.RegisterResponse, error) {
	var out models.RegisterResponse
	if err := c.do(ctx, OpRegister, router.Register(), "", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a session. Corresponds to POST /login.
func (c *Client) Login(
	ctx context.Context,
	voterID, password string,
) (*models.Session, error) {
	var out models.LoginResponse
	req := models.LoginRequest{VoterID: voterID, Password: password}
	if err := c.do(ctx, OpLogin, router.Login(), "", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.Voter == nil || out.Voter.VoterID == "" {
		return nil, &NetworkError{
			Op:  OpLogin,
			Err: fmt.Errorf("%w: missing token or voter", errMalformed),
		}
	}
	return &models.Session{Voter: *out.Voter, Token: out.Token}, nil
}

// DashboardStats returns election counts and votes cast.
// Corresponds to GET /dashboard/stats.
func (c *Client) DashboardStats(
	ctx context.Context,
	token string,
) (*models.DashboardStats, error) {
	var out models.DashboardStatsBody
	if err := c.do(ctx, OpDashboardStats, router.DashboardStats(), token, nil, &out); err != nil {
		return nil, err
	}
	stats, ok := out.Stats()
	if !ok {
		return nil, &NetworkError{
			Op:  OpDashboardStats,
			Err: fmt.Errorf("%w: missing election counts", errMalformed),
		}
	}
	return &stats, nil
}

// ListElections returns elections with the given status.
// Corresponds to GET /elections?status={status}.
func (c *Client) ListElections(
	ctx context.Context,
	token, status string,
) ([]models.Election, error) {
	var out models.ElectionList
	if err := c.do(ctx, OpListElections, router.Elections(status), token, nil, &out); err != nil {
		return nil, err
	}
	if out.Elections == nil {
		return nil, &NetworkError{
			Op:  OpListElections,
			Err: fmt.Errorf("%w: missing elections", errMalformed),
		}
	}
	return *out.Elections, nil
}

// ListCandidates returns the candidates of one election.
// Corresponds to GET /elections/{id}/candidates.
func (c *Client) ListCandidates(
	ctx context.Context,
	token, electionID string,
) ([]models.Candidate, error) {
	var out models.CandidateList
	if err := c.do(ctx, OpListCandidates, router.Candidates(electionID), token, nil, &out); err != nil {
		return nil, err
	}
	if out.Candidates == nil {
		return nil, &NetworkError{
			Op:  OpListCandidates,
			Err: fmt.Errorf("%w: missing candidates", errMalformed),
		}
	}
	return *out.Candidates, nil
}

// CastVote records one vote. Corresponds to POST /vote.
// It is never retried.
func (c *Client) CastVote(
	ctx context.Context,
	token, electionID string,
	candidateID int64,
) (*models.VoteResponse, error) {
	var out models.VoteResponse
	req := models.VoteRequest{ElectionID: electionID, CandidateID: candidateID}
	if err := c.do(ctx, OpCastVote, router.Vote(), token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Results returns the tally of one election.
// Corresponds to GET /elections/{id}/results.
func (c *Client) Results(
	ctx context.Context,
	token, electionID string,
) (*models.ResultSet, error) {
	var out models.ResultSet
	if err := c.do(ctx, OpResults, router.Results(electionID), token, nil, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		return nil, &NetworkError{
			Op:  OpResults,
			Err: fmt.Errorf("%w: missing results", errMalformed),
		}
	}
	return &out, nil
}

// do sends one request and decodes a 2xx body into out.
// Any other status becomes an *APIError; anything that prevents reading a
// JSON answer becomes a *NetworkError.
func (c *Client) do(
	ctx context.Context,
	op string,
	route router.Route,
	token string,
	in, out any,
) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(op, err, time.Since(start))
	}()

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, route.URL(c.baseURL), body)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", auth.BearerHeader(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er models.ErrorResponse
		if err := json.Unmarshal(raw, &er); err != nil {
			return &NetworkError{
				Op:  op,
				Err: fmt.Errorf("%w: status %d: %v", errMalformed, resp.StatusCode, err),
			}
		}
		msg := er.Error
		if msg == "" {
			msg = fallbackMessages[op]
		}
		c.logger.Debug("request rejected",
			"op", op,
			"status", resp.StatusCode,
			"error", msg,
		)
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("%w: %v", errMalformed, err)}
		}
	}
	return nil
}

// IsMalformed reports whether err is a NetworkError caused by an undecodable response
func IsMalformed(err error) bool {
	return errors.Is(err, errMalformed)
}
