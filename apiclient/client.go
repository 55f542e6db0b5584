// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voterauth/models"
)

// Endpoint paths
const (
	PathLogin     = "/api/auth/login"
	PathVerifyOTP = "/api/auth/verify-otp"
	PathResendOTP = "/api/auth/resend-otp"
	PathCastVote  = "/api/vote/cast"
)

// HeaderRequestID carries a per-call identifier for log correlation.
const HeaderRequestID = "X-Request-ID"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client talks to the voter authentication service over HTTP+JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu    sync.Mutex
	token string
	// session advances on ClearSession. Responses started under an older
	// session do not write the token or echoed code.
	session uint64
	// lastOTP is the code echoed by a development server, if any.
	lastOTP string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate posts credentials verbatim to the login endpoint.
func (c *Client) Authenticate(ctx context.Context, creds models.Credentials) (models.Voter, error) {
	session := c.currentSession()
	var resp models.LoginResponse
	if err := c.post(ctx, "authenticate", PathLogin, creds, &resp); err != nil {
		return models.Voter{}, err
	}
	c.rememberOTP(session, resp.OTPForTesting)
	return resp.Voter, nil
}

// VerifyOTP checks a code and stores the returned session token, unless
// ClearSession ran while the call was in flight.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) (models.Voter, error) {
	session := c.currentSession()
	var resp models.VerifyOTPResponse
	req := models.VerifyOTPRequest{PhoneNumber: phoneNumber, OTP: otp}
	if err := c.post(ctx, "verify_otp", PathVerifyOTP, req, &resp); err != nil {
		return models.Voter{}, err
	}

	c.mu.Lock()
	if session == c.session {
		c.token = resp.Token
	} else {
		c.logger.Info("session token discarded after session cleared", "op", "verify_otp")
	}
	c.mu.Unlock()

	return resp.Voter, nil
}

// ResendOTP asks for a new code for phoneNumber.
func (c *Client) ResendOTP(ctx context.Context, phoneNumber string) error {
	session := c.currentSession()
	var resp models.ResendOTPResponse
	req := models.ResendOTPRequest{PhoneNumber: phoneNumber}
	if err := c.post(ctx, "resend_otp", PathResendOTP, req, &resp); err != nil {
		return err
	}
	c.rememberOTP(session, resp.OTPForTesting)
	return nil
}

// CastVote records a vote for voterID using the session token from VerifyOTP.
func (c *Client) CastVote(ctx context.Context, voterID string) (models.Voter, error) {
	var resp models.CastVoteResponse
	req := models.CastVoteRequest{VoterID: voterID}
	if err := c.post(ctx, "cast_vote", PathCastVote, req, &resp); err != nil {
		return models.Voter{}, err
	}
	return resp.Voter, nil
}

// LastOTPForTesting returns the most recent code echoed by a development
// server. It is empty against a real deployment.
func (c *Client) LastOTPForTesting() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOTP
}

// ClearSession forgets the session token. Calls already in flight can no
// longer store one.
func (c *Client) ClearSession() {
	c.mu.Lock()
	c.session++
	c.token = ""
	c.lastOTP = ""
	c.mu.Unlock()
}

func (c *Client) currentSession() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) rememberOTP(session uint64, code string) {
	if code == "" {
		return
	}
	c.mu.Lock()
	if session == c.session {
		c.lastOTP = code
	}
	c.mu.Unlock()
}

func (c *Client) post(ctx context.Context, op, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &Error{Kind: KindDecode, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "op", op, "request_id", requestID, "error", err)
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Info("request completed",
		"op", op,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		// A non-JSON error body still yields a remote error, just without a message
		_ = json.Unmarshal(body, &apiErr)
		return &Error{
			Kind:    KindRemote,
			Op:      op,
			Status:  resp.StatusCode,
			Message: apiErr.Error,
			Err:     errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}
