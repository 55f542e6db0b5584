// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/voterauth/models"
)

var (
	ErrBusy         = errors.New("another request is in flight")
	ErrWrongStep    = errors.New("action not available at the current step")
	ErrNoVoter      = errors.New("no voter record")
	ErrAlreadyVoted = errors.New("voter has already voted")
	ErrStale        = errors.New("response discarded after reset")
)

// API is the remote authentication and voting service.
type API interface {
	Authenticate(ctx context.Context, creds models.Credentials) (models.Voter, error)
	VerifyOTP(ctx context.Context, phoneNumber, otp string) (models.Voter, error)
	ResendOTP(ctx context.Context, phoneNumber string) error
	CastVote(ctx context.Context, voterID string) (models.Voter, error)
}

// Notifier shows a message and blocks until the voter acknowledges it.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string) error

func (f NotifierFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets the notifier used to acknowledge a resent OTP.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithCallTimeout bounds every remote call. Zero means no bound.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Controller) { c.callTimeout = d }
}

// WithObserver registers fn to be called with a copy of the state after
// every committed change.
func WithObserver(fn func(FlowState)) Option {
	return func(c *Controller) { c.observers = append(c.observers, fn) }
}

// WithAuthMode sets the initial auth mode.
func WithAuthMode(m AuthMode) Option {
	return func(c *Controller) { c.state.AuthMode = m }
}

// Controller owns FlowState and drives the remote API.
//
// Each remote action captures a generation number when it starts. Reset,
// Back and ToggleMode advance the generation, so a response that settles
// afterwards is dropped instead of overwriting the fresh state.
type Controller struct {
	api         API
	notifier    Notifier
	logger      *slog.Logger
	callTimeout time.Duration
	observers   []func(FlowState)

	mu    sync.Mutex
	state FlowState
	gen   uint64
}

// New creates a controller in the initial state.
func New(api API, opts ...Option) *Controller {
	c := &Controller{
		api:   api,
		state: Initial(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(context.Context, string) error { return nil })
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Submit sends credentials to the login endpoint.
func (c *Controller) Submit(ctx context.Context, creds models.Credentials) error {
	gen, _, err := c.begin(ActionAuthenticate, CredentialsEntry, nil)
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	voter, err := c.api.Authenticate(callCtx, creds)
	if err != nil {
		return c.fail(gen, ActionAuthenticate, err)
	}
	return c.commit(gen, Authenticated{Voter: voter})
}

// Verify checks the one-time code for the stored voter's phone number.
func (c *Controller) Verify(ctx context.Context, code string) error {
	gen, voter, err := c.begin(ActionVerifyOTP, OTPVerification, nil)
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	updated, err := c.api.VerifyOTP(callCtx, voter.PhoneNumber, code)
	if err != nil {
		return c.fail(gen, ActionVerifyOTP, err)
	}
	return c.commit(gen, OTPVerified{Voter: updated})
}

// Resend asks the service to send a new code to the stored phone number.
func (c *Controller) Resend(ctx context.Context) error {
	gen, voter, err := c.begin(ActionResendOTP, OTPVerification, func(s FlowState) (string, error) {
		if s.Voter == nil {
			return MsgNoVoterForResend, ErrNoVoter
		}
		return "", nil
	})
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.api.ResendOTP(callCtx, voter.PhoneNumber); err != nil {
		return c.fail(gen, ActionResendOTP, err)
	}

	if !c.current(gen) {
		return ErrStale
	}
	if err := c.notifier.Notify(ctx, MsgOTPResent); err != nil {
		c.logger.Warn("otp resend acknowledgement failed", "error", err)
	}
	return c.commit(gen, OTPResent{})
}

// CastVote records the stored voter's vote.
func (c *Controller) CastVote(ctx context.Context) error {
	gen, voter, err := c.begin(ActionCastVote, StatusDisplay, func(s FlowState) (string, error) {
		if s.Voter == nil {
			return MsgCannotVote, ErrNoVoter
		}
		if s.Voter.HasVoted {
			return MsgCannotVote, ErrAlreadyVoted
		}
		return "", nil
	})
	if err != nil {
		return err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	updated, err := c.api.CastVote(callCtx, voter.VoterID)
	if err != nil {
		return c.fail(gen, ActionCastVote, err)
	}
	return c.commit(gen, VoteRecorded{Voter: updated})
}

// Back leaves OTP verification and returns to the credentials step.
func (c *Controller) Back() {
	c.restart(ResetRequested{}, "back")
}

// Reset returns to the initial state, keeping the auth mode.
func (c *Controller) Reset() {
	c.restart(ResetRequested{}, "reset")
}

// ToggleMode flips between simple and enhanced credentials and resets.
func (c *Controller) ToggleMode() {
	c.restart(ModeToggled{}, "toggle_mode")
}

// DismissError clears the error banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.state = Reduce(c.state, ErrorDismissed{})
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.notify(snapshot)
}

func (c *Controller) restart(ev Event, reason string) {
	c.mu.Lock()
	c.gen++
	c.state = Reduce(c.state, ev)
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.logger.Info("flow reset", "reason", reason, "auth_mode", snapshot.AuthMode.String())
	c.notify(snapshot)
}

// begin validates an action against the current state and marks it loading.
// precondition runs before the step check so that a missing voter record is
// always reported to the voter.
func (c *Controller) begin(action Action, want Step, precondition func(FlowState) (string, error)) (uint64, models.Voter, error) {
	c.mu.Lock()

	if c.state.Loading {
		c.mu.Unlock()
		return 0, models.Voter{}, ErrBusy
	}

	if precondition != nil {
		if msg, err := precondition(c.state); err != nil {
			c.state = Reduce(c.state, Rejected{Message: msg})
			snapshot := c.state.clone()
			c.mu.Unlock()

			c.logger.Info("action rejected", "action", action.String(), "error", err)
			c.notify(snapshot)
			return 0, models.Voter{}, err
		}
	}

	if c.state.Step != want {
		step := c.state.Step
		c.mu.Unlock()
		c.logger.Debug("action ignored", "action", action.String(), "step", step.String())
		return 0, models.Voter{}, ErrWrongStep
	}

	var voter models.Voter
	if c.state.Voter != nil {
		voter = *c.state.Voter
	}

	c.state = Reduce(c.state, Started{})
	gen := c.gen
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.logger.Info("action started", "action", action.String(), "step", snapshot.Step.String())
	c.notify(snapshot)
	return gen, voter, nil
}

// commit applies ev if gen is still current.
func (c *Controller) commit(gen uint64, ev Event) error {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Info("stale response dropped", "generation", gen)
		return ErrStale
	}
	c.state = Reduce(c.state, ev)
	snapshot := c.state.clone()
	c.mu.Unlock()

	c.logger.Info("action settled", "step", snapshot.Step.String(), "has_voter", snapshot.HasVoter())
	c.notify(snapshot)
	return nil
}

func (c *Controller) fail(gen uint64, action Action, err error) error {
	msg := MessageFor(action, err)
	c.logger.Warn("action failed", "action", action.String(), "error", err)
	if cerr := c.commit(gen, Failed{Message: msg}); cerr != nil {
		return cerr
	}
	return err
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout > 0 {
		return context.WithTimeout(ctx, c.callTimeout)
	}
	return context.WithCancel(ctx)
}

func (c *Controller) notify(s FlowState) {
	for _, fn := range c.observers {
		fn(s.clone())
	}
}
