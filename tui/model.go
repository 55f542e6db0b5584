// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/danielhkuo/voterauth/credentials"
	"github.com/danielhkuo/voterauth/flow"
	"github.com/danielhkuo/voterauth/models"
)

// Flow is the part of *flow.Controller the interface drives.
type Flow interface {
	State() flow.FlowState
	Submit(ctx context.Context, creds models.Credentials) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	CastVote(ctx context.Context) error
	Back()
	Reset()
	ToggleMode()
	DismissError()
}

// actionDoneMsg reports that a remote action settled.
type actionDoneMsg struct {
	action flow.Action
	err    error
}

// Model is the bubbletea model for the voter client.
type Model struct {
	flow   Flow
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	state flow.FlowState

	// Components
	help    help.Model
	keys    keyMap
	spinner spinner.Model

	// Credentials step
	form    *huh.Form
	values  map[string]*string
	formErr string

	// OTP step
	otpInput textinput.Model

	notice *noticeMsg

	width int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithContext sets the parent context for remote calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// New builds the model around f. The model reads f's state after every
// message, so it needs no observer.
func New(f Flow, opts ...Option) Model {
	m := Model{
		flow:   f,
		ctx:    context.Background(),
		now:    time.Now,
		help:   help.New(),
		keys:   defaultKeyMap(),
		values: make(map[string]*string),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.ctx, m.cancel = context.WithCancel(m.ctx)

	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))

	ti := textinput.New()
	ti.Placeholder = "6 digit code"
	ti.CharLimit = 6
	ti.Width = 10
	ti.Validate = digitsOnly
	m.otpInput = ti

	m.state = f.State()
	m.keys.applyState(m.state)
	m.form = m.buildForm(m.state.AuthMode)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.form.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.state
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case noticeMsg:
		m.notice = &msg
		return m, nil

	case actionDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, flow.ErrStale) {
			m.logger.Debug("action finished with error", "action", msg.action.String(), "error", msg.err)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.cancel()
			return m, tea.Quit
		}

		// A notice swallows the next key press
		if m.notice != nil {
			close(m.notice.ack)
			m.notice = nil
			return m, nil
		}

		if key.Matches(msg, m.keys.Dismiss) {
			m.flow.DismissError()
			return m.sync(prev)
		}

		var cmd tea.Cmd
		m, cmd = m.updateStep(msg)
		cmds = append(cmds, cmd)
		m, cmd = m.sync(prev)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m, cmd = m.sync(prev)
	cmds = append(cmds, cmd)

	// Forms and text inputs also need non-key messages (cursor blink etc.)
	m, cmd = m.updateInputs(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// sync refreshes the state snapshot and resets inputs on step changes.
func (m Model) sync(prev flow.FlowState) (Model, tea.Cmd) {
	m.state = m.flow.State()
	m.keys.applyState(m.state)

	var cmds []tea.Cmd
	s := m.state

	// Reset, back and mode toggle all start from an empty form
	if s.AuthMode != prev.AuthMode || (s.Step == flow.CredentialsEntry && prev.Step != flow.CredentialsEntry) {
		m.values = make(map[string]*string)
		m.formErr = ""
		m.form = m.buildForm(s.AuthMode)
		cmds = append(cmds, m.form.Init())
	}

	if s.Step == flow.CredentialsEntry && !s.Loading && m.form.State != huh.StateNormal {
		// A completed form cannot take input again; rebuild it with the same values
		m.form = m.buildForm(s.AuthMode)
		cmds = append(cmds, m.form.Init())
	}

	if s.Step == flow.OTPVerification && prev.Step != flow.OTPVerification {
		m.otpInput.Reset()
		cmds = append(cmds, m.otpInput.Focus())
	}
	if s.Step != flow.OTPVerification {
		m.otpInput.Blur()
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateStep(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.state.Step {
	case flow.CredentialsEntry:
		return m.updateCredentials(msg)
	case flow.OTPVerification:
		return m.updateOTP(msg)
	case flow.StatusDisplay:
		return m.updateStatus(msg)
	}
	return m, nil
}

func (m Model) updateCredentials(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}

	if key.Matches(msg, m.keys.ToggleMode) {
		m.flow.ToggleMode()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		if m.form.State == huh.StateCompleted {
			return m.completeForm(cmd)
		}
	}
	return m, cmd
}

// completeForm submits a finished form alongside the form's own last command.
func (m Model) completeForm(formCmd tea.Cmd) (Model, tea.Cmd) {
	m, cmd := m.submit()
	return m, tea.Batch(formCmd, cmd)
}

// submit validates the collected values and starts authentication.
func (m Model) submit() (Model, tea.Cmd) {
	collector := m.collector(m.state.AuthMode)

	creds, err := collector.Collect(m.plainValues())
	if err != nil {
		m.formErr = err.Error()
		m.form = m.buildForm(m.state.AuthMode)
		return m, m.form.Init()
	}

	m.formErr = ""
	return m, m.run(flow.ActionAuthenticate, func(ctx context.Context) error {
		return m.flow.Submit(ctx, creds)
	})
}

func (m Model) updateOTP(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.flow.Back()
		return m, nil

	case key.Matches(msg, m.keys.Resend):
		return m, m.run(flow.ActionResendOTP, m.flow.Resend)

	case key.Matches(msg, m.keys.Verify):
		code := m.otpInput.Value()
		if len(code) != 6 {
			m.otpInput.Err = errors.New("enter all 6 digits")
			return m, nil
		}
		m.otpInput.Err = nil
		return m, m.run(flow.ActionVerifyOTP, func(ctx context.Context) error {
			return m.flow.Verify(ctx, code)
		})
	}

	var cmd tea.Cmd
	m.otpInput, cmd = m.otpInput.Update(msg)
	return m, cmd
}

func (m Model) updateStatus(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.state.Loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Vote):
		return m, m.run(flow.ActionCastVote, m.flow.CastVote)
	case key.Matches(msg, m.keys.Reset):
		m.flow.Reset()
	}
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.Step {
	case flow.CredentialsEntry:
		if m.form.State == huh.StateNormal {
			var form tea.Model
			form, cmd = m.form.Update(msg)
			if f, ok := form.(*huh.Form); ok {
				m.form = f
			}
		}
	case flow.OTPVerification:
		m.otpInput, cmd = m.otpInput.Update(msg)
	}
	return m, cmd
}

// run executes a controller action off the event loop.
func (m Model) run(action flow.Action, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

func (m Model) collector(mode flow.AuthMode) credentials.Collector {
	c := credentials.For(mode.String())
	if e, ok := c.(credentials.Enhanced); ok {
		e.Now = m.now
		return e
	}
	return c
}

func (m Model) plainValues() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = *v
	}
	return out
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("digits only")
		}
	}
	return nil
}
