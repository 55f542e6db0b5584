package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielhkuo/voterauth/credentials"
	"github.com/danielhkuo/voterauth/flow"
	"github.com/danielhkuo/voterauth/models"
)

type stubAPI struct {
	voter     models.Voter
	authErr   error
	resendErr error
}

func (s *stubAPI) Authenticate(context.Context, models.Credentials) (models.Voter, error) {
	return s.voter, s.authErr
}

func (s *stubAPI) VerifyOTP(context.Context, string, string) (models.Voter, error) {
	return s.voter, nil
}

func (s *stubAPI) ResendOTP(context.Context, string) error {
	return s.resendErr
}

func (s *stubAPI) CastVote(context.Context, string) (models.Voter, error) {
	v := s.voter
	v.HasVoted = true
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	v.VotedAt = &now
	return v, nil
}

type serverErr string

func (e serverErr) Error() string         { return string(e) }
func (e serverErr) ServerMessage() string { return string(e) }

func newTestModel(api flow.API, opts ...flow.Option) (Model, *flow.Controller) {
	ctrl := flow.New(api, opts...)
	return New(ctrl), ctrl
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

// settle runs an action command synchronously and feeds its result back
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("Expected an action command")
	}
	msg := cmd()
	if _, ok := msg.(actionDoneMsg); !ok {
		t.Fatalf("Expected actionDoneMsg, got %T", msg)
	}
	return update(t, m, msg)
}

func fillSimple(m Model) {
	*m.values[credentials.KeyName] = "Asha Rao"
	*m.values[credentials.KeyPhoneNumber] = "9876543210"
}

func pendingVoter() models.Voter {
	return models.Voter{VoterID: "ABC1234567", Name: "Asha Rao", PhoneNumber: "9876543210"}
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(&stubAPI{})

	view := m.View()
	for _, want := range []string{"Voter Authentication", "1 Details", "2 OTP Verify", "3 Vote Status", "Mode: Simple", "Full name"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m, ctrl := newTestModel(&stubAPI{})
	*m.values[credentials.KeyName] = "typed before toggle"

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})

	if ctrl.State().AuthMode != flow.Enhanced {
		t.Fatal("Expected enhanced mode after ctrl+t")
	}
	if _, ok := m.values[credentials.KeyGovernmentID]; !ok {
		t.Error("Expected the form to be rebuilt with enhanced fields")
	}
	if _, ok := m.values[credentials.KeyName]; ok {
		t.Error("Expected simple form values to be discarded")
	}
	if !strings.Contains(m.View(), "Mode: Enhanced") {
		t.Error("Expected enhanced mode label")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if ctrl.State().AuthMode != flow.Simple {
		t.Error("Expected simple mode after second toggle")
	}
}

func TestModel_FullFlow(t *testing.T) {
	api := &stubAPI{voter: pendingVoter()}
	m, ctrl := newTestModel(api)

	// Credentials
	fillSimple(m)
	m, cmd := m.submit()
	if m.formErr != "" {
		t.Fatalf("Unexpected form error: %s", m.formErr)
	}
	m = settle(t, m, cmd)

	if ctrl.State().Step != flow.OTPVerification {
		t.Fatalf("Expected OTP step, got %v", ctrl.State().Step)
	}
	if !strings.Contains(m.View(), "******3210") {
		t.Error("Expected masked phone in OTP view")
	}
	if !m.otpInput.Focused() {
		t.Error("Expected OTP input to be focused")
	}

	// OTP
	m = update(t, m, keyRunes("123456"))
	if m.otpInput.Value() != "123456" {
		t.Fatalf("Expected typed code, got %q", m.otpInput.Value())
	}
	m, cmd = m.updateOTP(tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	if ctrl.State().Step != flow.StatusDisplay {
		t.Fatalf("Expected status step, got %v", ctrl.State().Step)
	}
	if view := m.View(); !strings.Contains(view, "Not yet voted") || !strings.Contains(view, "Press v") {
		t.Errorf("Expected eligible status view, got:\n%s", view)
	}

	// Vote
	m, cmd = m.updateStatus(keyRunes("v"))
	m = settle(t, m, cmd)

	if !ctrl.State().Voter.HasVoted {
		t.Fatal("Expected vote recorded")
	}
	if view := m.View(); !strings.Contains(view, "Voted") || !strings.Contains(view, "Thank you for voting") {
		t.Errorf("Expected voted status view, got:\n%s", view)
	}

	// Vote key is disabled once voted
	if m.keys.Vote.Enabled() {
		t.Error("Expected vote binding disabled after voting")
	}

	// Start over
	m = update(t, m, keyRunes("r"))
	if s := ctrl.State(); s.Step != flow.CredentialsEntry || s.Voter != nil {
		t.Errorf("Expected reset state, got %+v", s)
	}
	if *m.values[credentials.KeyName] != "" {
		t.Error("Expected empty form after reset")
	}
}

func TestModel_SubmitValidationError(t *testing.T) {
	api := &stubAPI{voter: pendingVoter()}
	m, ctrl := newTestModel(api)

	*m.values[credentials.KeyName] = "Asha Rao"
	*m.values[credentials.KeyPhoneNumber] = "123"

	m, cmd := m.submit()
	if m.formErr == "" {
		t.Fatal("Expected a form error for a short phone number")
	}
	if cmd == nil {
		t.Fatal("Expected form init command")
	}
	if ctrl.State().Step != flow.CredentialsEntry || ctrl.State().Loading {
		t.Error("Expected no remote call on invalid input")
	}
	if *m.values[credentials.KeyName] != "Asha Rao" {
		t.Error("Expected values kept after a validation error")
	}
}

func TestModel_ErrorBannerAndDismiss(t *testing.T) {
	api := &stubAPI{authErr: serverErr("No voter found with these details.")}
	m, ctrl := newTestModel(api)

	fillSimple(m)
	m, cmd := m.submit()
	m = settle(t, m, cmd)

	if !strings.Contains(m.View(), "No voter found with these details.") {
		t.Fatal("Expected server message in the error banner")
	}
	if !m.keys.Dismiss.Enabled() {
		t.Error("Expected dismiss binding enabled while an error shows")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if ctrl.State().Error != "" {
		t.Error("Expected error dismissed")
	}
	if strings.Contains(m.View(), "No voter found") {
		t.Error("Expected banner gone after dismiss")
	}
}

func TestModel_BackFromOTP(t *testing.T) {
	api := &stubAPI{voter: pendingVoter()}
	m, ctrl := newTestModel(api)

	fillSimple(m)
	m, cmd := m.submit()
	m = settle(t, m, cmd)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if s := ctrl.State(); s.Step != flow.CredentialsEntry || s.Voter != nil {
		t.Errorf("Expected back at credentials with no voter, got %+v", s)
	}
	if m.otpInput.Focused() {
		t.Error("Expected OTP input blurred after back")
	}
}

func TestModel_VerifyNeedsSixDigits(t *testing.T) {
	api := &stubAPI{voter: pendingVoter()}
	m, _ := newTestModel(api)

	fillSimple(m)
	m, cmd := m.submit()
	m = settle(t, m, cmd)

	m = update(t, m, keyRunes("123"))
	m, cmd = m.updateOTP(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Expected no verify call for a partial code")
	}
	if m.otpInput.Err == nil {
		t.Error("Expected an input error")
	}
}

func TestModel_ResendNotice(t *testing.T) {
	api := &stubAPI{voter: pendingVoter()}
	bridge := NewBridge()
	msgs := make(chan tea.Msg, 1)
	bridge.attach(func(msg tea.Msg) { msgs <- msg })

	m, ctrl := newTestModel(api, flow.WithNotifier(bridge))

	fillSimple(m)
	m, cmd := m.submit()
	m = settle(t, m, cmd)

	_, resendCmd := m.updateOTP(tea.KeyMsg{Type: tea.KeyCtrlR})
	done := make(chan tea.Msg, 1)
	go func() { done <- resendCmd() }()

	var notice tea.Msg
	select {
	case notice = <-msgs:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the notice")
	}

	m = update(t, m, notice)
	if !strings.Contains(m.View(), flow.MsgOTPResent) {
		t.Error("Expected notice text in view")
	}
	if !ctrl.State().Loading {
		t.Error("Expected loading to stay on while the notice is shown")
	}

	select {
	case <-done:
		t.Fatal("Resend returned before the notice was acknowledged")
	case <-time.After(20 * time.Millisecond):
	}

	m = update(t, m, keyRunes(" "))
	if m.notice != nil {
		t.Error("Expected notice cleared by key press")
	}

	select {
	case msg := <-done:
		if res := msg.(actionDoneMsg); res.err != nil {
			t.Errorf("Resend failed: %v", res.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Resend did not finish after acknowledgement")
	}

	if s := ctrl.State(); s.Loading || s.Step != flow.OTPVerification {
		t.Errorf("Unexpected state after resend: %+v", s)
	}
}

func TestBridge_NotifyWithoutProgram(t *testing.T) {
	if err := NewBridge().Notify(context.Background(), "hello"); err != nil {
		t.Errorf("Expected detached bridge to skip the notice, got %v", err)
	}
}

func TestBridge_NotifyCancelled(t *testing.T) {
	bridge := NewBridge()
	bridge.attach(func(tea.Msg) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bridge.Notify(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestModel_QuitCancelsCalls(t *testing.T) {
	m, _ := newTestModel(&stubAPI{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("Expected model context cancelled on quit")
	}
}

type formDoneMsg struct{}

func TestModel_CompleteFormKeepsFormCommand(t *testing.T) {
	m, _ := newTestModel(&stubAPI{voter: pendingVoter()})
	fillSimple(m)

	formCmd := func() tea.Msg { return formDoneMsg{} }
	m, cmd := m.completeForm(formCmd)
	if cmd == nil {
		t.Fatal("Expected a batched command")
	}

	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("Expected tea.BatchMsg, got %T", cmd())
	}

	var sawForm, sawAction bool
	for _, c := range batch {
		switch c().(type) {
		case formDoneMsg:
			sawForm = true
		case actionDoneMsg:
			sawAction = true
		}
	}
	if !sawForm || !sawAction {
		t.Errorf("Expected form and submit commands, got form=%v action=%v", sawForm, sawAction)
	}
}

func enabledHelpKeys(k keyMap) []string {
	var keys []string
	for _, b := range k.ShortHelp() {
		if b.Enabled() {
			keys = append(keys, b.Help().Key)
		}
	}
	return keys
}

func TestModel_QuitKeyOnStatusStep(t *testing.T) {
	voted := pendingVoter()
	voted.HasVoted = true
	m, ctrl := newTestModel(&stubAPI{voter: voted})

	// q is ordinary text while entering credentials
	m = update(t, m, keyRunes("q"))
	if m.ctx.Err() != nil {
		t.Fatal("Expected q not to quit on the credentials step")
	}
	if help := strings.Join(enabledHelpKeys(m.keys), " "); !strings.Contains(help, "ctrl+c") {
		t.Errorf("Expected ctrl+c in help, got %q", help)
	}

	fillSimple(m)
	m, cmd := m.submit()
	m = settle(t, m, cmd)
	if ctrl.State().Step != flow.StatusDisplay {
		t.Fatalf("Expected status step, got %v", ctrl.State().Step)
	}

	found := false
	for _, k := range enabledHelpKeys(m.keys) {
		if k == "q" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected q in help on the status step, got %v", enabledHelpKeys(m.keys))
	}

	_, cmd = m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("Expected model context cancelled on quit")
	}
}
