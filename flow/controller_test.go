package flow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/voterauth/models"
)

type remoteError struct{ msg string }

func (e *remoteError) Error() string         { return "remote: " + e.msg }
func (e *remoteError) ServerMessage() string { return e.msg }

type fakeAPI struct {
	mu sync.Mutex

	authVoter   models.Voter
	authErr     error
	verifyVoter models.Voter
	verifyErr   error
	resendErr   error
	castVoter   models.Voter
	castErr     error

	calls      map[string]int
	gotCreds   models.Credentials
	gotPhone   string
	gotOTP     string
	gotVoterID string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) Authenticate(ctx context.Context, creds models.Credentials) (models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["authenticate"]++
	f.gotCreds = creds
	return f.authVoter, f.authErr
}

func (f *fakeAPI) VerifyOTP(ctx context.Context, phone, otp string) (models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["verify"]++
	f.gotPhone, f.gotOTP = phone, otp
	return f.verifyVoter, f.verifyErr
}

func (f *fakeAPI) ResendOTP(ctx context.Context, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["resend"]++
	f.gotPhone = phone
	return f.resendErr
}

func (f *fakeAPI) CastVote(ctx context.Context, voterID string) (models.Voter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["cast"]++
	f.gotVoterID = voterID
	return f.castVoter, f.castErr
}

func TestScenario(t *testing.T) {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "9999999999"}
	api.verifyVoter = models.Voter{VoterID: "V1", PhoneNumber: "9999999999"}
	api.castVoter = models.Voter{VoterID: "V1", PhoneNumber: "9999999999", HasVoted: true}

	ctrl := New(api)
	ctx := context.Background()

	creds := models.Credentials{"phone_number": "9999999999", "name": "Asha"}
	if err := ctrl.Submit(ctx, creds); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	s := ctrl.State()
	if s.Step != OTPVerification || s.Voter.VoterID != "V1" {
		t.Fatalf("Expected OTP step with V1, got %+v", s)
	}
	if api.gotCreds["phone_number"] != "9999999999" || api.gotCreds["name"] != "Asha" {
		t.Errorf("Credentials not forwarded verbatim: %v", api.gotCreds)
	}

	if err := ctrl.Verify(ctx, "123456"); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if api.gotPhone != "9999999999" || api.gotOTP != "123456" {
		t.Errorf("Unexpected verify args %q %q", api.gotPhone, api.gotOTP)
	}
	if s := ctrl.State(); s.Step != StatusDisplay {
		t.Fatalf("Expected status step, got %v", s.Step)
	}

	if err := ctrl.CastVote(ctx); err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	s = ctrl.State()
	if !s.Voter.HasVoted || s.Step != StatusDisplay || s.Loading {
		t.Errorf("Expected voted voter in status step, got %+v", s)
	}
	if api.gotVoterID != "V1" {
		t.Errorf("Expected cast for V1, got %q", api.gotVoterID)
	}
}

func TestSubmitAlreadyVoted(t *testing.T) {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V2", HasVoted: true}
	ctrl := New(api)

	if err := ctrl.Submit(context.Background(), models.Credentials{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	s := ctrl.State()
	if s.Step != StatusDisplay || !s.Voter.HasVoted {
		t.Errorf("Expected status display for voted voter, got %+v", s)
	}

	// OTP and credentials steps are unreachable for this record
	if err := ctrl.Verify(context.Background(), "000000"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if err := ctrl.Submit(context.Background(), models.Credentials{}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if api.count("verify") != 0 || api.count("authenticate") != 1 {
		t.Errorf("Unexpected calls %v", api.calls)
	}
}

func TestFailuresKeepStep(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(api *fakeAPI, ctrl *Controller)
		act      func(ctrl *Controller) error
		wantStep Step
		wantMsg  string
	}{
		{
			name:     "authenticate with server message",
			setup:    func(api *fakeAPI, ctrl *Controller) { api.authErr = &remoteError{"Voter not found"} },
			act:      func(ctrl *Controller) error { return ctrl.Submit(ctx, models.Credentials{}) },
			wantStep: CredentialsEntry,
			wantMsg:  "Voter not found",
		},
		{
			name:     "authenticate network failure",
			setup:    func(api *fakeAPI, ctrl *Controller) { api.authErr = errors.New("connection refused") },
			act:      func(ctrl *Controller) error { return ctrl.Submit(ctx, models.Credentials{}) },
			wantStep: CredentialsEntry,
			wantMsg:  "Authentication failed. Please try again.",
		},
		{
			name: "verify failure",
			setup: func(api *fakeAPI, ctrl *Controller) {
				api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
				ctrl.Submit(ctx, models.Credentials{})
				api.verifyErr = errors.New("timeout")
			},
			act:      func(ctrl *Controller) error { return ctrl.Verify(ctx, "1") },
			wantStep: OTPVerification,
			wantMsg:  "Verification failed. Please try again.",
		},
		{
			name: "resend failure",
			setup: func(api *fakeAPI, ctrl *Controller) {
				api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
				ctrl.Submit(ctx, models.Credentials{})
				api.resendErr = &remoteError{""}
			},
			act:      func(ctrl *Controller) error { return ctrl.Resend(ctx) },
			wantStep: OTPVerification,
			wantMsg:  "Failed to resend OTP.",
		},
		{
			name: "cast failure",
			setup: func(api *fakeAPI, ctrl *Controller) {
				api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
				api.verifyVoter = api.authVoter
				ctrl.Submit(ctx, models.Credentials{})
				ctrl.Verify(ctx, "1")
				api.castErr = errors.New("boom")
			},
			act:      func(ctrl *Controller) error { return ctrl.CastVote(ctx) },
			wantStep: StatusDisplay,
			wantMsg:  "Failed to update voting status.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			ctrl := New(api)
			tt.setup(api, ctrl)

			if err := tt.act(ctrl); err == nil {
				t.Fatal("Expected error")
			}

			s := ctrl.State()
			if s.Step != tt.wantStep {
				t.Errorf("Expected step %v, got %v", tt.wantStep, s.Step)
			}
			if s.Error != tt.wantMsg {
				t.Errorf("Expected error %q, got %q", tt.wantMsg, s.Error)
			}
			if s.Loading {
				t.Error("Expected loading to be false after failure")
			}
		})
	}
}

func TestNewActionClearsError(t *testing.T) {
	api := newFakeAPI()
	api.authErr = errors.New("down")
	ctrl := New(api)

	ctrl.Submit(context.Background(), models.Credentials{})
	if ctrl.State().Error == "" {
		t.Fatal("Expected error after failed submit")
	}

	api.authErr = nil
	api.authVoter = models.Voter{VoterID: "V1"}
	if err := ctrl.Submit(context.Background(), models.Credentials{}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if s := ctrl.State(); s.Error != "" {
		t.Errorf("Expected error cleared, got %q", s.Error)
	}
}

func TestBackClearsEverything(t *testing.T) {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
	api.verifyErr = errors.New("nope")
	ctrl := New(api, WithAuthMode(Enhanced))

	ctrl.Submit(context.Background(), models.Credentials{})
	ctrl.Verify(context.Background(), "bad")

	ctrl.Back()

	s := ctrl.State()
	if s.Step != CredentialsEntry || s.Voter != nil || s.Error != "" || s.Loading {
		t.Errorf("Expected clean credentials step, got %+v", s)
	}
	if s.AuthMode != Enhanced {
		t.Errorf("Expected auth mode kept, got %v", s.AuthMode)
	}
}

func TestResendWithoutVoter(t *testing.T) {
	api := newFakeAPI()
	ctrl := New(api)

	err := ctrl.Resend(context.Background())
	if !errors.Is(err, ErrNoVoter) {
		t.Fatalf("Expected ErrNoVoter, got %v", err)
	}
	if s := ctrl.State(); s.Error != MsgNoVoterForResend || s.Loading {
		t.Errorf("Unexpected state %+v", s)
	}
	if api.count("resend") != 0 {
		t.Error("Expected no network call")
	}
}

func TestResendNotifies(t *testing.T) {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "9999999999"}

	var notified []string
	var loadingDuringNotify bool
	var ctrl *Controller
	ctrl = New(api, WithNotifier(NotifierFunc(func(ctx context.Context, msg string) error {
		notified = append(notified, msg)
		loadingDuringNotify = ctrl.State().Loading
		return nil
	})))

	ctrl.Submit(context.Background(), models.Credentials{})
	if err := ctrl.Resend(context.Background()); err != nil {
		t.Fatalf("Resend failed: %v", err)
	}

	if len(notified) != 1 || notified[0] != MsgOTPResent {
		t.Errorf("Expected one resend notice, got %v", notified)
	}
	if !loadingDuringNotify {
		t.Error("Expected loading while acknowledgement is pending")
	}
	s := ctrl.State()
	if s.Step != OTPVerification || s.Loading {
		t.Errorf("Unexpected state %+v", s)
	}
	if api.gotPhone != "9999999999" {
		t.Errorf("Expected resend to stored phone, got %q", api.gotPhone)
	}
}

func TestCastVoteGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("no voter", func(t *testing.T) {
		api := newFakeAPI()
		ctrl := New(api)

		if err := ctrl.CastVote(ctx); !errors.Is(err, ErrNoVoter) {
			t.Fatalf("Expected ErrNoVoter, got %v", err)
		}
		if ctrl.State().Error != MsgCannotVote {
			t.Errorf("Expected %q, got %q", MsgCannotVote, ctrl.State().Error)
		}
		if api.count("cast") != 0 {
			t.Error("Expected no network call")
		}
	})

	t.Run("already voted", func(t *testing.T) {
		api := newFakeAPI()
		api.authVoter = models.Voter{VoterID: "V1", HasVoted: true}
		ctrl := New(api)
		ctrl.Submit(ctx, models.Credentials{})

		if err := ctrl.CastVote(ctx); !errors.Is(err, ErrAlreadyVoted) {
			t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
		}
		s := ctrl.State()
		if s.Error != MsgCannotVote || s.Loading || s.Step != StatusDisplay {
			t.Errorf("Unexpected state %+v", s)
		}
		if api.count("cast") != 0 {
			t.Error("Expected no network call")
		}
	})
}

func TestToggleModeResets(t *testing.T) {
	for _, step := range Steps {
		t.Run(step.String(), func(t *testing.T) {
			api := newFakeAPI()
			api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
			api.verifyVoter = api.authVoter
			ctrl := New(api)

			ctx := context.Background()
			if step >= OTPVerification {
				ctrl.Submit(ctx, models.Credentials{})
			}
			if step == StatusDisplay {
				ctrl.Verify(ctx, "1")
			}
			if ctrl.State().Step != step {
				t.Fatalf("Setup reached %v, want %v", ctrl.State().Step, step)
			}

			ctrl.ToggleMode()
			s := ctrl.State()
			if s.Step != CredentialsEntry || s.Voter != nil || s.AuthMode != Enhanced {
				t.Errorf("Unexpected state after toggle %+v", s)
			}

			ctrl.ToggleMode()
			if got := ctrl.State(); got != Initial() {
				t.Errorf("Expected initial state after second toggle, got %+v", got)
			}
		})
	}
}

// blockingAPI holds Authenticate until release is closed.
type blockingAPI struct {
	*fakeAPI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) Authenticate(ctx context.Context, creds models.Credentials) (models.Voter, error) {
	close(b.entered)
	select {
	case <-b.release:
	case <-ctx.Done():
		return models.Voter{}, ctx.Err()
	}
	return b.fakeAPI.Authenticate(ctx, creds)
}

func newBlockingAPI() *blockingAPI {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V1", PhoneNumber: "1"}
	return &blockingAPI{
		fakeAPI: api,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func TestStaleResponseDropped(t *testing.T) {
	api := newBlockingAPI()
	ctrl := New(api)

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Submit(context.Background(), models.Credentials{})
	}()

	<-api.entered
	if !ctrl.State().Loading {
		t.Fatal("Expected loading while call is in flight")
	}

	ctrl.Reset()
	close(api.release)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Fatalf("Expected ErrStale, got %v", err)
	}
	if s := ctrl.State(); s != Initial() {
		t.Errorf("Expected initial state, got %+v", s)
	}
}

func TestBusyRejectsSecondCall(t *testing.T) {
	api := newBlockingAPI()
	ctrl := New(api)

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Submit(context.Background(), models.Credentials{})
	}()
	<-api.entered

	if err := ctrl.Submit(context.Background(), models.Credentials{}); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("First submit failed: %v", err)
	}
	if api.count("authenticate") != 1 {
		t.Errorf("Expected one call, got %d", api.count("authenticate"))
	}
}

func TestCallTimeout(t *testing.T) {
	api := newBlockingAPI()
	ctrl := New(api, WithCallTimeout(20*time.Millisecond))

	err := ctrl.Submit(context.Background(), models.Credentials{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	s := ctrl.State()
	if s.Loading || s.Error != "Authentication failed. Please try again." {
		t.Errorf("Unexpected state %+v", s)
	}
}

func TestObserverSeesLoadingTransitions(t *testing.T) {
	api := newFakeAPI()
	api.authVoter = models.Voter{VoterID: "V1"}

	var seen []bool
	ctrl := New(api, WithObserver(func(s FlowState) {
		seen = append(seen, s.Loading)
	}))

	ctrl.Submit(context.Background(), models.Credentials{})

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("Expected [true false], got %v", seen)
	}
}

func TestDismissError(t *testing.T) {
	api := newFakeAPI()
	api.authErr = errors.New("x")
	ctrl := New(api)
	ctrl.Submit(context.Background(), models.Credentials{})

	ctrl.DismissError()
	if s := ctrl.State(); s.Error != "" || s.Step != CredentialsEntry {
		t.Errorf("Unexpected state %+v", s)
	}
}

func TestMessageFor(t *testing.T) {
	if got := MessageFor(ActionCastVote, &remoteError{"Voter has already cast a vote"}); got != "Voter has already cast a vote" {
		t.Errorf("Expected server message, got %q", got)
	}
	wrapped := errors.Join(errors.New("ctx"), &remoteError{""})
	if got := MessageFor(ActionVerifyOTP, wrapped); got != "Verification failed. Please try again." {
		t.Errorf("Expected fallback, got %q", got)
	}
}
