// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import "github.com/danielhkuo/voterauth/models"

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// Started marks the beginning of a remote call.
type Started struct{}

// Authenticated carries the login response.
type Authenticated struct{ Voter models.Voter }

// OTPVerified carries the refreshed voter returned by OTP verification.
type OTPVerified struct{ Voter models.Voter }

// VoteRecorded carries the updated voter returned by the cast-vote call.
type VoteRecorded struct{ Voter models.Voter }

// OTPResent marks a successful resend.
type OTPResent struct{}

// Failed marks a remote call that settled with an error.
type Failed struct{ Message string }

// Rejected marks a local precondition failure; no call was made.
type Rejected struct{ Message string }

// ResetRequested returns the flow to its first step.
type ResetRequested struct{}

// ModeToggled flips the auth mode and resets.
type ModeToggled struct{}

// ErrorDismissed clears the error banner.
type ErrorDismissed struct{}

func (Started) isEvent()        {}
func (Authenticated) isEvent()  {}
func (OTPVerified) isEvent()    {}
func (VoteRecorded) isEvent()   {}
func (OTPResent) isEvent()      {}
func (Failed) isEvent()         {}
func (Rejected) isEvent()       {}
func (ResetRequested) isEvent() {}
func (ModeToggled) isEvent()    {}
func (ErrorDismissed) isEvent() {}

// Reduce applies ev to s and returns the next state. It never mutates s.
func Reduce(s FlowState, ev Event) FlowState {
	next := s.clone()

	switch ev := ev.(type) {
	case Started:
		next.Loading = true
		next.Error = ""

	case Authenticated:
		v := ev.Voter
		next.Loading = false
		next.Voter = &v
		if v.HasVoted {
			next.Step = StatusDisplay
		} else {
			next.Step = OTPVerification
		}

	case OTPVerified:
		v := ev.Voter
		next.Loading = false
		next.Voter = &v
		next.Step = StatusDisplay

	case VoteRecorded:
		v := ev.Voter
		next.Loading = false
		next.Voter = &v
		next.Step = StatusDisplay

	case OTPResent:
		next.Loading = false

	case Failed:
		next.Loading = false
		next.Error = ev.Message

	case Rejected:
		next.Error = ev.Message

	case ResetRequested:
		next = Initial()
		next.AuthMode = s.AuthMode

	case ModeToggled:
		next = Initial()
		next.AuthMode = s.AuthMode.Toggle()

	case ErrorDismissed:
		next.Error = ""
	}

	return next
}
