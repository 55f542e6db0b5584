// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import (
	"fmt"

	"github.com/danielhkuo/voterauth/models"
)

// Step is the controller's stage in the three-stage flow.
type Step int

const (
	CredentialsEntry Step = iota + 1
	OTPVerification
	StatusDisplay
)

// Steps lists every step in display order.
var Steps = []Step{CredentialsEntry, OTPVerification, StatusDisplay}

func (s Step) String() string {
	switch s {
	case CredentialsEntry:
		return "credentials"
	case OTPVerification:
		return "otp"
	case StatusDisplay:
		return "status"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Label is the progress-indicator caption for the step.
func (s Step) Label() string {
	switch s {
	case CredentialsEntry:
		return "Details"
	case OTPVerification:
		return "OTP Verify"
	case StatusDisplay:
		return "Vote Status"
	default:
		return "?"
	}
}

// AuthMode selects which credential form is shown at CredentialsEntry.
type AuthMode int

const (
	Simple AuthMode = iota
	Enhanced
)

func (m AuthMode) String() string {
	if m == Enhanced {
		return models.AuthModeEnhanced
	}
	return models.AuthModeSimple
}

// Toggle returns the other mode.
func (m AuthMode) Toggle() AuthMode {
	if m == Simple {
		return Enhanced
	}
	return Simple
}

// ParseAuthMode accepts "simple" or "enhanced".
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case models.AuthModeSimple:
		return Simple, nil
	case models.AuthModeEnhanced:
		return Enhanced, nil
	default:
		return Simple, fmt.Errorf("unknown auth mode %q", s)
	}
}

// FlowState is everything the controller tracks for one session.
type FlowState struct {
	Step     Step
	Voter    *models.Voter
	Loading  bool
	Error    string
	AuthMode AuthMode
}

// Initial returns the state a freshly mounted controller starts in.
func Initial() FlowState {
	return FlowState{
		Step:     CredentialsEntry,
		AuthMode: Simple,
	}
}

// HasVoter reports whether a voter record is stored.
func (s FlowState) HasVoter() bool {
	return s.Voter != nil
}

// CanVote reports whether the vote action is currently offered.
func (s FlowState) CanVote() bool {
	return s.Step == StatusDisplay && s.Voter != nil && !s.Voter.HasVoted
}

// clone returns a copy that shares no memory with s.
func (s FlowState) clone() FlowState {
	if s.Voter != nil {
		v := *s.Voter
		if v.VotedAt != nil {
			t := *v.VotedAt
			v.VotedAt = &t
		}
		s.Voter = &v
	}
	return s
}
