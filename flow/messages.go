// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package flow

import "errors"

// Action names a controller operation that talks to the remote API.
type Action int

const (
	ActionAuthenticate Action = iota
	ActionVerifyOTP
	ActionResendOTP
	ActionCastVote
)

func (a Action) String() string {
	switch a {
	case ActionAuthenticate:
		return "authenticate"
	case ActionVerifyOTP:
		return "verify_otp"
	case ActionResendOTP:
		return "resend_otp"
	case ActionCastVote:
		return "cast_vote"
	default:
		return "unknown"
	}
}

// Fallback messages shown when the server supplied none
var fallbackMessages = map[Action]string{
	ActionAuthenticate: "Authentication failed. Please try again.",
	ActionVerifyOTP:    "Verification failed. Please try again.",
	ActionResendOTP:    "Failed to resend OTP.",
	ActionCastVote:     "Failed to update voting status.",
}

// Messages for local precondition failures
const (
	MsgNoVoterForResend = "No voter data to resend OTP to. Please authenticate again."
	MsgCannotVote       = "Cannot vote. Voter data missing or already voted."
	MsgOTPResent        = "A new OTP has been sent to your phone."
)

// ServerMessager is implemented by API errors that can carry a message
// supplied by the remote service.
type ServerMessager interface {
	ServerMessage() string
}

// MessageFor picks the text shown to the voter when action failed with err.
func MessageFor(action Action, err error) string {
	var sm ServerMessager
	if errors.As(err, &sm) {
		if msg := sm.ServerMessage(); msg != "" {
			return msg
		}
	}
	if msg, ok := fallbackMessages[action]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}
