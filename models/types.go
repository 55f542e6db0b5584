package models

import "time"

// Auth mode values carried in the credentials payload
const (
	AuthModeSimple   = "simple"
	AuthModeEnhanced = "enhanced"
)

// Credentials is the payload a credential form emits. The flow controller
// forwards it to the login endpoint without looking inside.
type Credentials map[string]string

// Domain types

type Voter struct {
	VoterID     string     `json:"voter_id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	HasVoted    bool       `json:"has_voted"`
	VotedAt     *time.Time `json:"voted_at,omitempty"`
}

// VoterRecord is the registry row behind a Voter. Secrets never leave the server.
type VoterRecord struct {
	Voter
	DateOfBirth      string `json:"date_of_birth"`
	GovernmentIDHash string `json:"-"`
}

// Request types

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	OTP         string `json:"otp"`
}

type ResendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type CastVoteRequest struct {
	VoterID string `json:"voter_id"`
}

// Response types

// LoginResponse is the voter object itself. OTPForTesting is only filled
// when the server runs with OTP echo enabled.
type LoginResponse struct {
	Voter
	OTPForTesting string `json:"otp_for_testing,omitempty"`
}

type VerifyOTPResponse struct {
	Voter Voter  `json:"voter"`
	Token string `json:"token"`
}

type ResendOTPResponse struct {
	Message       string `json:"message"`
	OTPForTesting string `json:"otp_for_testing,omitempty"`
}

type CastVoteResponse struct {
	Voter Voter `json:"voter"`
}

// Error response. Error carries the human-readable message shown to voters.

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
