// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers of the development voter API.

# Handler Types

  - AuthHandler: login, OTP verification and OTP resend
  - VoteHandler: casting a vote for an authenticated voter

	authHandler := handlers.NewAuthHandler(db, cfg, otps, handlers.LogSender{})
	voteHandler := handlers.NewVoteHandler(db, cfg)

# Flow

	POST /api/auth/login      → Login (issues an OTP unless the voter already voted)
	POST /api/auth/verify-otp → VerifyOTP (returns the voter and a session token)
	POST /api/auth/resend-otp → ResendOTP (rate limited by OTP_RESEND_COOLDOWN)
	POST /api/vote/cast       → CastVote (requires the session token)

Login accepts either credential set, selected by auth_mode:

	simple:   name, phone_number
	enhanced: voter_id, date_of_birth, phone_number, government_id

Failed matches always return the same 401 message so callers cannot probe
which field was wrong.

# OTP Delivery

Codes go through an OTPSender. LogSender writes them to the server log. With
ECHO_OTP enabled, the code is also returned as otp_for_testing so automated
clients can complete the flow.

# Status Codes

	400 malformed input
	401 unknown voter, wrong or expired OTP, missing session
	403 session belongs to a different voter
	404 voter not registered
	409 voter has already voted
	429 too many OTP attempts or resend cooldown
*/
package handlers
