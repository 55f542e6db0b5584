// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the development voter API.

	mux := router.NewRouter(db, cfg, otps, handlers.LogSender{})

# Endpoints

	GET  /health               - Liveness
	GET  /                     - Banner
	POST /api/auth/login       - Match credentials, issue OTP
	POST /api/auth/verify-otp  - Check OTP, return session token
	POST /api/auth/resend-otp  - Issue a fresh OTP
	POST /api/vote/cast        - Record a vote (Bearer session token)

Paths are shared with the apiclient package so client and server cannot
drift apart. Every API route is wrapped in middleware.WithLogging, and the
cast route additionally in middleware.RequireVoterSession.
*/
package router
