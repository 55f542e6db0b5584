// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions for the
development server.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start and completion with a request ID. The ID is taken from
the X-Request-ID header when present and echoed back on the response.

# Voter Sessions

	mux.HandleFunc("POST /api/vote/cast",
		middleware.WithLogging(middleware.RequireVoterSession(secret, h.CastVote)))

Requires "Authorization: Bearer <token>" where the token was issued by OTP
verification. Handlers read the authenticated voter with SessionVoterID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Error bodies look like {"error": "message", "code": "Bad Request"}. The
error field is what the client shows to the voter.

# CORS

	server := http.Server{Handler: middleware.CORS(mux)}
*/
package middleware
