// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/voterauth/apiclient"
	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/handlers"
	"github.com/danielhkuo/voterauth/middleware"
	"github.com/danielhkuo/voterauth/otpstore"
)

func NewRouter(db *sql.DB, cfg cliparse.ServerConfig, otps otpstore.Store, sender handlers.OTPSender) *http.ServeMux {
	mux := http.NewServeMux()

	authHandler := handlers.NewAuthHandler(db, cfg, otps, sender)
	voteHandler := handlers.NewVoteHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication (public)
	mux.HandleFunc("POST "+apiclient.PathLogin, middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("POST "+apiclient.PathVerifyOTP, middleware.WithLogging(authHandler.VerifyOTP))
	mux.HandleFunc("POST "+apiclient.PathResendOTP, middleware.WithLogging(authHandler.ResendOTP))

	// Voting (requires session from OTP verification)
	mux.HandleFunc("POST "+apiclient.PathCastVote, middleware.WithLogging(
		middleware.RequireVoterSession(cfg.JWTSecret, voteHandler.CastVote),
	))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voterauth dev API v1"))
	})

	return mux
}
