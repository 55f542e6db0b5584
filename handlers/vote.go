// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/middleware"
	"github.com/danielhkuo/voterauth/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.ServerConfig
	now func() time.Time
}

func NewVoteHandler(db *sql.DB, cfg cliparse.ServerConfig) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, now: time.Now}
}

// CastVote handles POST /api/vote/cast
// Must be wrapped in middleware.RequireVoterSession.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	sessionVoter, ok := middleware.SessionVoterID(r)
	if !ok || sessionVoter != req.VoterID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Session does not belong to this voter")
		return
	}

	ctx := r.Context()

	// Conditional update; concurrent casts cannot both succeed
	marked, err := markVoted(ctx, h.db, req.VoterID, h.now().UTC())
	if err != nil {
		slog.Error("failed to record vote", "error", err, "voter_id", req.VoterID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voter, err := findVoterByID(ctx, h.db, req.VoterID)
	if errors.Is(err, errVoterNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !marked {
		middleware.ErrorResponse(w, http.StatusConflict, msgAlreadyVoted)
		return
	}

	slog.Info("vote recorded", "voter_id", voter.VoterID)
	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{Voter: voter.Voter})
}
