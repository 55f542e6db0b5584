// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/voterauth/auth"
	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/credentials"
	"github.com/danielhkuo/voterauth/middleware"
	"github.com/danielhkuo/voterauth/models"
	"github.com/danielhkuo/voterauth/otpstore"
)

// Messages shown to voters. Login failures never say which field was wrong.
const (
	msgInvalidJSON      = "Invalid JSON"
	msgVoterNotFound    = "No voter found with these details. Please check and try again."
	msgOTPFormat        = "OTP must be 6 digits"
	msgNoActiveOTP      = "No active OTP for this number. Please request a new one."
	msgOTPExpired       = "OTP has expired. Please request a new one."
	msgOTPInvalid       = "Invalid OTP. Please try again."
	msgOTPLocked        = "Too many incorrect attempts. Please request a new OTP."
	msgAlreadyVoted     = "Voter has already voted"
	msgOTPResent        = "OTP resent successfully"
	msgServiceTrouble   = "Service temporarily unavailable. Please try again."
	msgResendCooldownFm = "Please wait %d seconds before requesting another OTP."
)

var otpFormat = regexp.MustCompile(`^[0-9]{6}$`)

type AuthHandler struct {
	db     *sql.DB
	cfg    cliparse.ServerConfig
	otps   otpstore.Store
	sender OTPSender
	now    func() time.Time
}

func NewAuthHandler(db *sql.DB, cfg cliparse.ServerConfig, otps otpstore.Store, sender OTPSender) *AuthHandler {
	if sender == nil {
		sender = LogSender{}
	}
	return &AuthHandler{db: db, cfg: cfg, otps: otps, sender: sender, now: time.Now}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := middleware.ParseJSONBody(r, &creds); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	// Same validation the client forms run, so normalized values match the registry
	collector, err := credentials.ParseMode(creds[credentials.KeyAuthMode])
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if e, ok := collector.(credentials.Enhanced); ok {
		e.Now = h.now
		collector = e
	}
	values, err := collector.Collect(creds)
	if err != nil {
		var fe *credentials.FieldError
		if errors.As(err, &fe) {
			middleware.ErrorResponse(w, http.StatusBadRequest, fe.Error())
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	var voter models.VoterRecord
	if collector.Mode() == models.AuthModeEnhanced {
		voter, err = h.matchEnhanced(ctx, values)
	} else {
		voter, err = h.matchSimple(ctx, values)
	}
	if errors.Is(err, errVoterNotFound) || errors.Is(err, auth.ErrGovernmentIDMismatch) {
		slog.Info("login rejected", "auth_mode", collector.Mode(), "phone", credentials.MaskPhone(values[credentials.KeyPhoneNumber]))
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.LoginResponse{Voter: voter.Voter}

	// Voters who already voted go straight to their status; no OTP needed
	if !voter.HasVoted {
		code, err := h.issueOTP(ctx, voter.PhoneNumber)
		if err != nil {
			slog.Error("failed to issue otp", "error", err, "voter_id", voter.VoterID)
			middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgServiceTrouble)
			return
		}
		if h.cfg.EchoOTP {
			resp.OTPForTesting = code
		}
	}

	slog.Info("voter authenticated", "voter_id", voter.VoterID, "auth_mode", collector.Mode(), "has_voted", voter.HasVoted)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	phone, err := credentials.NormalizePhone(req.PhoneNumber)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	code := strings.TrimSpace(req.OTP)
	if !otpFormat.MatchString(code) {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgOTPFormat)
		return
	}

	ctx := r.Context()
	now := h.now()
	hash := auth.HashOTP(phone, code, h.cfg.OTPSalt)

	err = h.otps.Consume(ctx, phone, hash, h.cfg.OTPMaxAttempts, now)
	switch {
	case err == nil:
	case errors.Is(err, otpstore.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgNoActiveOTP)
		return
	case errors.Is(err, otpstore.ErrExpired):
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgOTPExpired)
		return
	case errors.Is(err, otpstore.ErrMismatch):
		slog.Info("otp mismatch", "phone", credentials.MaskPhone(phone))
		middleware.ErrorResponse(w, http.StatusUnauthorized, msgOTPInvalid)
		return
	case errors.Is(err, otpstore.ErrAttemptsExceeded):
		slog.Warn("otp locked after too many attempts", "phone", credentials.MaskPhone(phone))
		middleware.ErrorResponse(w, http.StatusTooManyRequests, msgOTPLocked)
		return
	default:
		slog.Error("failed to consume otp", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgServiceTrouble)
		return
	}

	voter, err := findVoterByPhone(ctx, h.db, phone)
	if errors.Is(err, errVoterNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := auth.IssueSessionToken(voter.VoterID, h.cfg.JWTSecret, h.cfg.SessionTTL, now)
	if err != nil {
		slog.Error("failed to issue session token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return
	}

	slog.Info("otp verified", "voter_id", voter.VoterID)
	middleware.JSONResponse(w, http.StatusOK, models.VerifyOTPResponse{
		Voter: voter.Voter,
		Token: token,
	})
}

// ResendOTP handles POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	phone, err := credentials.NormalizePhone(req.PhoneNumber)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	voter, err := findVoterByPhone(ctx, h.db, phone)
	if errors.Is(err, errVoterNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, msgVoterNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to look up voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if voter.HasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, msgAlreadyVoted)
		return
	}

	if wait := h.cooldownRemaining(ctx, phone); wait > 0 {
		secs := int((wait + time.Second - 1) / time.Second)
		middleware.ErrorResponse(w, http.StatusTooManyRequests, fmt.Sprintf(msgResendCooldownFm, secs))
		return
	}

	code, err := h.issueOTP(ctx, phone)
	if err != nil {
		slog.Error("failed to issue otp", "error", err, "voter_id", voter.VoterID)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, msgServiceTrouble)
		return
	}

	resp := models.ResendOTPResponse{Message: msgOTPResent}
	if h.cfg.EchoOTP {
		resp.OTPForTesting = code
	}

	slog.Info("otp resent", "voter_id", voter.VoterID)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

func (h *AuthHandler) matchSimple(ctx context.Context, values models.Credentials) (models.VoterRecord, error) {
	voter, err := findVoterByPhone(ctx, h.db, values[credentials.KeyPhoneNumber])
	if err != nil {
		return models.VoterRecord{}, err
	}
	if !strings.EqualFold(strings.TrimSpace(voter.Name), values[credentials.KeyName]) {
		return models.VoterRecord{}, errVoterNotFound
	}
	return voter, nil
}

func (h *AuthHandler) matchEnhanced(ctx context.Context, values models.Credentials) (models.VoterRecord, error) {
	voter, err := findVoterByID(ctx, h.db, values[credentials.KeyVoterID])
	if err != nil {
		return models.VoterRecord{}, err
	}
	if voter.PhoneNumber != values[credentials.KeyPhoneNumber] || voter.DateOfBirth != values[credentials.KeyDateOfBirth] {
		return models.VoterRecord{}, errVoterNotFound
	}
	if voter.GovernmentIDHash == "" {
		return models.VoterRecord{}, auth.ErrGovernmentIDMismatch
	}
	if err := auth.CompareGovernmentID(voter.GovernmentIDHash, values[credentials.KeyGovernmentID]); err != nil {
		return models.VoterRecord{}, err
	}
	return voter, nil
}

// issueOTP replaces any live challenge for phone and sends the new code
func (h *AuthHandler) issueOTP(ctx context.Context, phone string) (string, error) {
	code, err := auth.GenerateOTP(auth.OTPDigits)
	if err != nil {
		return "", err
	}

	now := h.now()
	err = h.otps.Save(ctx, otpstore.Challenge{
		PhoneNumber: phone,
		CodeHash:    auth.HashOTP(phone, code, h.cfg.OTPSalt),
		IssuedAt:    now,
		ExpiresAt:   now.Add(h.cfg.OTPTTL),
	})
	if err != nil {
		return "", err
	}

	if err := h.sender.SendOTP(ctx, phone, code); err != nil {
		return "", fmt.Errorf("failed to send otp: %w", err)
	}
	return code, nil
}

func (h *AuthHandler) cooldownRemaining(ctx context.Context, phone string) time.Duration {
	ch, err := h.otps.Get(ctx, phone)
	if err != nil {
		return 0
	}
	return ch.IssuedAt.Add(h.cfg.ResendCooldown).Sub(h.now())
}
