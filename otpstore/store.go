// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otpstore

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("otp challenge not found")
	ErrExpired          = errors.New("otp challenge expired")
	ErrMismatch         = errors.New("otp mismatch")
	ErrAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrUnavailable      = errors.New("otp store unavailable")
)

// Challenge is the stored half of an issued OTP.
type Challenge struct {
	PhoneNumber string    `json:"phone_number"`
	CodeHash    string    `json:"code_hash"`
	Attempts    int       `json:"attempts"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Store keeps at most one live challenge per phone number.
type Store interface {
	// Save replaces any existing challenge for the phone number.
	Save(ctx context.Context, ch Challenge) error
	// Get returns the live challenge for phoneNumber.
	Get(ctx context.Context, phoneNumber string) (Challenge, error)
	// Consume checks codeHash against the live challenge. A match deletes
	// the challenge. A mismatch counts an attempt; reaching maxAttempts
	// deletes the challenge and returns ErrAttemptsExceeded.
	Consume(ctx context.Context, phoneNumber, codeHash string, maxAttempts int, now time.Time) error
}

// check applies the consume rules to a loaded challenge. It returns the
// updated challenge and whether it should be kept.
func check(ch Challenge, codeHash string, maxAttempts int, now time.Time) (Challenge, bool, error) {
	if !now.Before(ch.ExpiresAt) {
		return ch, false, ErrExpired
	}
	if subtle.ConstantTimeCompare([]byte(ch.CodeHash), []byte(codeHash)) == 1 {
		return ch, false, nil
	}
	ch.Attempts++
	if ch.Attempts >= maxAttempts {
		return ch, false, ErrAttemptsExceeded
	}
	return ch, true, ErrMismatch
}
