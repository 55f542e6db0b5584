// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/voterauth/credentials"
)

// OTPSender delivers a one-time code to a phone number.
type OTPSender interface {
	SendOTP(ctx context.Context, phoneNumber, code string) error
}

// LogSender writes codes to the server log instead of sending an SMS.
// It is meant for local development only.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) SendOTP(ctx context.Context, phoneNumber, code string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "otp issued", "phone", credentials.MaskPhone(phoneNumber), "code", code)
	return nil
}
