// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the secrets used by the development server.

# One-Time Codes

Codes are six random decimal digits:

	code, err := auth.GenerateOTP(auth.OTPDigits)

Only an HMAC-SHA256 of phone number and code is stored:

	hash := auth.HashOTP(phone, code, salt)

# Government IDs

Enhanced login compares the submitted government ID against a bcrypt hash
kept in the voter registry:

	hash, err := auth.HashGovernmentID(id)
	err = auth.CompareGovernmentID(hash, submitted)

# Session Tokens

A successful OTP verification yields an HS256 JWT whose subject is the voter
ID. Casting a vote requires it as a bearer token:

	token, err := auth.IssueSessionToken(voterID, secret, 15*time.Minute, time.Now())
	voterID, err := auth.ParseSessionToken(token, secret)

# ID Generation

Random hex IDs (token IDs, generated records):

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
