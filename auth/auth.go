// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// OTPDigits is the length of issued one-time codes.
const OTPDigits = 6

const sessionIssuer = "voterauth"

var (
	ErrGovernmentIDMismatch = errors.New("government id mismatch")
	ErrInvalidSession       = errors.New("invalid session token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOTP returns a uniformly random numeric code of the given length
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("unsupported OTP length %d", digits)
	}
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// HashOTP binds a code to its phone number with HMAC-SHA256.
// Only the hash is stored; the salt stays in configuration.
func HashOTP(phoneNumber, code, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(phoneNumber))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// HashGovernmentID hashes a government identity number for storage
func HashGovernmentID(id string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(id), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash government id: %w", err)
	}
	return string(hash), nil
}

// CompareGovernmentID checks id against a stored hash
func CompareGovernmentID(hash, id string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(id)); err != nil {
		return ErrGovernmentIDMismatch
	}
	return nil
}

// IssueSessionToken signs a short-lived HS256 token whose subject is the voter ID.
// Casting a vote requires it.
func IssueSessionToken(voterID, secret string, ttl time.Duration, now time.Time) (string, error) {
	jti, err := GenerateID(12)
	if err != nil {
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   voterID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseSessionToken validates a session token and returns its voter ID
func ParseSessionToken(tokenString, secret string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	if claims.Subject == "" {
		return "", ErrInvalidSession
	}
	return claims.Subject, nil
}
