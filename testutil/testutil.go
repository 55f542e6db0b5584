// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/voterauth/cliparse"
	"github.com/danielhkuo/voterauth/db"
)

// Seeded test voters. Government IDs are plaintext here and hashed on insert.
var (
	PendingVoter = db.SeedVoter{
		VoterID:      "ABC1234567",
		Name:         "Asha Rao",
		PhoneNumber:  "9876543210",
		DateOfBirth:  "1990-04-12",
		GovernmentID: "123456789012",
	}
	VotedVoter = db.SeedVoter{
		VoterID:      "XYZ7654321",
		Name:         "Vikram Shah",
		PhoneNumber:  "9123456780",
		DateOfBirth:  "1985-11-30",
		GovernmentID: "210987654321",
		HasVoted:     true,
	}
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.ServerConfig {
	return cliparse.ServerConfig{
		Port:           5001,
		DatabaseType:   db.TypeSQLite,
		DatabaseURL:    ":memory:",
		OTPSalt:        "test-otp-salt",
		JWTSecret:      "test-jwt-secret-0123456789",
		EchoOTP:        true,
		OTPTTL:         5 * time.Minute,
		OTPMaxAttempts: 5,
		ResendCooldown: 30 * time.Second,
		SessionTTL:     15 * time.Minute,
	}
}

// CreateTestVoter registers a voter and returns its voter ID
func CreateTestVoter(t *testing.T, conn *sql.DB, v db.SeedVoter) string {
	t.Helper()

	n, err := db.SeedVoters(context.Background(), conn, []db.SeedVoter{v})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	if n != 1 {
		t.Fatalf("Test voter %s was not inserted", v.VoterID)
	}

	return v.VoterID
}

// SeedStandardVoters registers PendingVoter and VotedVoter
func SeedStandardVoters(t *testing.T, conn *sql.DB) {
	t.Helper()
	CreateTestVoter(t, conn, PendingVoter)
	CreateTestVoter(t, conn, VotedVoter)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// BearerHeader builds an Authorization header map for MakeRequest
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
