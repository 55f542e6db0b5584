// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Command devserver runs a local implementation of the voter authentication
API so the terminal client can be exercised end to end.

It is a development and test fixture, not an election authority.

# Starting the Server

	OTP_SALT=dev JWT_SECRET=dev-secret-change-me go run ./cmd/devserver -seed devdata/voters.json -echo-otp

SQLite is the default store (file:voterauth.db). For PostgreSQL:

	go run ./cmd/devserver -t postgres -d "postgres://..."

# Configuration

Required settings:

  - OTP_SALT (-otp-salt): HMAC key for stored OTP hashes
  - JWT_SECRET (-jwt-secret): session token signing key, at least 16 characters

Optional settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t), DATABASE_URL (-d): sqlite or postgres
  - REDIS_URL (-redis): keep OTP challenges in Redis instead of the database
  - SEED_FILE (-seed): JSON array of voters to register at startup
  - ECHO_OTP (-echo-otp): return codes as otp_for_testing
  - OTP_TTL, OTP_MAX_ATTEMPTS, OTP_RESEND_COOLDOWN, SESSION_TTL

A .env file in the working directory is loaded first.
*/
package main
