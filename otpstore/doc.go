// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package otpstore stores issued one-time code challenges for the development
server.

Two implementations satisfy Store:

  - SQLStore: the otp_challenge table in the main database
  - RedisStore: one expiring key per phone number (used when REDIS_URL is set)

Only HMAC hashes of codes are stored (see auth.HashOTP). Consume is atomic:
SQLStore uses a transaction, RedisStore uses WATCH/MULTI with a few retries.

# Errors

	ErrNotFound          no live challenge
	ErrExpired           challenge past its expiry (deleted)
	ErrMismatch          wrong code, attempt counted
	ErrAttemptsExceeded  too many wrong codes (deleted)
	ErrUnavailable       backend failure
*/
package otpstore
