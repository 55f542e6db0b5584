// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration
for both the voterauth client and the development server.

# Sources

Configuration is layered, later sources winning:

 1. a .env file in the working directory (optional, via godotenv)
 2. process environment variables (struct tags, via caarlos0/env)
 3. CLI flags

# Server Flags

	-p            Server port (PORT, default 5000)
	-d            Database URL (DATABASE_URL, default file:voterauth.db for sqlite)
	-t            Database type: sqlite or postgres (DATABASE_TYPE)
	-redis        Redis URL for OTP challenges (REDIS_URL, optional)
	-seed         Voter seed file (SEED_FILE)
	-echo-otp     Echo issued OTPs in responses (ECHO_OTP)
	-otp-salt     OTP hashing salt (OTP_SALT, required)
	-jwt-secret   Session signing secret (JWT_SECRET, required, ≥16 chars)

Timing knobs are environment-only: OTP_TTL, OTP_MAX_ATTEMPTS,
OTP_RESEND_COOLDOWN, SESSION_TTL.

# Client Flags

	-api      Service base URL (VOTERAUTH_API_URL, default http://localhost:5000)
	-mode     simple or enhanced (VOTERAUTH_AUTH_MODE)
	-timeout  Per-call timeout (VOTERAUTH_TIMEOUT, default 15s)
	-log      Log file (VOTERAUTH_LOG_FILE)

# Example

	cfg, err := cliparse.ParseServerFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
