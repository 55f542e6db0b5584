// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
voterauth client and the development server.

# Domain Types

  - Voter: voter_id, name, phone_number, has_voted, voted_at
  - VoterRecord: Voter plus registry-only fields (date of birth, hashed government id)
  - Credentials: opaque map emitted by a credential form

# Request Types

  - Credentials: POST /api/auth/login
  - VerifyOTPRequest: phone_number, otp
  - ResendOTPRequest: phone_number
  - CastVoteRequest: voter_id

# Response Types

  - LoginResponse: voter fields (+ otp_for_testing in echo mode)
  - VerifyOTPResponse: voter, token
  - ResendOTPResponse: message
  - CastVoteResponse: voter
  - ErrorResponse: error, code

# JSON Conventions

All JSON fields use snake_case. Failures always carry a human-readable
"error" field; clients show it verbatim when present.
*/
package models
