// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is the HTTP+JSON client for the voter authentication
service. *Client satisfies flow.API.

	client := apiclient.NewClient("http://localhost:5000")
	voter, err := client.Authenticate(ctx, creds)

# Endpoints

	POST /api/auth/login       credentials        → voter
	POST /api/auth/verify-otp  {phone_number,otp} → {voter, token}
	POST /api/auth/resend-otp  {phone_number}     → {message}
	POST /api/vote/cast        {voter_id}         → {voter}

The token returned by verify-otp is kept by the client and sent as a bearer
token on later calls.

# Errors

Every failure is an *Error with a Kind (network, remote, decode). Remote
errors carry the HTTP status and the "error" field of the response body,
exposed through ServerMessage so the flow controller can show it.

Each request carries an X-Request-ID header (a random UUID) that is also
logged on both sides.
*/
package apiclient
