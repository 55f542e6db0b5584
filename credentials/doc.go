// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package credentials provides the two interchangeable credential forms.

Both variants implement Collector and emit the same opaque payload type,
models.Credentials, tagged with auth_mode:

	c := credentials.For(models.AuthModeEnhanced)
	creds, err := c.Collect(values)

Simple asks for name and phone number. Enhanced asks for voter ID (EPIC),
date of birth, phone number and a 12 digit government ID.

Validation failures are *FieldError values; errors.Is(err, ErrInvalidField)
matches all of them. The Validate* helpers are shared with the development
server so both sides normalize input the same way.
*/
package credentials
