// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"fmt"
	"net/http"
)

// Kind classifies why a call failed.
type Kind int

const (
	// KindNetwork: the request never produced an HTTP response.
	KindNetwork Kind = iota
	// KindRemote: the service answered with a non-2xx status.
	KindRemote
	// KindDecode: the response body could not be parsed.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRemote:
		return "remote"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client method.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	// Message is the "error" field of the response body, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRemote:
		if e.Message != "" {
			return fmt.Sprintf("%s: %d %s: %s", e.Op, e.Status, http.StatusText(e.Status), e.Message)
		}
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ServerMessage returns the message supplied by the service.
func (e *Error) ServerMessage() string {
	return e.Message
}
