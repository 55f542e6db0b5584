// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package credentials

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/voterauth/models"
)

// Payload keys
const (
	KeyAuthMode     = "auth_mode"
	KeyName         = "name"
	KeyPhoneNumber  = "phone_number"
	KeyVoterID      = "voter_id"
	KeyDateOfBirth  = "date_of_birth"
	KeyGovernmentID = "government_id"
)

// DateLayout is the accepted date of birth format.
const DateLayout = "2006-01-02"

// MinimumAge is the voting age checked by the enhanced form.
const MinimumAge = 18

var (
	ErrInvalidField = errors.New("invalid field")
	ErrUnknownMode  = errors.New("auth_mode must be simple or enhanced")
)

// FieldError reports which field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

// Field describes one input a form collects.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Secret      bool
}

// Collector turns raw form input into a credentials payload.
type Collector interface {
	Mode() string
	Fields() []Field
	Collect(values map[string]string) (models.Credentials, error)
}

// For returns the collector for mode, falling back to Simple for any name
// other than enhanced.
func For(mode string) Collector {
	if mode == models.AuthModeEnhanced {
		return Enhanced{}
	}
	return Simple{}
}

// ParseMode returns the collector for an auth_mode value. An empty value
// selects Simple.
func ParseMode(mode string) (Collector, error) {
	switch mode {
	case "", models.AuthModeSimple:
		return Simple{}, nil
	case models.AuthModeEnhanced:
		return Enhanced{}, nil
	}
	return nil, ErrUnknownMode
}

var (
	digitsOnly   = regexp.MustCompile(`^[0-9]+$`)
	epicNumber   = regexp.MustCompile(`^[A-Z]{3}[0-9]{7}$`)
	phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// NormalizePhone strips separators and an optional +91 / 0 prefix, then
// requires exactly ten digits.
func NormalizePhone(raw string) (string, error) {
	p := phoneCleaner.Replace(strings.TrimSpace(raw))
	p = strings.TrimPrefix(p, "+91")
	if len(p) == 11 && strings.HasPrefix(p, "0") {
		p = p[1:]
	}
	if len(p) != 10 || !digitsOnly.MatchString(p) {
		return "", &FieldError{Field: KeyPhoneNumber, Message: "phone number must have 10 digits"}
	}
	return p, nil
}

// ValidateName requires 2-100 characters after trimming.
func ValidateName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if len(name) < 2 || len(name) > 100 {
		return "", &FieldError{Field: KeyName, Message: "name must be 2-100 characters"}
	}
	return name, nil
}

// ValidateVoterID accepts an EPIC number: three letters and seven digits.
func ValidateVoterID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !epicNumber.MatchString(id) {
		return "", &FieldError{Field: KeyVoterID, Message: "voter ID must be 3 letters followed by 7 digits"}
	}
	return id, nil
}

// ValidateGovernmentID accepts a 12 digit identity number, spaces allowed.
func ValidateGovernmentID(raw string) (string, error) {
	id := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	if len(id) != 12 || !digitsOnly.MatchString(id) {
		return "", &FieldError{Field: KeyGovernmentID, Message: "government ID must have 12 digits"}
	}
	return id, nil
}

// ValidateDateOfBirth parses YYYY-MM-DD and checks the voter is of age on now.
func ValidateDateOfBirth(raw string, now time.Time) (string, error) {
	dob, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", &FieldError{Field: KeyDateOfBirth, Message: "date of birth must be YYYY-MM-DD"}
	}
	if dob.AddDate(MinimumAge, 0, 0).After(now) {
		return "", &FieldError{Field: KeyDateOfBirth, Message: fmt.Sprintf("voter must be at least %d years old", MinimumAge)}
	}
	return dob.Format(DateLayout), nil
}

// MaskPhone hides all but the last four digits.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
