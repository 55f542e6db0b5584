// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package credentials

import (
	"time"

	"github.com/danielhkuo/voterauth/models"
)

// Enhanced collects the voter card number, date of birth, phone number and
// government identity number.
type Enhanced struct {
	// Now overrides the clock for the age check.
	Now func() time.Time
}

func (Enhanced) Mode() string { return models.AuthModeEnhanced }

func (Enhanced) Fields() []Field {
	return []Field{
		{Key: KeyVoterID, Label: "Voter ID (EPIC)", Placeholder: "ABC1234567"},
		{Key: KeyDateOfBirth, Label: "Date of birth", Placeholder: "YYYY-MM-DD"},
		{Key: KeyPhoneNumber, Label: "Phone number", Placeholder: "10 digit mobile number"},
		{Key: KeyGovernmentID, Label: "Government ID", Placeholder: "12 digit number", Secret: true},
	}
}

func (e Enhanced) Collect(values map[string]string) (models.Credentials, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	voterID, err := ValidateVoterID(values[KeyVoterID])
	if err != nil {
		return nil, err
	}
	dob, err := ValidateDateOfBirth(values[KeyDateOfBirth], now())
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(values[KeyPhoneNumber])
	if err != nil {
		return nil, err
	}
	govID, err := ValidateGovernmentID(values[KeyGovernmentID])
	if err != nil {
		return nil, err
	}

	return models.Credentials{
		KeyAuthMode:     models.AuthModeEnhanced,
		KeyVoterID:      voterID,
		KeyDateOfBirth:  dob,
		KeyPhoneNumber:  phone,
		KeyGovernmentID: govID,
	}, nil
}
