// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package credentials

import (
	"github.com/danielhkuo/voterauth/models"
)

// Simple collects a name and a registered phone number.
type Simple struct{}

func (Simple) Mode() string { return models.AuthModeSimple }

func (Simple) Fields() []Field {
	return []Field{
		{Key: KeyName, Label: "Full name", Placeholder: "As printed on your voter card"},
		{Key: KeyPhoneNumber, Label: "Phone number", Placeholder: "10 digit mobile number"},
	}
}

func (Simple) Collect(values map[string]string) (models.Credentials, error) {
	name, err := ValidateName(values[KeyName])
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(values[KeyPhoneNumber])
	if err != nil {
		return nil, err
	}

	return models.Credentials{
		KeyAuthMode:    models.AuthModeSimple,
		KeyName:        name,
		KeyPhoneNumber: phone,
	}, nil
}
