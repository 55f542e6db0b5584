// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/voterauth/auth"
	"github.com/danielhkuo/voterauth/credentials"
)

// SeedVoter is one entry of a seed file. GovernmentID is plaintext in the
// file and hashed before it is stored.
type SeedVoter struct {
	VoterID      string `json:"voter_id"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number"`
	DateOfBirth  string `json:"date_of_birth"`
	GovernmentID string `json:"government_id"`
	HasVoted     bool   `json:"has_voted"`
}

// LoadSeedFile reads a JSON array of SeedVoter.
func LoadSeedFile(path string) ([]SeedVoter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var voters []SeedVoter
	if err := json.Unmarshal(data, &voters); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return voters, nil
}

// SeedVoters inserts voters that are not registered yet and returns how many
// were added. Existing rows are left untouched. Each entry is normalized with
// the same validators login uses, so stored values match what voters type.
func SeedVoters(ctx context.Context, db *sql.DB, voters []SeedVoter) (int, error) {
	added := 0
	now := time.Now()

	for i, v := range voters {
		v, err := normalizeSeedVoter(v, now)
		if err != nil {
			return added, fmt.Errorf("seed voter %d: %w", i, err)
		}

		var govHash string
		if v.GovernmentID != "" {
			govHash, err = auth.HashGovernmentID(v.GovernmentID)
			if err != nil {
				return added, fmt.Errorf("seed voter %d: %w", i, err)
			}
		}

		res, err := db.ExecContext(ctx, `
			INSERT INTO voter (voter_id, name, phone_number, date_of_birth, government_id_hash, has_voted)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING
		`, v.VoterID, v.Name, v.PhoneNumber, v.DateOfBirth, govHash, v.HasVoted)
		if err != nil {
			return added, fmt.Errorf("seed voter %d: %w", i, err)
		}

		if n, err := res.RowsAffected(); err == nil && n > 0 {
			added++
		}
	}

	return added, nil
}

// normalizeSeedVoter canonicalizes the fields login compares against.
// Optional enhanced fields stay empty when absent.
func normalizeSeedVoter(v SeedVoter, now time.Time) (SeedVoter, error) {
	var err error

	if v.PhoneNumber, err = credentials.NormalizePhone(v.PhoneNumber); err != nil {
		return SeedVoter{}, err
	}
	if v.Name, err = credentials.ValidateName(v.Name); err != nil {
		return SeedVoter{}, err
	}

	if v.VoterID == "" {
		v.VoterID = uuid.NewString()
	} else if v.VoterID, err = credentials.ValidateVoterID(v.VoterID); err != nil {
		return SeedVoter{}, err
	}

	if v.DateOfBirth != "" {
		if v.DateOfBirth, err = credentials.ValidateDateOfBirth(v.DateOfBirth, now); err != nil {
			return SeedVoter{}, err
		}
	}
	if v.GovernmentID != "" {
		if v.GovernmentID, err = credentials.ValidateGovernmentID(v.GovernmentID); err != nil {
			return SeedVoter{}, err
		}
	}

	return v, nil
}
