// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/voterauth/models"
)

var errVoterNotFound = errors.New("voter not found")

const voterColumns = `voter_id, name, phone_number, date_of_birth, government_id_hash, has_voted, voted_at`

// findVoterByPhone loads the registry row for a normalized phone number
func findVoterByPhone(ctx context.Context, db *sql.DB, phoneNumber string) (models.VoterRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE phone_number = $1`, phoneNumber)
	return scanVoter(row)
}

// findVoterByID loads the registry row for a voter ID
func findVoterByID(ctx context.Context, db *sql.DB, voterID string) (models.VoterRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT `+voterColumns+` FROM voter WHERE voter_id = $1`, voterID)
	return scanVoter(row)
}

func scanVoter(row *sql.Row) (models.VoterRecord, error) {
	var v models.VoterRecord
	var votedAt sql.NullTime

	err := row.Scan(&v.VoterID, &v.Name, &v.PhoneNumber, &v.DateOfBirth, &v.GovernmentIDHash, &v.HasVoted, &votedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VoterRecord{}, errVoterNotFound
	}
	if err != nil {
		return models.VoterRecord{}, fmt.Errorf("failed to query voter: %w", err)
	}

	if votedAt.Valid {
		t := votedAt.Time.UTC()
		v.VotedAt = &t
	}
	return v, nil
}

// markVoted flips has_voted for a voter that has not voted yet.
// It reports false when the voter was already marked.
func markVoted(ctx context.Context, db *sql.DB, voterID string, at time.Time) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE voter SET has_voted = TRUE, voted_at = $1
		WHERE voter_id = $2 AND has_voted = FALSE
	`, at, voterID)
	if err != nil {
		return false, fmt.Errorf("failed to record vote: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to record vote: %w", err)
	}
	return n == 1, nil
}
