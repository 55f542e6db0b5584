// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otpstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps challenges in the otp_challenge table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Save(ctx context.Context, ch Challenge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO otp_challenge (phone_number, code_hash, attempts, issued_at, expires_at)
		VALUES ($1, $2, 0, $3, $4)
		ON CONFLICT (phone_number) DO UPDATE
		SET code_hash = excluded.code_hash,
		    attempts = 0,
		    issued_at = excluded.issued_at,
		    expires_at = excluded.expires_at
	`, ch.PhoneNumber, ch.CodeHash, ch.IssuedAt.UnixMilli(), ch.ExpiresAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, phoneNumber string) (Challenge, error) {
	return s.load(ctx, s.db, phoneNumber)
}

func (s *SQLStore) Consume(ctx context.Context, phoneNumber, codeHash string, maxAttempts int, now time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer tx.Rollback()

	ch, err := s.load(ctx, tx, phoneNumber)
	if err != nil {
		return err
	}

	ch, keep, result := check(ch, codeHash, maxAttempts, now)
	if keep {
		_, err = tx.ExecContext(ctx, `
			UPDATE otp_challenge SET attempts = $1 WHERE phone_number = $2
		`, ch.Attempts, phoneNumber)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM otp_challenge WHERE phone_number = $1`, phoneNumber)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) load(ctx context.Context, q queryer, phoneNumber string) (Challenge, error) {
	var ch Challenge
	var issuedAt, expiresAt int64

	err := q.QueryRowContext(ctx, `
		SELECT phone_number, code_hash, attempts, issued_at, expires_at
		FROM otp_challenge WHERE phone_number = $1
	`, phoneNumber).Scan(&ch.PhoneNumber, &ch.CodeHash, &ch.Attempts, &issuedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Challenge{}, ErrNotFound
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ch.IssuedAt = time.UnixMilli(issuedAt)
	ch.ExpiresAt = time.UnixMilli(expiresAt)
	return ch, nil
}
