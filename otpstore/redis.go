// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package otpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// consumeRetries bounds optimistic-lock retries when another request
// touches the same challenge.
const consumeRetries = 3

// RedisStore keeps each challenge as a JSON value that expires with the
// challenge.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "otp"
	}
	return &RedisStore{redis: client, prefix: prefix}
}

func (s *RedisStore) key(phoneNumber string) string {
	return s.prefix + ":" + phoneNumber
}

func (s *RedisStore) Save(ctx context.Context, ch Challenge) error {
	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, s.key(ch.PhoneNumber), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, phoneNumber string) (Challenge, error) {
	data, err := s.redis.Get(ctx, s.key(phoneNumber)).Bytes()
	return decode(data, err)
}

func (s *RedisStore) Consume(ctx context.Context, phoneNumber, codeHash string, maxAttempts int, now time.Time) error {
	key := s.key(phoneNumber)
	var result error

	txf := func(tx *redis.Tx) error {
		ch, err := decode(tx.Get(ctx, key).Bytes())
		if err != nil {
			return err
		}

		ch, keep, res := check(ch, codeHash, maxAttempts, now)
		result = res

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if keep {
				data, err := json.Marshal(ch)
				if err != nil {
					return err
				}
				pipe.Set(ctx, key, data, ch.ExpiresAt.Sub(now))
			} else {
				pipe.Del(ctx, key)
			}
			return nil
		})
		return err
	}

	for i := 0; i < consumeRetries; i++ {
		err := s.redis.Watch(ctx, txf, key)
		if err == nil {
			return result
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: too much contention", ErrUnavailable)
}

func decode(data []byte, err error) (Challenge, error) {
	if errors.Is(err, redis.Nil) {
		return Challenge{}, ErrNotFound
	}
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return Challenge{}, fmt.Errorf("%w: corrupt challenge: %v", ErrUnavailable, err)
	}
	return ch, nil
}
