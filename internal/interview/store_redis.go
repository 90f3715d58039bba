package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const sessionKeyPrefix = "interview_session:"

// RedisStore persists interview sessions to Redis. Compare-and-swap is
// implemented with WATCH/MULTI so a racing writer aborts the transaction.
type RedisStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

var _ SessionStore = (*RedisStore)(nil)

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	if redisClient == nil {
		panic("interview: redis client cannot be nil")
	}
	return &RedisStore{
		redis:  redisClient,
		tracer: otel.Tracer("pitchlane.internal.interview.redis_store"),
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Get loads and decodes a session.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*InterviewSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: sessionID required", ErrValidation)
	}

	ctx, span := s.tracer.Start(ctx, "interview.session_store.get")
	defer span.End()

	raw, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("%w: redis get: %s", ErrStoreUnavailable, err)
	}

	var session InterviewSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("interview: decode session: %w", err)
	}
	return &session, nil
}

// Put stores the session under WATCH so a concurrent write aborts this one.
func (s *RedisStore) Put(ctx context.Context, session *InterviewSession) error {
	if session == nil || session.SessionID == "" {
		return fmt.Errorf("%w: session required", ErrValidation)
	}

	ctx, span := s.tracer.Start(ctx, "interview.session_store.put")
	defer span.End()

	expected := session.Revision
	key := sessionKey(session.SessionID)

	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expected != 0 {
				return ErrRevisionConflict
			}
		case err != nil:
			return fmt.Errorf("%w: redis get: %s", ErrStoreUnavailable, err)
		default:
			var stored InterviewSession
			if decodeErr := json.Unmarshal(raw, &stored); decodeErr != nil {
				return fmt.Errorf("interview: decode stored session: %w", decodeErr)
			}
			if stored.Revision != expected {
				return ErrRevisionConflict
			}
		}

		session.Revision = expected + 1
		data, err := json.Marshal(session)
		if err != nil {
			session.Revision = expected
			return fmt.Errorf("interview: marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			session.Revision = expected
			return err
		}
		return nil
	}

	if err := s.redis.Watch(ctx, txn, key); err != nil {
		span.RecordError(err)
		if errors.Is(err, redis.TxFailedErr) {
			session.Revision = expected
			return ErrRevisionConflict
		}
		if errors.Is(err, ErrRevisionConflict) || errors.Is(err, ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("%w: redis put: %s", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the session key.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: sessionID required", ErrValidation)
	}

	ctx, span := s.tracer.Start(ctx, "interview.session_store.delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: redis delete: %s", ErrStoreUnavailable, err)
	}
	return nil
}
