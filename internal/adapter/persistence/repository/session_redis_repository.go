package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix  = "estimate:session:" // estimate:session:{session_id}
	defaultSessionTTL = 24 * time.Hour
	maxUpdateAttempts = 50
)

// SessionRedisRepository keeps one JSON document per wizard session. Every
// write refreshes the TTL, so idle sessions expire on their own.
type SessionRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.ISessionRepository = (*SessionRedisRepository)(nil)

func NewSessionRedisRepository(client *redis.Client, ttl time.Duration) *SessionRedisRepository {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRedisRepository{client: client, ttl: ttl}
}

func (r *SessionRedisRepository) Get(ctx context.Context, id string) (entities.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.Session{}, nil
	}
	if err != nil {
		return entities.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var s entities.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return entities.Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return s, nil
}

func (r *SessionRedisRepository) Save(ctx context.Context, s entities.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update is an optimistic read-modify-write: the key is WATCHed while apply
// runs and the SET only commits if nobody else wrote it in between.
func (r *SessionRedisRepository) Update(ctx context.Context, id string, apply func(*entities.Session) error) (entities.Session, error) {
	key := sessionKey(id)
	var out entities.Session

	txf := func(tx *redis.Tx) error {
		out = entities.Session{}
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}

		var s entities.Session
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if err := apply(&s); err != nil {
			return err
		}
		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = s
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return entities.Session{}, err
	}
	return entities.Session{}, interfaces.ErrSessionConflict
}

func (r *SessionRedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
