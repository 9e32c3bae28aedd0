package estimate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"junkbutler/models"

	"github.com/go-redis/redis/v8"
)

const (
	dialogueKeyPrefix = "estimate:dlg:"
	resultKeyPrefix   = "estimate:result:"
	resultTTL         = 24 * time.Hour
)

// Store keeps dialogues for the lifetime of one estimate.
type Store interface {
	Get(ctx context.Context, id string) (*Dialogue, error)
	Save(ctx context.Context, d *Dialogue) error
	Delete(ctx context.Context, id string) error
	SaveResult(ctx context.Context, est models.CompletedEstimate) error
	GetResult(ctx context.Context, id string) (*models.CompletedEstimate, error)
}

// RedisStore keeps each dialogue as one JSON value that expires ttl after
// its last write. Completed estimates are kept longer so the booking form can
// still load them after the dialogue is gone.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Dialogue, error) {
	data, err := s.client.Get(ctx, dialogueKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("estimate: load dialogue: %w", err)
	}
	var d Dialogue
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("estimate: decode dialogue: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, d *Dialogue) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("estimate: encode dialogue: %w", err)
	}
	return s.client.Set(ctx, dialogueKeyPrefix+d.ID, b, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, dialogueKeyPrefix+id, resultKeyPrefix+id).Err()
}

func (s *RedisStore) SaveResult(ctx context.Context, est models.CompletedEstimate) error {
	b, err := json.Marshal(est)
	if err != nil {
		return fmt.Errorf("estimate: encode result: %w", err)
	}
	return s.client.Set(ctx, resultKeyPrefix+est.SessionID, b, resultTTL).Err()
}

func (s *RedisStore) GetResult(ctx context.Context, id string) (*models.CompletedEstimate, error) {
	data, err := s.client.Get(ctx, resultKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("estimate: load result: %w", err)
	}
	var est models.CompletedEstimate
	if err := json.Unmarshal(data, &est); err != nil {
		return nil, fmt.Errorf("estimate: decode result: %w", err)
	}
	return &est, nil
}
