package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/sms-relay/internal/errors"
	"github.com/allisson/sms-relay/internal/sms/domain"
)

const redisKeyPrefix = "sms-relay:gateway-reference:"

// RedisClient is the subset of *redis.Client used by RedisReferenceRepository.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type redisReference struct {
	NotificationID uuid.UUID `json:"notificationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RedisReferenceRepository stores gateway references in redis so all replicas
// resolve delivery reports the same way.
type RedisReferenceRepository struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisReferenceRepository creates a store whose keys expire after ttl.
func NewRedisReferenceRepository(client RedisClient, ttl time.Duration) *RedisReferenceRepository {
	return &RedisReferenceRepository{client: client, ttl: ttl}
}

// Save records the reference with SETNX.
func (r *RedisReferenceRepository) Save(ctx context.Context, ref *domain.GatewayReference) error {
	value, err := json.Marshal(redisReference{NotificationID: ref.NotificationID, CreatedAt: ref.CreatedAt})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode gateway reference")
	}

	stored, err := r.client.SetNX(ctx, redisKeyPrefix+ref.Reference, value, r.ttl).Result()
	if err != nil {
		return apperrors.Wrap(err, "failed to save gateway reference")
	}
	if stored {
		return nil
	}
	return resolveConflict(ctx, r.Get, ref)
}

// Get returns the mapping for reference or domain.ErrReferenceNotFound.
func (r *RedisReferenceRepository) Get(ctx context.Context, reference string) (*domain.GatewayReference, error) {
	value, err := r.client.Get(ctx, redisKeyPrefix+reference).Result()
	if err != nil {
		if apperrors.Is(err, redis.Nil) {
			return nil, domain.ErrReferenceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get gateway reference")
	}

	var stored redisReference
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode gateway reference")
	}
	return &domain.GatewayReference{
		Reference:      reference,
		NotificationID: stored.NotificationID,
		CreatedAt:      stored.CreatedAt,
	}, nil
}
