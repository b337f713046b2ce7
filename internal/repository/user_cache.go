package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/procurement-service/internal/domain"
)

// CachedUserRepository is a redis read-through cache in front of a
// UserRepository. Users are read on every authenticated request and never
// change after creation, so a short TTL is enough to keep deletions from
// lingering.
type CachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
}

// NewCachedUserRepository wraps the repository with a redis cache. A nil
// client disables caching.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedUserRepository) cacheKey(id string) string {
	return "user:" + id
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.client != nil {
		// Misses, stale JSON and redis outages all fall through to the
		// database.
		if raw, err := r.client.Get(ctx, r.cacheKey(id)).Bytes(); err == nil {
			var user domain.User
			if jsonErr := json.Unmarshal(raw, &user); jsonErr == nil {
				return &user, nil
			}
		}
	}

	user, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.client != nil {
		if raw, jsonErr := json.Marshal(user); jsonErr == nil {
			_ = r.client.Set(ctx, r.cacheKey(id), raw, r.ttl).Err()
		}
	}
	return user, nil
}

func (r *CachedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.inner.Create(ctx, user)
}

func (r *CachedUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.inner.GetByLogin(ctx, login)
}

func (r *CachedUserRepository) ListByIDs(ctx context.Context, ids []string) (map[string]domain.User, error) {
	return r.inner.ListByIDs(ctx, ids)
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	if r.client != nil {
		_ = r.client.Del(ctx, r.cacheKey(id)).Err()
	}
	return nil
}
