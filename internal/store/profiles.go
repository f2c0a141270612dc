// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/models"

	"github.com/redis/go-redis/v9"
)

// ProfileStore reads user profile documents with an optional redis
// read-through cache. Cache failures fall back to the database silently.
type ProfileStore struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewProfileStore(db *sql.DB, cache *redis.Client, cacheTTL time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func profileCacheKey(id string) string {
	return "profile:" + id
}

// GetProfile returns the profile with the given id, or (nil, nil) when
// absent. A missing push token is a normal state.
func (s *ProfileStore) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	if p := s.cacheGet(ctx, id); p != nil {
		return p, nil
	}

	var (
		name      string
		pushToken sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, push_token FROM users WHERE id = $1`, id,
	).Scan(&name, &pushToken)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}

	profile := &models.UserProfile{
		ID:        id,
		Name:      name,
		PushToken: pushToken.String,
	}
	s.cacheSet(ctx, profile)
	return profile, nil
}

func (s *ProfileStore) cacheGet(ctx context.Context, id string) *models.UserProfile {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, profileCacheKey(id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("profile cache read failed", map[string]interface{}{
				"userId": id,
				"error":  err.Error(),
			})
		}
		return nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil
	}
	return &profile
}

func (s *ProfileStore) cacheSet(ctx context.Context, profile *models.UserProfile) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileCacheKey(profile.ID), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("profile cache write failed", map[string]interface{}{
			"userId": profile.ID,
			"error":  err.Error(),
		})
	}
}
