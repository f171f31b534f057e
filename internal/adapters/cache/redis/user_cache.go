package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
)

const keyPrefix = "user:"

// snapshot is the cached wire form of a user. It is explicit rather than the
// model struct because the model hides the password hash and refresh token
// from JSON, and a snapshot must round-trip the whole entity.
type snapshot struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Confirmed    bool       `json:"confirmed"`
	Role         model.Role `json:"role"`
	RefreshToken string     `json:"refresh_token"`
	Avatar       string     `json:"avatar"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserCache stores username-keyed user snapshots with a fixed TTL. A shared
// client is injected once at startup; the cache never owns its lifecycle.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func (c *UserCache) Get(ctx context.Context, username string) (model.User, error) {
	raw, err := c.client.Get(ctx, keyPrefix+username).Bytes()
	switch {
	case err == redis.Nil:
		return model.User{}, customErrors.ErrNotFound
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "cache get")
	}

	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		// Corrupt entry: drop it and report a miss.
		c.client.Del(ctx, keyPrefix+username)
		return model.User{}, customErrors.ErrNotFound
	}

	return model.User{
		ID:           s.ID,
		Username:     s.Username,
		Email:        s.Email,
		PasswordHash: s.PasswordHash,
		Confirmed:    s.Confirmed,
		Role:         s.Role,
		RefreshToken: s.RefreshToken,
		Avatar:       s.Avatar,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}, nil
}

func (c *UserCache) Put(ctx context.Context, username string, user model.User) error {
	raw, err := json.Marshal(snapshot{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Confirmed:    user.Confirmed,
		Role:         user.Role,
		RefreshToken: user.RefreshToken,
		Avatar:       user.Avatar,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	})
	if err != nil {
		return customErrors.WrapInternal(err, "cache put")
	}
	if err := c.client.Set(ctx, keyPrefix+username, raw, c.ttl).Err(); err != nil {
		return customErrors.WrapInternal(err, "cache put")
	}
	return nil
}

func (c *UserCache) Invalidate(ctx context.Context, username string) error {
	if err := c.client.Del(ctx, keyPrefix+username).Err(); err != nil {
		return customErrors.WrapInternal(err, "cache invalidate")
	}
	return nil
}
