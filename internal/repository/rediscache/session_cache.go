// Package rediscache реализует кеш сессий поверх Redis.
// Кеш опционален: при его недоступности запросы идут в PostgreSQL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/pkg/hash"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
)

const keyPrefix = "session:"

// SessionCache кеширует сессии по хешу access-токена.
// Сырые токены в Redis не попадают.
type SessionCache struct {
	client *redis.Client
	hasher *hash.TokenHasher
}

// NewSessionCache создает новый экземпляр SessionCache
func NewSessionCache(client *redis.Client) repository.SessionCache {
	return &SessionCache{
		client: client,
		hasher: hash.NewTokenHasher(),
	}
}

// Get возвращает сессию из кеша. Промах возвращается как NOT_FOUND.
func (c *SessionCache) Get(ctx context.Context, accessToken string) (*domain.Session, error) {
	data, err := c.client.Get(ctx, c.key(accessToken)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.New(apperrors.ErrNotFound, "session not in cache")
		}
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}

	// Кеш может пережить сессию на границе TTL
	if !session.Valid(time.Now()) {
		return nil, apperrors.New(apperrors.ErrNotFound, "cached session expired")
	}

	return &session, nil
}

// Set сохраняет сессию в кеш с TTL до конца ее жизни
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, c.key(session.AccessToken), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}

	return nil
}

// Invalidate удаляет сессию из кеша. Вызывается при ротации и отзыве.
func (c *SessionCache) Invalidate(ctx context.Context, accessToken string) error {
	if err := c.client.Del(ctx, c.key(accessToken)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached session: %w", err)
	}
	return nil
}

func (c *SessionCache) key(accessToken string) string {
	return keyPrefix + c.hasher.Hash(accessToken)
}
