package repository

import (
	"context"

	"SellerPanelPlatform/internal/domain"
	apperrors "SellerPanelPlatform/pkg/errors"
)

// NopSessionCache кеш-заглушка для конфигураций без Redis:
// каждое чтение дает промах, записи игнорируются.
type NopSessionCache struct{}

// NewNopSessionCache создает кеш-заглушку
func NewNopSessionCache() *NopSessionCache {
	return &NopSessionCache{}
}

// Get всегда возвращает промах
func (c *NopSessionCache) Get(ctx context.Context, accessToken string) (*domain.Session, error) {
	return nil, apperrors.New(apperrors.ErrNotFound, "session cache disabled")
}

// Set ничего не делает
func (c *NopSessionCache) Set(ctx context.Context, session *domain.Session) error {
	return nil
}

// Invalidate ничего не делает
func (c *NopSessionCache) Invalidate(ctx context.Context, accessToken string) error {
	return nil
}
