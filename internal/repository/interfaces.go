// Package repository определяет контракты слоя хранения.
package repository

import (
	"context"
	"time"

	"SellerPanelPlatform/internal/domain"
)

// UserRepository определяет операции над пользователями
type UserRepository interface {
	// Create вставляет пользователя и его настройки в одной транзакции.
	// При конфликте email возвращает ошибку с кодом CONFLICT.
	Create(ctx context.Context, user *domain.User, settings *domain.UserSettings) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateAccount(ctx context.Context, id int64, email, phone string) error
	UpdateTelegram(ctx context.Context, id int64, account string, connected bool) error
	UpdateTwoFactor(ctx context.Context, id int64, enabled bool) error
}

// SessionRepository определяет операции над сессиями.
// Все выборки фильтруют истекшие сессии на уровне SQL (ленивое истечение).
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByAccessToken(ctx context.Context, accessToken string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	// Rotate заменяет пару токенов одним условным UPDATE по старому
	// refresh-токену. Возвращает ошибку UNAUTHORIZED, если токен уже
	// был заменен конкурентным запросом или сессия истекла.
	Rotate(ctx context.Context, refreshToken, newAccess, newRefresh string, expiresAt time.Time) (*domain.Session, error)
	// Revoke удаляет сессию и возвращает удаленную строку, чтобы
	// вызывающий мог инвалидировать кеш по ее access-токену
	Revoke(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// SettingsRepository определяет операции над настройками аккаунта
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.UserSettings, error)
	// Apply обновляет только заполненные поля патча одним UPDATE,
	// конкурентные обновления разных полей не затирают друг друга
	Apply(ctx context.Context, userID int64, patch *domain.SettingsPatch) error
}

// SessionCache определяет кеш сессий поверх основного хранилища.
// Реализации должны деградировать без ошибок: промах кеша не
// отличается от его недоступности.
type SessionCache interface {
	Get(ctx context.Context, accessToken string) (*domain.Session, error)
	Set(ctx context.Context, session *domain.Session) error
	Invalidate(ctx context.Context, accessToken string) error
}
