package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
)

// SessionRepository реализация репозитория сессий для PostgreSQL.
// Истекшие сессии отсекаются условием expires_at > NOW() прямо в
// запросах, отдельного фонового процесса очистки не требуется.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create сохраняет новую сессию
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	query := `INSERT INTO sessions (id, user_id, access_token, refresh_token, ip_address, user_agent, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.AccessToken,
		session.RefreshToken,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByAccessToken возвращает живую сессию по access-токену
func (r *SessionRepository) GetByAccessToken(ctx context.Context, accessToken string) (*domain.Session, error) {
	query := `SELECT id, user_id, access_token, refresh_token, ip_address, user_agent, expires_at, created_at, updated_at
		FROM sessions WHERE access_token = $1 AND expires_at > NOW()`

	return r.scanSession(r.pool.QueryRow(ctx, query, accessToken))
}

// GetByRefreshToken возвращает живую сессию по refresh-токену
func (r *SessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	query := `SELECT id, user_id, access_token, refresh_token, ip_address, user_agent, expires_at, created_at, updated_at
		FROM sessions WHERE refresh_token = $1 AND expires_at > NOW()`

	return r.scanSession(r.pool.QueryRow(ctx, query, refreshToken))
}

// Rotate атомарно заменяет пару токенов сессии. Условие WHERE по старому
// refresh-токену гарантирует, что из двух конкурентных запросов
// обновление выполнит только один; второй получит UNAUTHORIZED.
func (r *SessionRepository) Rotate(ctx context.Context, refreshToken, newAccess, newRefresh string, expiresAt time.Time) (*domain.Session, error) {
	query := `UPDATE sessions SET
		access_token = $2,
		refresh_token = $3,
		expires_at = $4,
		updated_at = NOW()
	WHERE refresh_token = $1 AND expires_at > NOW()
	RETURNING id, user_id, access_token, refresh_token, ip_address, user_agent, expires_at, created_at, updated_at`

	var session domain.Session
	err := r.pool.QueryRow(ctx, query, refreshToken, newAccess, newRefresh, expiresAt).Scan(
		&session.ID,
		&session.UserID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrUnauthorized, "refresh token is invalid or expired")
		}
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return &session, nil
}

// Revoke удаляет сессию по идентификатору и возвращает удаленную строку,
// чтобы вызывающий мог инвалидировать кеш по access-токену
func (r *SessionRepository) Revoke(ctx context.Context, sessionID string) (*domain.Session, error) {
	query := `DELETE FROM sessions WHERE id = $1
		RETURNING id, user_id, access_token, refresh_token, ip_address, user_agent, expires_at, created_at, updated_at`

	return r.scanSession(r.pool.QueryRow(ctx, query, sessionID))
}

// DeleteExpired удаляет истекшие сессии и возвращает их количество.
// Вызывается вручную или по расписанию; корректность выборок от этого
// не зависит.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *SessionRepository) scanSession(row pgx.Row) (*domain.Session, error) {
	var session domain.Session
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.AccessToken,
		&session.RefreshToken,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrNotFound, "session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}
