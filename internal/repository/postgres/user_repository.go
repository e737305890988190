package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
)

// uniqueViolation код ошибки PostgreSQL для нарушения уникальности
const uniqueViolation = "23505"

// UserRepository реализация репозитория пользователей для PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &UserRepository{pool: pool}
}

// Create сохраняет пользователя и его настройки в одной транзакции.
// Аккаунт без строки настроек существовать не должен.
func (r *UserRepository) Create(ctx context.Context, user *domain.User, settings *domain.UserSettings) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO users (email, password_hash, phone, phone_verified, two_factor_enabled, telegram_account, telegram_connected, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err = tx.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.PhoneVerified,
		user.TwoFactorEnabled,
		user.TelegramAccount,
		user.TelegramConnected,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	settings.UserID = user.ID
	settings.CreatedAt = now
	settings.UpdatedAt = now

	settingsQuery := `INSERT INTO user_settings (user_id, login, domain, domain_connected, sitemap_enabled, image_quality, watermark_position, webp_enabled, auth_method, timezone, items_per_page, notify_orders, notify_messages, panel_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = tx.Exec(ctx, settingsQuery,
		settings.UserID,
		settings.Login,
		settings.Domain,
		settings.DomainConnected,
		settings.SitemapEnabled,
		settings.ImageQuality,
		settings.WatermarkPosition,
		settings.WebpEnabled,
		settings.AuthMethod,
		settings.Timezone,
		settings.ItemsPerPage,
		settings.NotifyOrders,
		settings.NotifyMessages,
		settings.PanelEnabled,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, phone, phone_verified, two_factor_enabled, telegram_account, telegram_connected, created_at, updated_at
		FROM users WHERE email = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// GetByID возвращает пользователя по его ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, password_hash, phone, phone_verified, two_factor_enabled, telegram_account, telegram_connected, created_at, updated_at
		FROM users WHERE id = $1`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.PhoneVerified,
		&user.TwoFactorEnabled,
		&user.TelegramAccount,
		&user.TelegramConnected,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdatePassword обновляет хеш пароля пользователя
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrNotFound, "user not found")
	}

	return nil
}

// UpdateAccount обновляет email и телефон пользователя.
// Смена телефона сбрасывает флаг его подтверждения.
func (r *UserRepository) UpdateAccount(ctx context.Context, id int64, email, phone string) error {
	query := `UPDATE users SET
		email = $2,
		phone = $3,
		phone_verified = (phone = $3 AND phone_verified),
		updated_at = NOW()
	WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, email, phone)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.ErrConflict, "email already registered")
		}
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrNotFound, "user not found")
	}

	return nil
}

// UpdateTwoFactor переключает двухфакторную аутентификацию
func (r *UserRepository) UpdateTwoFactor(ctx context.Context, id int64, enabled bool) error {
	query := `UPDATE users SET two_factor_enabled = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to update two factor flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrNotFound, "user not found")
	}

	return nil
}

// UpdateTelegram обновляет привязку Telegram-аккаунта
func (r *UserRepository) UpdateTelegram(ctx context.Context, id int64, account string, connected bool) error {
	query := `UPDATE users SET telegram_account = $2, telegram_connected = $3, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, account, connected)
	if err != nil {
		return fmt.Errorf("failed to update telegram: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrNotFound, "user not found")
	}

	return nil
}
