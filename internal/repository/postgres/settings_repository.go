package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
)

// SettingsRepository реализация репозитория настроек для PostgreSQL
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository создает новый экземпляр SettingsRepository
func NewSettingsRepository(pool *pgxpool.Pool) repository.SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// GetByUserID возвращает настройки аккаунта
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserSettings, error) {
	query := `SELECT user_id, login, domain, domain_connected, sitemap_enabled, image_quality, watermark_position, webp_enabled, auth_method, timezone, items_per_page, notify_orders, notify_messages, panel_enabled, created_at, updated_at
		FROM user_settings WHERE user_id = $1`

	var settings domain.UserSettings
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.Login,
		&settings.Domain,
		&settings.DomainConnected,
		&settings.SitemapEnabled,
		&settings.ImageQuality,
		&settings.WatermarkPosition,
		&settings.WebpEnabled,
		&settings.AuthMethod,
		&settings.Timezone,
		&settings.ItemsPerPage,
		&settings.NotifyOrders,
		&settings.NotifyMessages,
		&settings.PanelEnabled,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.ErrNotFound, "settings not found")
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

// Apply обновляет заполненные поля патча одним UPDATE. nil-указатели
// передаются как NULL и через COALESCE оставляют текущее значение,
// поэтому конкурентные обновления разных полей не конфликтуют.
func (r *SettingsRepository) Apply(ctx context.Context, userID int64, patch *domain.SettingsPatch) error {
	query := `UPDATE user_settings SET
		login = COALESCE($2, login),
		domain = COALESCE($3, domain),
		domain_connected = COALESCE($4, domain_connected),
		sitemap_enabled = COALESCE($5, sitemap_enabled),
		image_quality = COALESCE($6, image_quality),
		watermark_position = COALESCE($7, watermark_position),
		webp_enabled = COALESCE($8, webp_enabled),
		auth_method = COALESCE($9, auth_method),
		timezone = COALESCE($10, timezone),
		items_per_page = COALESCE($11, items_per_page),
		notify_orders = COALESCE($12, notify_orders),
		notify_messages = COALESCE($13, notify_messages),
		panel_enabled = COALESCE($14, panel_enabled),
		updated_at = NOW()
	WHERE user_id = $1`

	result, err := r.pool.Exec(ctx, query,
		userID,
		patch.Login,
		patch.Domain,
		patch.DomainConnected,
		patch.SitemapEnabled,
		patch.ImageQuality,
		patch.WatermarkPosition,
		patch.WebpEnabled,
		patch.AuthMethod,
		patch.Timezone,
		patch.ItemsPerPage,
		patch.NotifyOrders,
		patch.NotifyMessages,
		patch.PanelEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrNotFound, "settings not found")
	}

	return nil
}
