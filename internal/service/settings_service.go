package service

import (
	"context"
	"strings"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/events"
	"SellerPanelPlatform/internal/pkg/password"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
)

// Типы настроек, принимаемые POST /settings. Первая группа сохраняется
// в хранилище, вторая принимается без постоянного эффекта (внешние
// интеграции, для которых бэкенда пока нет).
const (
	SettingAccount  = "account"
	SettingPassword = "password"
	SettingAuth     = "auth"
	SettingSitemap  = "sitemap"
	SettingImages   = "images"
	SettingWebp     = "webp"
	SettingPanel    = "panel"
	SettingTelegram = "telegram"
	SettingDomain   = "domain"

	SettingRedirect              = "redirect"
	SettingMail                  = "mail"
	SettingSape                  = "sape"
	SettingSMSNotifications      = "sms_notifications"
	SettingTelegramNotifications = "telegram_notifications"
	SettingEmailNotifications    = "email_notifications"
	SettingBackup                = "backup_settings"
	SettingCopyData              = "copy_data"
	SettingDeleteAccount         = "delete_account"
)

// SettingsUpdate представляет тело запроса POST /settings.
// Указатели отличают отсутствующее поле от нулевого значения.
type SettingsUpdate struct {
	Type string `json:"type"`

	Login string `json:"login"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`

	AuthMethod       *string `json:"auth_method"`
	TwoFactorEnabled *bool   `json:"two_factor_enabled"`

	SitemapEnabled *bool `json:"sitemap_enabled"`

	Quality           *int    `json:"quality"`
	WatermarkPosition *string `json:"watermark_position"`

	WebpEnabled *bool `json:"webp_enabled"`

	ItemsPerPage   *int    `json:"items_per_page"`
	NotifyOrders   *bool   `json:"notify_orders"`
	NotifyMessages *bool   `json:"notify_messages"`
	Timezone       *string `json:"timezone"`
	PanelEnabled   *bool   `json:"panel_enabled"`

	TelegramAccount string `json:"telegram_account"`

	Domain string `json:"domain"`
}

// SettingsService интерфейс для сервиса настроек аккаунта
type SettingsService interface {
	Get(ctx context.Context, userID int64) (*domain.Settings, error)
	Update(ctx context.Context, userID int64, update *SettingsUpdate) (string, error)
	UnlinkTelegram(ctx context.Context, userID int64) (string, error)
}

// settingsService реализация SettingsService
type settingsService struct {
	userRepository     repository.UserRepository
	settingsRepository repository.SettingsRepository
	passwordHasher     password.Hasher
	publisher          events.Publisher
	logger             logger.Logger
}

// NewSettingsService создает новый экземпляр SettingsService
func NewSettingsService(
	userRepository repository.UserRepository,
	settingsRepository repository.SettingsRepository,
	passwordHasher password.Hasher,
	publisher events.Publisher,
	log logger.Logger,
) SettingsService {
	return &settingsService{
		userRepository:     userRepository,
		settingsRepository: settingsRepository,
		passwordHasher:     passwordHasher,
		publisher:          publisher,
		logger:             log,
	}
}

// Get возвращает снимок настроек аккаунта
func (s *settingsService) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	user, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepository.GetByUserID(ctx, userID)
	if err != nil {
		// Строка настроек создается при регистрации; ее отсутствие
		// означает мигрированный извне аккаунт, отдаем значения
		// по умолчанию
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			settings = domain.DefaultUserSettings(userID)
		} else {
			return nil, err
		}
	}

	login := settings.Login
	if login == "" {
		login = loginFromEmail(user.Email)
	}

	return &domain.Settings{
		Login:             login,
		Email:             user.Email,
		Phone:             user.Phone,
		PhoneVerified:     user.PhoneVerified,
		TelegramAccount:   user.TelegramAccount,
		TelegramConnected: user.TelegramConnected,
		Domain:            settings.Domain,
		DomainConnected:   settings.DomainConnected,
		SitemapEnabled:    settings.SitemapEnabled,
		ImageQuality:      settings.ImageQuality,
		WatermarkPosition: settings.WatermarkPosition,
		WebpEnabled:       settings.WebpEnabled,
		AuthMethod:        settings.AuthMethod,
		Timezone:          settings.Timezone,
		ItemsPerPage:      settings.ItemsPerPage,
		NotifyOrders:      settings.NotifyOrders,
		NotifyMessages:    settings.NotifyMessages,
	}, nil
}

// Update применяет обновление одного типа настроек и возвращает
// локализованное сообщение для клиента
func (s *settingsService) Update(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	var (
		message string
		err     error
	)

	switch update.Type {
	case SettingAccount:
		message, err = s.updateAccount(ctx, userID, update)
	case SettingPassword:
		message, err = s.updatePassword(ctx, userID, update)
	case SettingAuth:
		message, err = s.updateAuth(ctx, userID, update)
	case SettingSitemap:
		message, err = s.updateSitemap(ctx, userID, update)
	case SettingImages:
		message, err = s.updateImages(ctx, userID, update)
	case SettingWebp:
		message, err = s.updateWebp(ctx, userID, update)
	case SettingPanel:
		message, err = s.updatePanel(ctx, userID, update)
	case SettingTelegram:
		message, err = s.updateTelegram(ctx, userID, update)
	case SettingDomain:
		message, err = s.updateDomain(ctx, userID, update)
	case SettingRedirect:
		message = "Настройки редиректов обновлены"
	case SettingMail:
		message = "Настройки почты обновлены"
	case SettingSape:
		message = "Настройки Sape обновлены"
	case SettingSMSNotifications:
		message = "Настройки SMS-уведомлений обновлены"
	case SettingTelegramNotifications:
		message = "Настройки Telegram-уведомлений обновлены"
	case SettingEmailNotifications:
		message = "Настройки email-уведомлений обновлены"
	case SettingBackup:
		message = "Настройки резервного копирования обновлены"
	case SettingCopyData:
		message = "Копирование данных запущено"
	case SettingDeleteAccount:
		message = "Запрос на удаление аккаунта принят"
	default:
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"unknown settings type", "Неизвестный тип настроек")
	}

	if err != nil {
		return "", err
	}

	if pubErr := s.publisher.Publish(ctx, events.EventSettingsUpdated, userID,
		map[string]interface{}{"type": update.Type}); pubErr != nil {
		s.logger.Warn("Failed to publish settings event",
			logger.Int64("user_id", userID),
			logger.String("type", update.Type),
			logger.Error(pubErr))
	}

	return message, nil
}

// UnlinkTelegram отвязывает Telegram-аккаунт
func (s *settingsService) UnlinkTelegram(ctx context.Context, userID int64) (string, error) {
	if err := s.userRepository.UpdateTelegram(ctx, userID, "", false); err != nil {
		return "", err
	}

	if err := s.publisher.Publish(ctx, events.EventTelegramUnlinked, userID, nil); err != nil {
		s.logger.Warn("Failed to publish telegram unlink event",
			logger.Int64("user_id", userID), logger.Error(err))
	}

	return "Telegram аккаунт отвязан", nil
}

func (s *settingsService) updateAccount(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	email := NormalizeEmail(update.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"invalid email address", "Некорректный email адрес")
	}

	if err := s.userRepository.UpdateAccount(ctx, userID, email, update.Phone); err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) {
			return "", apperrors.NewLocalized(apperrors.ErrConflict,
				"email already registered", "Пользователь с таким email уже существует")
		}
		return "", err
	}

	if update.Login != "" {
		if err := s.settingsRepository.Apply(ctx, userID,
			&domain.SettingsPatch{Login: &update.Login}); err != nil {
			return "", err
		}
	}

	return "Настройки аккаунта обновлены", nil
}

func (s *settingsService) updatePassword(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if !s.passwordHasher.Validate(update.NewPassword) {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"new password too short", "Пароль должен содержать минимум 6 символов")
	}
	if update.OldPassword == "" {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"old password is required", "Введите старый пароль")
	}

	user, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if !s.passwordHasher.Check(update.OldPassword, user.PasswordHash) {
		return "", apperrors.NewLocalized(apperrors.ErrUnauthorized,
			"old password mismatch", "Неверный старый пароль")
	}

	passwordHash, err := s.passwordHasher.Hash(update.NewPassword)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal, "failed to hash password")
	}

	if err := s.userRepository.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return "", err
	}

	return "Пароль успешно изменен", nil
}

func (s *settingsService) updateAuth(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if err := s.settingsRepository.Apply(ctx, userID,
		&domain.SettingsPatch{AuthMethod: update.AuthMethod}); err != nil {
		return "", err
	}

	if update.TwoFactorEnabled != nil {
		if err := s.userRepository.UpdateTwoFactor(ctx, userID, *update.TwoFactorEnabled); err != nil {
			return "", err
		}
	}

	return "Настройки авторизации обновлены", nil
}

func (s *settingsService) updateSitemap(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if err := s.settingsRepository.Apply(ctx, userID,
		&domain.SettingsPatch{SitemapEnabled: update.SitemapEnabled}); err != nil {
		return "", err
	}

	return "Настройки sitemap обновлены", nil
}

func (s *settingsService) updateImages(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if update.Quality != nil && (*update.Quality < 1 || *update.Quality > 100) {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"quality out of range", "Качество должно быть от 1 до 100")
	}

	if err := s.settingsRepository.Apply(ctx, userID, &domain.SettingsPatch{
		ImageQuality:      update.Quality,
		WatermarkPosition: update.WatermarkPosition,
	}); err != nil {
		return "", err
	}

	return "Настройки изображений обновлены", nil
}

func (s *settingsService) updateWebp(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if err := s.settingsRepository.Apply(ctx, userID,
		&domain.SettingsPatch{WebpEnabled: update.WebpEnabled}); err != nil {
		return "", err
	}

	return "Настройки WebP обновлены", nil
}

func (s *settingsService) updatePanel(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if update.ItemsPerPage != nil && *update.ItemsPerPage < 1 {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"items_per_page out of range", "Количество элементов на странице должно быть больше нуля")
	}

	if err := s.settingsRepository.Apply(ctx, userID, &domain.SettingsPatch{
		ItemsPerPage:   update.ItemsPerPage,
		NotifyOrders:   update.NotifyOrders,
		NotifyMessages: update.NotifyMessages,
		Timezone:       update.Timezone,
		PanelEnabled:   update.PanelEnabled,
	}); err != nil {
		return "", err
	}

	return "Настройки панели управления обновлены", nil
}

func (s *settingsService) updateTelegram(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	if update.TelegramAccount == "" {
		return "", apperrors.NewLocalized(apperrors.ErrValidation,
			"telegram account is required", "Укажите Telegram аккаунт")
	}

	if err := s.userRepository.UpdateTelegram(ctx, userID, update.TelegramAccount, true); err != nil {
		return "", err
	}

	return "Telegram аккаунт привязан", nil
}

func (s *settingsService) updateDomain(ctx context.Context, userID int64, update *SettingsUpdate) (string, error) {
	// Пустой домен отключает привязку
	connected := update.Domain != ""
	if err := s.settingsRepository.Apply(ctx, userID, &domain.SettingsPatch{
		Domain:          &update.Domain,
		DomainConnected: &connected,
	}); err != nil {
		return "", err
	}

	return "Настройки домена обновлены", nil
}

// loginFromEmail выводит отображаемый логин из локальной части email
func loginFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
