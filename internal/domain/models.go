package domain

import (
	"time"
)

// User представляет владельца аккаунта панели.
// Пароли хранятся с использованием bcrypt (per-user соль внутри хеша).
// Email уникален и нормализуется к нижнему регистру при регистрации.
type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Phone             string    `json:"phone"`
	PhoneVerified     bool      `json:"phone_verified"`
	TwoFactorEnabled  bool      `json:"two_factor_enabled"`
	TelegramAccount   string    `json:"telegram_account"`
	TelegramConnected bool      `json:"telegram_connected"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PublicUser возвращает срез полей пользователя для ответа клиенту
func (u *User) PublicUser() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"email":          u.Email,
		"phone":          u.Phone,
		"phone_verified": u.PhoneVerified,
	}
}

// Session представляет сессию пользователя.
// Токены непрозрачные (crypto/rand), хранятся в БД как есть и уникальны.
// Срок жизни проверяется лениво при каждом чтении, фоновая очистка не нужна.
// У одного пользователя может быть несколько активных сессий (разные устройства).
type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Valid сообщает, не истекла ли сессия
func (s *Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// UserSettings представляет строку таблицы user_settings.
// Создается в одной транзакции с пользователем при регистрации.
type UserSettings struct {
	UserID            int64     `json:"user_id"`
	Login             string    `json:"login"`
	Domain            string    `json:"domain"`
	DomainConnected   bool      `json:"domain_connected"`
	SitemapEnabled    bool      `json:"sitemap_enabled"`
	ImageQuality      int       `json:"image_quality"`
	WatermarkPosition string    `json:"watermark_position"`
	WebpEnabled       bool      `json:"webp_enabled"`
	AuthMethod        string    `json:"auth_method"`
	Timezone          string    `json:"timezone"`
	ItemsPerPage      int       `json:"items_per_page"`
	NotifyOrders      bool      `json:"notify_orders"`
	NotifyMessages    bool      `json:"notify_messages"`
	PanelEnabled      bool      `json:"panel_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultUserSettings возвращает настройки нового аккаунта
func DefaultUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:            userID,
		SitemapEnabled:    true,
		ImageQuality:      85,
		WatermarkPosition: "0",
		WebpEnabled:       true,
		AuthMethod:        "0",
		Timezone:          "Europe/Moscow",
		ItemsPerPage:      100,
		NotifyOrders:      true,
		NotifyMessages:    true,
		PanelEnabled:      true,
	}
}

// SettingsPatch представляет частичное обновление user_settings.
// nil-поля не изменяются; патч применяется одним UPDATE.
type SettingsPatch struct {
	Login             *string
	Domain            *string
	DomainConnected   *bool
	SitemapEnabled    *bool
	ImageQuality      *int
	WatermarkPosition *string
	WebpEnabled       *bool
	AuthMethod        *string
	Timezone          *string
	ItemsPerPage      *int
	NotifyOrders      *bool
	NotifyMessages    *bool
	PanelEnabled      *bool
}

// Settings представляет настройки аккаунта, отдаваемые в GET /settings
type Settings struct {
	Login             string `json:"login"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	PhoneVerified     bool   `json:"phone_verified"`
	TelegramAccount   string `json:"telegram_account"`
	TelegramConnected bool   `json:"telegram_connected"`
	Domain            string `json:"domain"`
	DomainConnected   bool   `json:"domain_connected"`
	SitemapEnabled    bool   `json:"sitemap_enabled"`
	ImageQuality      int    `json:"image_quality"`
	WatermarkPosition string `json:"watermark_position"`
	WebpEnabled       bool   `json:"webp_enabled"`
	AuthMethod        string `json:"auth_method"`
	Timezone          string `json:"timezone"`
	ItemsPerPage      int    `json:"items_per_page"`
	NotifyOrders      bool   `json:"notify_orders"`
	NotifyMessages    bool   `json:"notify_messages"`
}
