package service

import (
	"context"
	"strings"
	"time"

	"SellerPanelPlatform/internal/domain"
	"SellerPanelPlatform/internal/events"
	"SellerPanelPlatform/internal/pkg/password"
	"SellerPanelPlatform/internal/pkg/token"
	"SellerPanelPlatform/internal/repository"
	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
	"SellerPanelPlatform/pkg/metrics"
)

// AuthResult представляет результат успешной аутентификации.
// Tokens == nil означает, что аккаунт создан, но сессию выдать не
// удалось: клиенту предлагается выполнить вход повторно.
type AuthResult struct {
	User   *domain.User
	Tokens *token.Pair
}

// AuthService интерфейс для сервиса аутентификации
type AuthService interface {
	Register(ctx context.Context, email, pass, phone, ip, userAgent string) (*AuthResult, error)
	Login(ctx context.Context, email, pass, ip, userAgent string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Authenticate(ctx context.Context, accessToken string) (int64, error)
	RevokeSession(ctx context.Context, sessionID string) error
}

// AuthConfig параметры поведения сервиса аутентификации
type AuthConfig struct {
	SessionTTL time.Duration
	// RefreshExtendsExpiry управляет продлением срока жизни сессии
	// при ротации токенов
	RefreshExtendsExpiry bool
}

// authService реализация AuthService
type authService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	sessionCache      repository.SessionCache
	passwordHasher    password.Hasher
	publisher         events.Publisher
	metrics           *metrics.Metrics
	logger            logger.Logger
	config            AuthConfig
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	sessionCache repository.SessionCache,
	passwordHasher password.Hasher,
	publisher events.Publisher,
	m *metrics.Metrics,
	log logger.Logger,
	config AuthConfig,
) AuthService {
	return &authService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		sessionCache:      sessionCache,
		passwordHasher:    passwordHasher,
		publisher:         publisher,
		metrics:           m,
		logger:            log,
		config:            config,
	}
}

// NormalizeEmail приводит email к канонической форме
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateCredentials проверяет форму email и длину пароля
func (s *authService) validateCredentials(email, pass string) error {
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewLocalized(apperrors.ErrValidation,
			"invalid email address", "Некорректный email адрес")
	}
	if !s.passwordHasher.Validate(pass) {
		return apperrors.NewLocalized(apperrors.ErrValidation,
			"password too short", "Пароль должен содержать минимум 6 символов")
	}
	return nil
}

// Register создает аккаунт, настройки по умолчанию и первую сессию
func (s *authService) Register(ctx context.Context, email, pass, phone, ip, userAgent string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	if err := s.validateCredentials(email, pass); err != nil {
		s.metrics.RecordAuthAttempt("register", "validation_failed")
		return nil, err
	}

	passwordHash, err := s.passwordHasher.Hash(pass)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to hash password")
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        phone,
	}

	// Уникальность email обеспечивает индекс, а не предварительная
	// проверка: конкурентные регистрации разрешаются на уровне БД
	if err := s.userRepository.Create(ctx, user, domain.DefaultUserSettings(0)); err != nil {
		if apperrors.IsCode(err, apperrors.ErrConflict) {
			s.metrics.RecordAuthAttempt("register", "conflict")
			return nil, apperrors.NewLocalized(apperrors.ErrConflict,
				"email already registered", "Пользователь с таким email уже существует")
		}
		s.logger.Error("Failed to create user", logger.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to create user")
	}

	s.metrics.RecordAuthAttempt("register", "success")

	if err := s.publisher.Publish(ctx, events.EventUserRegistered, user.ID, nil); err != nil {
		s.logger.Warn("Failed to publish registration event",
			logger.Int64("user_id", user.ID), logger.Error(err))
	}

	// Аккаунт уже создан: сбой выдачи сессии не откатывает регистрацию,
	// клиент может войти повторно
	pair, err := s.issueSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		s.logger.Warn("Failed to create session after registration",
			logger.Int64("user_id", user.ID), logger.Error(err))
		return &AuthResult{User: user}, nil
	}

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Login проверяет учетные данные и выдает новую сессию.
// Сессии аддитивны: вход с двух устройств дает две независимые сессии.
func (s *authService) Login(ctx context.Context, email, pass, ip, userAgent string) (*AuthResult, error) {
	email = NormalizeEmail(email)

	if err := s.validateCredentials(email, pass); err != nil {
		s.metrics.RecordAuthAttempt("login", "validation_failed")
		return nil, err
	}

	// Неизвестный email и неверный пароль отдаются одним сообщением,
	// чтобы не раскрывать существование аккаунта
	invalidCredentials := apperrors.NewLocalized(apperrors.ErrUnauthorized,
		"invalid email or password", "Неверный email или пароль")

	user, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			s.metrics.RecordAuthAttempt("login", "unknown_email")
			return nil, invalidCredentials
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to get user")
	}

	if !s.passwordHasher.Check(pass, user.PasswordHash) {
		s.metrics.RecordAuthAttempt("login", "wrong_password")
		return nil, invalidCredentials
	}

	pair, err := s.issueSession(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to create session")
	}

	s.metrics.RecordAuthAttempt("login", "success")

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Refresh обменивает refresh-токен на новую пару токенов.
// Ротация атомарна: из двух конкурентных запросов с одним токеном
// новую пару получит только один, второй получит 401.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperrors.NewLocalized(apperrors.ErrValidation,
			"refresh token is required", "Refresh token обязателен")
	}

	invalidToken := apperrors.NewLocalized(apperrors.ErrUnauthorized,
		"invalid refresh token", "Невалидный refresh token")

	// Читаем сессию заранее ради старого access-токена (инвалидация
	// кеша) и текущего expires_at; арбитром гонки остается Rotate
	current, err := s.sessionRepository.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			s.metrics.RecordAuthAttempt("refresh", "invalid_token")
			return nil, invalidToken
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to get session")
	}

	pair, err := token.GeneratePair()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to generate tokens")
	}

	expiresAt := current.ExpiresAt
	if s.config.RefreshExtendsExpiry {
		expiresAt = time.Now().Add(s.config.SessionTTL)
	}

	session, err := s.sessionRepository.Rotate(ctx, refreshToken, pair.AccessToken, pair.RefreshToken, expiresAt)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrUnauthorized) {
			s.metrics.RecordAuthAttempt("refresh", "invalid_token")
			return nil, invalidToken
		}
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to rotate session")
	}

	// Старый access-токен мертв с момента коммита ротации
	if err := s.sessionCache.Invalidate(ctx, current.AccessToken); err != nil {
		s.logger.Warn("Failed to invalidate cached session", logger.Error(err))
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		s.logger.Warn("Failed to cache session", logger.Error(err))
	}

	user, err := s.userRepository.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternal, "failed to get user")
	}

	s.metrics.RecordAuthAttempt("refresh", "success")

	return &AuthResult{User: user, Tokens: pair}, nil
}

// Authenticate разрешает access-токен в идентификатор пользователя.
// Единственная точка проверки токенов: отсутствующий, неизвестный и
// истекший токен снаружи неразличимы.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	unauthorized := apperrors.New(apperrors.ErrUnauthorized, "invalid or expired token")

	if accessToken == "" {
		return 0, unauthorized
	}

	if session, err := s.sessionCache.Get(ctx, accessToken); err == nil {
		return session.UserID, nil
	}

	session, err := s.sessionRepository.GetByAccessToken(ctx, accessToken)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return 0, unauthorized
		}
		return 0, apperrors.Wrap(err, apperrors.ErrInternal, "failed to get session")
	}

	if err := s.sessionCache.Set(ctx, session); err != nil {
		s.logger.Warn("Failed to cache session", logger.Error(err))
	}

	return session.UserID, nil
}

// RevokeSession отзывает сессию по идентификатору. HTTP-эндпоинта
// выхода нет, операция доступна для административных сценариев.
func (s *authService) RevokeSession(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepository.Revoke(ctx, sessionID)
	if err != nil {
		return err
	}

	// Отозванный access-токен не должен пережить сессию в кеше
	if err := s.sessionCache.Invalidate(ctx, session.AccessToken); err != nil {
		s.logger.Warn("Failed to invalidate cached session", logger.Error(err))
	}

	return nil
}

// issueSession создает сессию с новой парой токенов
func (s *authService) issueSession(ctx context.Context, userID int64, ip, userAgent string) (*token.Pair, error) {
	pair, err := token.GeneratePair()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:       userID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IPAddress:    ip,
		UserAgent:    userAgent,
		ExpiresAt:    time.Now().Add(s.config.SessionTTL),
	}

	if err := s.sessionRepository.Create(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.RecordSessionCreated()

	if err := s.sessionCache.Set(ctx, session); err != nil {
		s.logger.Warn("Failed to cache session", logger.Error(err))
	}

	return pair, nil
}
