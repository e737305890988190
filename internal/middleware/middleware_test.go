package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SellerPanelPlatform/internal/middleware"
	"SellerPanelPlatform/internal/service"
	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
)

type stubAuthService struct {
	mock.Mock
}

func (s *stubAuthService) Register(ctx context.Context, email, pass, phone, ip, userAgent string) (*service.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, email, pass, ip, userAgent string) (*service.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthService) Authenticate(ctx context.Context, accessToken string) (int64, error) {
	args := s.Called(ctx, accessToken)
	return args.Get(0).(int64), args.Error(1)
}

func (s *stubAuthService) RevokeSession(ctx context.Context, sessionID string) error {
	return nil
}

func TestAuthMiddleware_PrefersXAuthToken(t *testing.T) {
	auth := new(stubAuthService)
	auth.On("Authenticate", mock.Anything, "header-token").Return(int64(5), nil)

	var gotUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = middleware.UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("X-Auth-Token", "header-token")
	req.Header.Set("Authorization", "Bearer other-token")
	rec := httptest.NewRecorder()

	middleware.AuthMiddleware(auth)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), gotUserID)
}

func TestAuthMiddleware_RejectsInvalidToken(t *testing.T) {
	auth := new(stubAuthService)
	auth.On("Authenticate", mock.Anything, "bad-token").
		Return(int64(0), apperrors.New(apperrors.ErrUnauthorized, "session not found"))

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	middleware.AuthMiddleware(auth)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
	assert.Contains(t, rec.Body.String(), "Не авторизован")
}

func TestCORSMiddleware_PreflightShortCircuits(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/auth", nil)
	rec := httptest.NewRecorder()

	middleware.CORSMiddleware()(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, nextCalled)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSMiddleware_PassesThroughWithHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	rec := httptest.NewRecorder()

	middleware.CORSMiddleware()(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware_ConvertsPanicTo500(t *testing.T) {
	log, err := logger.NewLogger("dev", "error", "test")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	rec := httptest.NewRecorder()

	middleware.RecoveryMiddleware(log)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Внутренняя ошибка сервера")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestUserIDFromContext(t *testing.T) {
	ctx := middleware.WithUserID(context.Background(), 42)

	userID, ok := middleware.UserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)

	_, ok = middleware.UserIDFromContext(context.Background())
	assert.False(t, ok)
}
