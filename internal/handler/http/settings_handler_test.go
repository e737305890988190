package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SellerPanelPlatform/internal/domain"
	handler "SellerPanelPlatform/internal/handler/http"
	"SellerPanelPlatform/internal/middleware"
	"SellerPanelPlatform/internal/service"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, userID int64, update *service.SettingsUpdate) (string, error) {
	args := m.Called(ctx, userID, update)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) UnlinkTelegram(ctx context.Context, userID int64) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), 42))
}

func TestSettingsHandler_Get(t *testing.T) {
	settingsService := new(MockSettingsService)
	h := handler.NewSettingsHandler(settingsService, testLogger(t))

	settingsService.On("Get", mock.Anything, int64(42)).Return(&domain.Settings{
		Login: "shopadmin", Email: "a@ex.com", ImageQuality: 85,
		Timezone: "Europe/Moscow", ItemsPerPage: 100,
	}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(http.MethodGet, "/settings", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "shopadmin", body["login"])
	assert.Equal(t, "a@ex.com", body["email"])
	assert.Equal(t, float64(85), body["image_quality"])
	assert.Equal(t, "Europe/Moscow", body["timezone"])
}

func TestSettingsHandler_Update(t *testing.T) {
	settingsService := new(MockSettingsService)
	h := handler.NewSettingsHandler(settingsService, testLogger(t))

	settingsService.On("Update", mock.Anything, int64(42), mock.MatchedBy(func(u *service.SettingsUpdate) bool {
		return u.Type == service.SettingImages && u.Quality != nil && *u.Quality == 90
	})).Return("Настройки изображений обновлены", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(http.MethodPost, "/settings",
		`{"type":"images","quality":90}`))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Настройки изображений обновлены", body["message"])
}

func TestSettingsHandler_UpdateMalformedJSON(t *testing.T) {
	h := handler.NewSettingsHandler(new(MockSettingsService), testLogger(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(http.MethodPost, "/settings", `{broken`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Некорректный JSON", body["message"])
}

func TestSettingsHandler_DeleteUnlinksTelegram(t *testing.T) {
	settingsService := new(MockSettingsService)
	h := handler.NewSettingsHandler(settingsService, testLogger(t))

	settingsService.On("UnlinkTelegram", mock.Anything, int64(42)).
		Return("Telegram аккаунт отвязан", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(http.MethodDelete, "/settings?action=telegram", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Telegram аккаунт отвязан", body["message"])
}

func TestSettingsHandler_DeleteWithoutActionRejected(t *testing.T) {
	settingsService := new(MockSettingsService)
	h := handler.NewSettingsHandler(settingsService, testLogger(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(http.MethodDelete, "/settings", ""))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	settingsService.AssertNotCalled(t, "UnlinkTelegram", mock.Anything, mock.Anything)
}

func TestSettingsHandler_MissingUserContext(t *testing.T) {
	h := handler.NewSettingsHandler(new(MockSettingsService), testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
