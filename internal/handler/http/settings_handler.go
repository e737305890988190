package http

import (
	"encoding/json"
	"net/http"

	"SellerPanelPlatform/internal/middleware"
	"SellerPanelPlatform/internal/service"
	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
)

// SettingsHandler обрабатывает запросы настроек аккаунта.
// Все запросы проходят через AuthMiddleware, user_id берется из контекста.
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          logger.Logger
}

// NewSettingsHandler создает новый экземпляр SettingsHandler
func NewSettingsHandler(settingsService service.SettingsService, log logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          log,
	}
}

// ServeHTTP диспетчеризует запросы /settings по HTTP-методу
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperrors.New(apperrors.ErrUnauthorized, "missing user in context"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, userID)
	case http.MethodPost:
		h.update(w, r, userID)
	case http.MethodDelete:
		h.delete(w, r, userID)
	default:
		writeMethodNotAllowed(w)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request, userID int64) {
	settings, err := h.settingsService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request, userID int64) {
	var update service.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, h.logger, apperrors.NewLocalized(apperrors.ErrValidation,
			"malformed json body", "Некорректный JSON"))
		return
	}

	message, err := h.settingsService.Update(r.Context(), userID, &update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}

func (h *SettingsHandler) delete(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.URL.Query().Get("action") != "telegram" {
		writeMethodNotAllowed(w)
		return
	}

	message, err := h.settingsService.UnlinkTelegram(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": message,
	})
}
