package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"SellerPanelPlatform/internal/service"
	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
)

// authRequest представляет тело запроса POST /auth
type authRequest struct {
	Action       string `json:"action"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	RefreshToken string `json:"refresh_token"`
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService service.AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый экземпляр AuthHandler
func NewAuthHandler(authService service.AuthService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      log,
	}
}

// ServeHTTP диспетчеризует POST /auth по полю action
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperrors.NewLocalized(apperrors.ErrValidation,
			"malformed json body", "Некорректный JSON"))
		return
	}

	switch req.Action {
	case "register":
		h.register(w, r, &req)
	case "login":
		h.login(w, r, &req)
	case "refresh":
		h.refresh(w, r, &req)
	default:
		writeError(w, h.logger, apperrors.NewLocalized(apperrors.ErrValidation,
			"unknown action",
			"Неизвестное действие. Используйте action: register, login или refresh"))
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request, req *authRequest) {
	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Phone,
		clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Регистрация прошла успешно",
		"user": map[string]interface{}{
			"id":    result.User.ID,
			"email": result.User.Email,
		},
	}

	if result.Tokens != nil {
		response["access_token"] = result.Tokens.AccessToken
		response["refresh_token"] = result.Tokens.RefreshToken
	} else {
		// Аккаунт создан, но сессию выдать не удалось
		response["message"] = "Аккаунт создан, выполните вход"
	}

	writeJSON(w, http.StatusCreated, response)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, req *authRequest) {
	result, err := h.authService.Login(r.Context(), req.Email, req.Password,
		clientIP(r), r.UserAgent())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Вход выполнен успешно",
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          result.User.PublicUser(),
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request, req *authRequest) {
	result, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Токен обновлён",
		"access_token":  result.Tokens.AccessToken,
		"refresh_token": result.Tokens.RefreshToken,
		"user":          result.User.PublicUser(),
	})
}

// clientIP возвращает адрес клиента с учетом прокси
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i > 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
