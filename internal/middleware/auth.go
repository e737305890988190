package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"SellerPanelPlatform/internal/service"
)

// AuthMiddleware проверяет access-токен каждого защищенного запроса.
// Токен принимается из заголовка X-Auth-Token или Authorization: Bearer.
// Отсутствующий, неизвестный и истекший токен дают одинаковый 401,
// различать эти случаи снаружи нельзя.
func AuthMiddleware(authService service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)

			userID, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// extractToken извлекает access-токен из заголовков запроса
func extractToken(r *http.Request) string {
	if token := r.Header.Get("X-Auth-Token"); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Не авторизован",
	})
}
