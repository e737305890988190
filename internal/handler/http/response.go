// Package http содержит HTTP-обработчики сервиса.
package http

import (
	"encoding/json"
	"net/http"

	apperrors "SellerPanelPlatform/pkg/errors"
	"SellerPanelPlatform/pkg/logger"
)

// writeJSON сериализует ответ клиенту
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError переводит ошибку в ответ {success:false, message}.
// Внутренние причины логируются и никогда не попадают в тело ответа.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	appErr := apperrors.From(err)

	if appErr.Code == apperrors.ErrInternal {
		log.Error("Request failed", logger.Error(err))
	}

	writeJSON(w, appErr.HTTPStatus(), map[string]interface{}{
		"success": false,
		"message": appErr.GetUserMessage(),
	})
}

// writeMethodNotAllowed отвечает 405 на неподдерживаемый метод
func writeMethodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"success": false,
		"message": "Метод не поддерживается",
	})
}
