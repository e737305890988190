package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker интерфейс для проверки здоровья зависимости
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// HealthStatus представляет статус здоровья сервиса
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]Status `json:"services,omitempty"`
	Version   string            `json:"version,omitempty"`
}

// Status представляет статус зависимости
type Status struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// Handler создает HTTP обработчик для health check эндпоинта
func Handler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := &HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}
}

// ReadyHandler создает HTTP обработчик для ready check эндпоинта.
// Опрашивает переданные зависимости; при отказе любой из них возвращает 503.
func ReadyHandler(checkers map[string]Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := &HealthStatus{
			Status:    "ready",
			Timestamp: time.Now(),
			Services:  make(map[string]Status),
		}

		code := http.StatusOK
		for name, checker := range checkers {
			if err := checker.HealthCheck(ctx); err != nil {
				status.Status = "not_ready"
				status.Services[name] = Status{Status: "down", Details: err.Error()}
				code = http.StatusServiceUnavailable
				continue
			}
			status.Services[name] = Status{Status: "up"}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(status)
	}
}
