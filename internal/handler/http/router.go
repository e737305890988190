package http

import (
	"net/http"

	"SellerPanelPlatform/internal/middleware"
	"SellerPanelPlatform/internal/service"
	"SellerPanelPlatform/pkg/health"
	"SellerPanelPlatform/pkg/logger"
	"SellerPanelPlatform/pkg/metrics"
)

// Version версия сервиса, отдается в /health
const Version = "1.0.0"

// RouterConfig зависимости маршрутизатора
type RouterConfig struct {
	AuthService     service.AuthService
	SettingsService service.SettingsService
	Logger          logger.Logger
	Metrics         *metrics.Metrics
	HealthCheckers  map[string]health.Checker
}

// NewRouter собирает маршруты и цепочку middleware.
// Порядок: recovery → logging → metrics → CORS → маршрут;
// /settings дополнительно проходит через auth gate.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	authHandler := NewAuthHandler(cfg.AuthService, cfg.Logger)
	settingsHandler := NewSettingsHandler(cfg.SettingsService, cfg.Logger)

	authGate := middleware.AuthMiddleware(cfg.AuthService)

	mux.Handle("/auth", authHandler)
	mux.Handle("/settings", authGate(settingsHandler))

	mux.HandleFunc("/health", health.Handler(Version))
	mux.HandleFunc("/ready", health.ReadyHandler(cfg.HealthCheckers))
	mux.Handle("/metrics", cfg.Metrics.GetHandler())

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware()(handler)
	handler = cfg.Metrics.Middleware(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)
	handler = middleware.RecoveryMiddleware(cfg.Logger)(handler)

	return handler
}
