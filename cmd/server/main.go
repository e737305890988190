package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SellerPanelPlatform/internal/config"
	"SellerPanelPlatform/internal/events"
	httphandler "SellerPanelPlatform/internal/handler/http"
	"SellerPanelPlatform/internal/pkg/password"
	"SellerPanelPlatform/internal/repository"
	"SellerPanelPlatform/internal/repository/postgres"
	"SellerPanelPlatform/internal/repository/rediscache"
	"SellerPanelPlatform/internal/service"
	"SellerPanelPlatform/migrations"
	"SellerPanelPlatform/pkg/database"
	"SellerPanelPlatform/pkg/health"
	"SellerPanelPlatform/pkg/logger"
	"SellerPanelPlatform/pkg/metrics"
	"SellerPanelPlatform/pkg/redis"
)

const serviceName = "account-service"

func main() {
	configFile := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.Logger.Level, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := metrics.InitializeOpenTelemetry(serviceName); err != nil {
		log.Warn("Failed to initialize tracing", logger.Error(err))
	}
	m := metrics.NewMetrics("account_service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL: значения из файла, поверх них DB_* и DATABASE_URL
	dbConfig := database.NewConfig()
	dbConfig.Host = cfg.Database.Host
	dbConfig.Port = cfg.Database.Port
	dbConfig.User = cfg.Database.User
	dbConfig.Password = cfg.Database.Password
	dbConfig.Database = cfg.Database.Name
	dbConfig.SSLMode = cfg.Database.SSLMode
	dbConfig = database.ApplyEnv(dbConfig)

	pg, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	if err := database.RunMigrations(ctx, dbConfig.DSN(), migrations.FS); err != nil {
		log.Error("Failed to run migrations", logger.Error(err))
		os.Exit(1)
	}
	log.Info("Migrations applied")

	healthCheckers := map[string]health.Checker{
		"postgres": pg,
	}

	// Redis опционален: без него каждый запрос идет в PostgreSQL
	var sessionCache repository.SessionCache = repository.NewNopSessionCache()
	if cfg.Redis.Enabled {
		redisConfig := redis.NewConfig()
		redisConfig.Addr = cfg.Redis.Addr
		redisConfig.Password = cfg.Redis.Password
		redisConfig.DB = cfg.Redis.DB

		redisClient, err := redis.Connect(ctx, redisConfig)
		if err != nil {
			log.Warn("Failed to connect to redis, session cache disabled", logger.Error(err))
		} else {
			defer redisClient.Close()
			sessionCache = rediscache.NewSessionCache(redisClient.Client)
			healthCheckers["redis"] = redisClient
			log.Info("Session cache enabled", logger.String("addr", cfg.Redis.Addr))
		}
	}

	// RabbitMQ опционален: события публикуются best-effort
	var publisher events.Publisher = events.NewNopPublisher()
	if cfg.RabbitMQ.Enabled {
		accountPublisher, err := events.NewAccountPublisher(&events.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
		}, log)
		if err != nil {
			log.Warn("Failed to connect to rabbitmq, events disabled", logger.Error(err))
		} else {
			publisher = accountPublisher
			log.Info("Event publishing enabled", logger.String("exchange", cfg.RabbitMQ.Exchange))
		}
	}
	defer publisher.Close()

	userRepository := postgres.NewUserRepository(pg.Pool)
	sessionRepository := postgres.NewSessionRepository(pg.Pool)
	settingsRepository := postgres.NewSettingsRepository(pg.Pool)

	passwordHasher := password.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.PasswordMinLength)

	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		sessionCache,
		passwordHasher,
		publisher,
		m,
		log,
		service.AuthConfig{
			SessionTTL:           cfg.Auth.SessionTTLDuration(),
			RefreshExtendsExpiry: cfg.Auth.RefreshExtendsExpiry,
		},
	)
	settingsService := service.NewSettingsService(
		userRepository,
		settingsRepository,
		passwordHasher,
		publisher,
		log,
	)

	router := httphandler.NewRouter(httphandler.RouterConfig{
		AuthService:     authService,
		SettingsService: settingsService,
		Logger:          log,
		Metrics:         m,
		HealthCheckers:  healthCheckers,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.ParseServerDuration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: config.ParseServerDuration(cfg.Server.WriteTimeout, 10*time.Second),
		IdleTimeout:  config.ParseServerDuration(cfg.Server.IdleTimeout, 60*time.Second),
	}

	go func() {
		log.Info("Server starting",
			logger.String("addr", server.Addr),
			logger.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", logger.Error(err))
	}

	log.Info("Server stopped")
}
