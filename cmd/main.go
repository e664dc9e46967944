package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/leadgen/config"
	"github.com/Payphone-Digital/leadgen/internal/constants"
	"github.com/Payphone-Digital/leadgen/internal/handler"
	"github.com/Payphone-Digital/leadgen/internal/middleware"
	"github.com/Payphone-Digital/leadgen/internal/repository"
	"github.com/Payphone-Digital/leadgen/internal/router"
	"github.com/Payphone-Digital/leadgen/internal/service"
	"github.com/Payphone-Digital/leadgen/pkg/cache"
	"github.com/Payphone-Digital/leadgen/pkg/circuit"
	"github.com/Payphone-Digital/leadgen/pkg/database"
	"github.com/Payphone-Digital/leadgen/pkg/health"
	"github.com/Payphone-Digital/leadgen/pkg/llm"
	"github.com/Payphone-Digital/leadgen/pkg/logger"
	"github.com/Payphone-Digital/leadgen/pkg/places"
	"github.com/Payphone-Digital/leadgen/pkg/pool"
	"github.com/Payphone-Digital/leadgen/pkg/prompt"
	"github.com/Payphone-Digital/leadgen/pkg/redis"
	"github.com/Payphone-Digital/leadgen/pkg/upstream"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	db, err := database.Open(database.Config{
		Driver:          config.Database.Driver,
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		SQLitePath:      config.Database.SQLitePath,
		Environment:     config.App.Environment,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db, database.DefaultAdmin{
		Username: config.Superadmin.Username,
		Email:    config.Superadmin.Email,
		Password: config.Superadmin.Password,
	}); err != nil {
		logger.GetLogger().Fatal("Failed to seed database", zap.Error(err))
	}
	logger.GetLogger().Info("Database seeded successfully")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	blogRepo := repository.NewBlogRepository(db)

	// Conversation state lives in Redis when enabled, otherwise in process
	var (
		contextStore service.ContextStore
		redisClient  *redis.Client
	)
	if config.Redis.Enabled {
		redisClient, err = redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Fatal("Failed to initialize Redis", zap.Error(err))
		}
		defer redisClient.Close()
		contextStore = service.NewRedisContextStore(redisClient, config.Chat.ContextTTL)
	} else {
		memory := cache.NewCache()
		defer memory.Close()
		contextStore = service.NewMemoryContextStore(memory, config.Chat.ContextTTL)
	}
	logger.GetLogger().Info("Chat context store initialized",
		zap.Bool("redis", config.Redis.Enabled),
	)

	// Upstream clients share one transport pool and one breaker registry
	connections := pool.NewConnectionPool(pool.DefaultPoolConfig(), logger.GetLogger())
	defer connections.CloseAllConnections()
	breakers := circuit.NewBreakerRegistry(
		upstream.BreakerConfig(config.Upstream.BreakerThreshold, config.Upstream.BreakerTimeout),
		logger.GetLogger(),
	)

	geminiClient := upstream.NewClient(upstream.Config{
		Name:       constants.UpstreamGemini,
		Timeout:    config.Gemini.Timeout,
		MaxRetries: config.Upstream.MaxRetries,
		RetryDelay: config.Upstream.RetryDelay,
	}, connections, breakers)
	mapsClient := upstream.NewClient(upstream.Config{
		Name:       constants.UpstreamMaps,
		Timeout:    config.Maps.Timeout,
		MaxRetries: config.Upstream.MaxRetries,
		RetryDelay: config.Upstream.RetryDelay,
	}, connections, breakers)

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.AccessTTL, config.JWT.RefreshTTL)
	sessionService := service.NewSessionService(repository.NewTransactor(db), userRepo, roleRepo, tokenRepo, jwtService)
	authzService := service.NewAuthorizationService(userRepo)
	leadService := service.NewLeadService(leadRepo)
	blogService := service.NewBlogService(blogRepo)
	chatService := service.NewChatService(
		llm.NewGemini(geminiClient, config.Gemini.BaseURL, config.Gemini.Model, config.Gemini.APIKey),
		places.NewClient(mapsClient, config.Maps.BaseURL, config.Maps.APIKey),
		contextStore,
		leadRepo,
		prompt.MustNewRenderer(),
		service.ChatConfig{
			AuthLeadLimit:  config.Chat.AuthLeadLimit,
			GuestLeadLimit: config.Chat.GuestLeadLimit,
			Radius:         config.Maps.Radius,
		},
	)

	// Health
	monitor := health.NewMonitor(5*time.Second, logger.GetLogger())
	monitor.Register("database", &health.DatabaseChecker{DB: db}, true)
	redisChecker := &health.PingChecker{}
	if redisClient != nil {
		redisChecker.Target = redisClient
	}
	monitor.Register("redis", redisChecker, config.Redis.Enabled)
	monitor.Register("upstreams", &health.BreakerChecker{Registry: breakers}, false)
	if err := monitor.Start(30 * time.Second); err != nil {
		logger.GetLogger().Warn("Health monitor not started", zap.Error(err))
	}
	defer monitor.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(sessionService, handler.CookieConfig{
		Secure:     config.JWT.CookieSecure,
		SameSite:   handler.ParseSameSite(config.JWT.CookieSameSite),
		Domain:     config.JWT.CookieDomain,
		AccessTTL:  config.JWT.AccessTTL,
		RefreshTTL: config.JWT.RefreshTTL,
	})
	leadHandler := handler.NewLeadHandler(leadService)
	blogHandler := handler.NewBlogHandler(blogService, handler.UploadConfig{
		Dir:       config.Upload.Dir,
		URLPrefix: config.Upload.URLPrefix,
		MaxMemory: config.Upload.MaxMemory,
	})
	chatHandler := handler.NewChatHandler(chatService)
	healthHandler := handler.NewHealthHandler(monitor)

	// Middleware
	validationMiddleware := middleware.NewValidationMiddleware()
	authMiddleware := middleware.NewAuthMiddleware(jwtService, authzService)

	r := router.NewRouter(
		authHandler,
		leadHandler,
		blogHandler,
		chatHandler,
		healthHandler,

		validationMiddleware,
		authMiddleware,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
