package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"store_rating/internal/config"
	"store_rating/internal/handler"
	"store_rating/internal/logger"
	"store_rating/internal/metrics"
	"store_rating/internal/middleware"
	"store_rating/internal/ratelimit"
	"store_rating/internal/repository"
	"store_rating/internal/service"
	"store_rating/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		appLog.Fatal("failed to register validators", "error", err)
	}

	// --- Database Connection ---
	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, cfg.DB, appLog)
	if err != nil {
		appLog.Fatal("failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool, appLog); err != nil {
		appLog.Fatal("failed to auto-migrate database", "error", err)
	}

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("store_rating", reg)

	// --- Rate Limiting ---
	var loginLimiter, signupLimiter middleware.Limiter
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLog.Warn("redis unreachable, auth rate limiting will reject requests until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		login, err := ratelimit.NewFixedWindowLimiter(rdb, "storerating:ratelimit:login", cfg.LoginRateLimitPerMinute, time.Minute)
		if err != nil {
			appLog.Fatal("failed to create login rate limiter", "error", err)
		}
		signup, err := ratelimit.NewFixedWindowLimiter(rdb, "storerating:ratelimit:signup", cfg.SignupRateLimitPerMinute, time.Minute)
		if err != nil {
			appLog.Fatal("failed to create signup rate limiter", "error", err)
		}
		loginLimiter, signupLimiter = login, signup
	} else {
		appLog.Warn("REDIS_ADDR not set, auth rate limiting disabled")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.JWTExpirationHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	storeRepo := repository.NewStoreRepository(dbPool)
	ratingRepo := repository.NewRatingRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, cfg.InitialAdminEmail, m, appLog)
	ratingService := service.NewRatingService(ratingRepo, userRepo, storeRepo, m, appLog)
	storeService := service.NewStoreService(storeRepo, ratingRepo)
	adminService := service.NewAdminService(userRepo, storeRepo, ratingRepo)
	cascade := service.NewCascadeManager(userRepo, storeRepo, m, appLog)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, appLog)
	ratingHandler := handler.NewRatingHandler(ratingService, appLog)
	storeHandler := handler.NewStoreHandler(storeService, appLog)
	adminHandler := handler.NewAdminHandler(adminService, cascade, appLog)

	// --- Setup Gin Router ---
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(appLog),
		m.Middleware(),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	// --- Initialize Middlewares ---
	var liveness middleware.LivenessChecker
	if cfg.AuthCheckLiveness {
		liveness = authService
	}
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, liveness, appLog)
	adminRoleMW := middleware.AdminMiddleware()
	userRoleMW := middleware.UserMiddleware()
	storeOwnerRoleMW := middleware.StoreOwnerMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	authHandler.RegisterAuthRoutes(apiGroup, jwtAuthMW,
		middleware.RateLimit(loginLimiter, "login"),
		middleware.RateLimit(signupLimiter, "signup"))
	storeHandler.RegisterStoreRoutes(apiGroup, jwtAuthMW, userRoleMW)
	ratingHandler.RegisterRatingRoutes(apiGroup, jwtAuthMW, userRoleMW, storeOwnerRoleMW)
	adminHandler.RegisterAdminRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	router.GET("/health", func(c *gin.Context) {
		// Check DB connection
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// --- Start Server ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.ServerPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("listen failed", "error", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}

	appLog.Info("server exiting")
}
