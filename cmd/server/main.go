package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	identityapp "github.com/newsbrief/backend/internal/application/identity"
	newsapp "github.com/newsbrief/backend/internal/application/news"
	"github.com/newsbrief/backend/internal/application/textproc"
	"github.com/newsbrief/backend/internal/infrastructure/auth"
	"github.com/newsbrief/backend/internal/infrastructure/config"
	"github.com/newsbrief/backend/internal/infrastructure/enrichment"
	"github.com/newsbrief/backend/internal/infrastructure/groq"
	"github.com/newsbrief/backend/internal/infrastructure/logger"
	"github.com/newsbrief/backend/internal/infrastructure/newswire"
	"github.com/newsbrief/backend/internal/infrastructure/persistence"
	"github.com/newsbrief/backend/internal/infrastructure/speech"
	"github.com/newsbrief/backend/internal/interfaces/http/handler"
	"github.com/newsbrief/backend/internal/interfaces/http/middleware"
	"github.com/newsbrief/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting news backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready", zap.String("driver", cfg.Database.Driver))

	// Repositories
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	interactionRepo := persistence.NewGormInteractionRepository(db.DB)
	jobRepo := persistence.NewGormEnrichmentJobRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Outbound clients
	newsClient := newswire.NewClient(&cfg.News, log)
	groqClient := groq.NewClient(&cfg.Groq, log)
	speechClient := speech.NewClient(&cfg.Speech, log)

	// Application services
	newsService := newsapp.NewNewsService(articleRepo, interactionRepo, jobRepo, newsClient, log)
	textService := textproc.NewTextService(groqClient, speechClient, log)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, log)

	// Background enrichment worker
	if cfg.Enrichment.Enabled {
		worker := enrichment.NewWorker(jobRepo, articleRepo, groqClient, enrichment.WorkerConfig{
			PollInterval:   cfg.Enrichment.PollInterval,
			BatchSize:      cfg.Enrichment.BatchSize,
			MaxAttempts:    cfg.Enrichment.MaxAttempts,
			ClaimTimeout:   cfg.Enrichment.ClaimTimeout,
			TargetLanguage: cfg.Groq.TargetLanguage,
		}, log)
		if err := worker.Start(context.Background()); err != nil {
			log.Fatal("Failed to start enrichment worker", zap.Error(err))
		}
		defer func() {
			if err := worker.Stop(context.Background()); err != nil {
				log.Error("Error stopping enrichment worker", zap.Error(err))
			}
		}()
	} else {
		log.Info("Enrichment worker disabled")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Attach identity when a bearer token accompanies an anonymous request
	engine.Use(middleware.OptionalJWTAuthMiddleware(jwtService))

	// Routes
	requireJWT := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	})

	router.NewRouter(engine).
		Register(handler.NewNewsHandler(newsService, textService)).
		Register(handler.NewSummarizeHandler(textService)).
		Register(handler.NewAuthHandler(authService, requireJWT)).
		Register(handler.NewSystemHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
