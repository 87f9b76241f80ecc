package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mockprep/platform/internal/auth"
	"mockprep/platform/internal/config"
	"mockprep/platform/internal/events"
	"mockprep/platform/internal/feedback"
	"mockprep/platform/internal/handlers"
	"mockprep/platform/internal/identity"
	"mockprep/platform/internal/jobs"
	"mockprep/platform/internal/llm"
	_ "mockprep/platform/internal/llm/claude"
	_ "mockprep/platform/internal/llm/gemini"
	"mockprep/platform/internal/metrics"
	guard "mockprep/platform/internal/middleware"
	"mockprep/platform/internal/prompts"
	"mockprep/platform/internal/repositories"
	"mockprep/platform/internal/routers"
	"mockprep/platform/internal/store"
	"mockprep/platform/internal/store/backend"
	"mockprep/platform/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func registerRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler, pageHandler *handlers.PageHandler, authHandler *handlers.AuthHandler, interviewHandler *handlers.InterviewHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.PageRoutes(router, pageHandler)
	routers.APIRoutes(router, authHandler, interviewHandler)
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.GetLogger().Fatal("Failed to load configuration", zap.Error(err))
	}

	utils.InitLogger(!cfg.IsProduction())
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("provider", cfg.Provider),
		zap.String("store_driver", cfg.StoreDriver))

	opener, err := backend.Opener(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to configure document store", zap.Error(err))
	}
	docs := store.NewHandle(opener, logger, cfg.StoreRetryWait)
	initCtx, initCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := docs.Init(initCtx); err != nil {
		logger.Warn("Document store not reachable at startup, pages will degrade until it is", zap.Error(err))
	}
	initCancel()

	idp, err := identity.NewLocalProvider(docs, cfg.SessionSecret)
	if err != nil {
		logger.Fatal("Failed to initialize identity provider", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(idp, docs, logger)
	authService := auth.NewService(authenticator, idp, docs, logger)
	authService.AllowAdminSignUp = cfg.AllowAdminSignUp

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	// feedback events are optional; without redis they are dropped
	var publisher events.Publisher = events.NopPublisher{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		publisher = events.NewRedisPublisher(rdb)
	}

	generator := feedback.NewGenerator(docs, aiProvider, promptManager, publisher, logger, cfg.GenerationTimeout)
	reconciler := feedback.NewReconciler(docs, docs, generator, logger)

	reconcileJob := jobs.NewReconcileJob(reconciler, &jobs.ReconcileConfig{
		Schedule:   cfg.ReconcileSchedule,
		Enabled:    cfg.ReconcileEnabled,
		AutoRepair: cfg.ReconcileAutoRepair,
		Timeout:    2 * time.Minute,
	}, logger)
	if err := reconcileJob.Start(); err != nil {
		logger.Error("Failed to start reconciliation job", zap.Error(err))
	}

	subCtx, stopSubscriber := context.WithCancel(context.Background())
	if rdb != nil {
		subscriber := events.NewSubscriber(rdb, generator.HandleInterviewCompleted, logger, cfg.GenerationTimeout+10*time.Second)
		go func() {
			if err := subscriber.Run(subCtx, nil); err != nil {
				logger.Error("Interview event subscriber stopped", zap.Error(err))
			}
		}()
	}

	interviewRepo := repositories.NewInterviewRepository(docs)
	feedbackRepo := repositories.NewFeedbackRepository(docs)

	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, cfg, docs)
	pageHandler := handlers.NewPageHandler(interviewRepo, feedbackRepo, logger)
	authHandler := handlers.NewAuthHandler(authService, logger, cfg.IsProduction())
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, feedbackRepo, generator, reconciler, logger)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(metrics.Middleware)
	router.Use(guard.RouteGuard(authenticator, logger))

	registerRoutes(router, healthHandler, pageHandler, authHandler, interviewHandler)

	serverAddr := ":" + cfg.Port

	// scoring calls can take most of a minute, so writes get more room than reads
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Mockprep server starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Mockprep server shutting down...")

	reconcileJob.Stop()
	stopSubscriber()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := docs.Close(); err != nil {
		logger.Warn("Failed to close document store", zap.Error(err))
	}

	logger.Info("Mockprep server exited")
}
