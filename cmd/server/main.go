package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edubatch/internal/cache"
	"edubatch/internal/config"
	"edubatch/internal/handler"
	"edubatch/internal/middleware"
	"edubatch/internal/observability"
	"edubatch/internal/ratelimit"
	"edubatch/internal/repository/postgres"
	"edubatch/internal/service"
	"edubatch/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}
	observability.InitLogger(logLevel, logFormat)

	slog.Info("starting edubatch server")

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connCancel()

	db, err := config.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.PingContext(connCtx); err != nil {
		slog.Error("database ping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("connected to postgresql")

	// Redis is best-effort: caching, rate limiting and the chat bridge all
	// degrade without it, so a failed ping is logged but not fatal.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("redis unavailable, running degraded", slog.String("error", err.Error()))
	} else {
		slog.Info("connected to redis", slog.String("addr", cfg.RedisAddr))
	}
	defer rdb.Close()

	userRepo := postgres.NewUserRepository(db)
	batchRepo := postgres.NewBatchRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	studentRepo := postgres.NewStudentRepository(db)
	syllabusRepo := postgres.NewSyllabusRepository(db)
	enrollmentRepo := postgres.NewEnrollmentRepository(db)
	messageRepo := postgres.NewChatMessageRepository(db)

	readCache := cache.New(rdb)
	invalidator := cache.NewInvalidator(readCache)
	limiter := ratelimit.New(rdb, cfg.RateLimitFailOpen)

	verifier := service.NewTokenVerifier(cfg.JWTSecret)
	userService := service.NewUserService(userRepo)
	batchService := service.NewBatchService(batchRepo, scheduleRepo, syllabusRepo, readCache, invalidator)
	studentService := service.NewStudentService(studentRepo, enrollmentRepo, batchRepo, readCache, invalidator)
	syllabusService := service.NewSyllabusService(syllabusRepo, readCache, invalidator)
	chatService := service.NewChatService(messageRepo)
	authzService := service.NewAuthzService(batchRepo, studentRepo, enrollmentRepo)

	hub := websocket.NewHub()

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()

	if cfg.ChatBridge {
		bridge := websocket.NewBridge(rdb)
		hub.AttachBridge(bridge)
		go func() {
			if err := bridge.Run(hubCtx, hub); err != nil && err != context.Canceled {
				slog.Error("chat bridge error", slog.String("error", err.Error()))
			}
		}()
		slog.Info("chat bridge enabled")
	}

	go func() {
		if err := hub.Run(hubCtx); err != nil && err != context.Canceled {
			slog.Error("hub error", slog.String("error", err.Error()))
		}
	}()
	slog.Info("websocket hub started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	userHandler := handler.NewUserHandler(userService)
	batchHandler := handler.NewBatchHandler(batchService, chatService)
	studentHandler := handler.NewStudentHandler(studentService)
	syllabusHandler := handler.NewSyllabusHandler(syllabusService)
	wsHandler := handler.NewWebSocketHandler(hub, verifier, authzService, chatService)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)))
	r.Use(middleware.Metrics())

	ipLimiter := middleware.NewIPLimiter(ctx, 20, 50)
	r.Use(ipLimiter.Middleware())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(db, rdb))
	r.Handle("/metrics", promhttp.Handler())

	limit := cfg.RateLimitStandard
	window := cfg.RateLimitWindow

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(verifier))

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.ActionLimit(limiter, "user:create", limit, window)).Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{userID}", userHandler.Get)
			r.With(middleware.ActionLimit(limiter, "user:update", limit, window)).Put("/{userID}", userHandler.Update)
			r.With(middleware.ActionLimit(limiter, "user:delete", limit, window)).Delete("/{userID}", userHandler.Delete)
		})

		r.Route("/batches", func(r chi.Router) {
			r.With(middleware.ActionLimit(limiter, "batch:create", limit, window)).Post("/", batchHandler.Create)
			r.Get("/", batchHandler.List)
			r.Get("/{batchID}", batchHandler.Get)
			r.With(middleware.ActionLimit(limiter, "batch:update", limit, window)).Put("/{batchID}", batchHandler.Update)
			r.With(middleware.ActionLimit(limiter, "batch:delete", limit, window)).Delete("/{batchID}", batchHandler.Delete)

			r.Get("/{batchID}/messages", batchHandler.ChatHistory)

			r.Route("/{batchID}/schedules", func(r chi.Router) {
				r.With(middleware.ActionLimit(limiter, "schedule:create", limit, window)).Post("/", batchHandler.CreateSchedule)
				r.Get("/", batchHandler.ListSchedules)
				r.With(middleware.ActionLimit(limiter, "schedule:update", limit, window)).Put("/{scheduleID}", batchHandler.UpdateSchedule)
				r.With(middleware.ActionLimit(limiter, "schedule:delete", limit, window)).Delete("/{scheduleID}", batchHandler.DeleteSchedule)
			})

			r.Get("/{batchID}/students", studentHandler.Roster)
			r.With(middleware.ActionLimit(limiter, "enrollment:create", limit, window)).Post("/{batchID}/students", studentHandler.Enroll)
		})

		r.Route("/students", func(r chi.Router) {
			r.With(middleware.ActionLimit(limiter, "student:create", limit, window)).Post("/", studentHandler.Create)
			r.Get("/", studentHandler.List)
			r.Get("/{studentID}", studentHandler.Get)
			r.With(middleware.ActionLimit(limiter, "student:update", limit, window)).Put("/{studentID}", studentHandler.Update)
			r.With(middleware.ActionLimit(limiter, "student:delete", limit, window)).Delete("/{studentID}", studentHandler.Delete)
		})

		r.With(middleware.ActionLimit(limiter, "enrollment:delete", limit, window)).
			Delete("/enrollments/{enrollmentID}", studentHandler.Unenroll)

		r.Route("/syllabus", func(r chi.Router) {
			r.With(middleware.ActionLimit(limiter, "syllabus:create", limit, window)).Post("/", syllabusHandler.Create)
			r.Get("/", syllabusHandler.List)
			r.Get("/{syllabusID}", syllabusHandler.Get)
			r.With(middleware.ActionLimit(limiter, "syllabus:update", limit, window)).Put("/{syllabusID}", syllabusHandler.Update)
			r.With(middleware.ActionLimit(limiter, "syllabus:delete", limit, window)).Delete("/{syllabusID}", syllabusHandler.Delete)
		})
	})

	// Auth handled internally to support query param tokens
	r.Get("/ws/chat/batch/{batchID}", wsHandler.HandleConnection)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("edubatch server listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	hubCancel()

	time.Sleep(100 * time.Millisecond)

	slog.Info("server stopped gracefully")
}
