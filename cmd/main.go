package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kmalikov/competition-system/config"
	"github.com/kmalikov/competition-system/db"
	"github.com/kmalikov/competition-system/draft"
	"github.com/kmalikov/competition-system/handlers"
	"github.com/kmalikov/competition-system/repositories"
	api "github.com/kmalikov/competition-system/routes"
	"github.com/kmalikov/competition-system/services"
	"github.com/kmalikov/competition-system/storage"
	_ "github.com/lib/pq"
)

const schedulerInterval = 30 * time.Second

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2). Без настроек
	// хранилища загрузка логотипов и фото отключена.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage is not configured, file uploads disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := draft.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	competitionRepo := repositories.NewPostgresCompetitionRepository(dbConn)
	golfCourseRepo := repositories.NewPostgresGolfCourseRepository(dbConn)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	assignmentRepo := repositories.NewPostgresTeamAssignmentRepository(dbConn)
	logger.Info("Repositories initialized")

	uow := services.NewSQLUnitOfWork(dbConn)

	// Почта опциональна: без SMTP уведомления просто не отправляются.
	var emailService *services.EmailService
	if cfg.SMTPConfigured() {
		emailService = services.NewEmailService(cfg)
		logger.Info("email service initialized")
	} else {
		logger.Warn("SMTP is not configured, email notifications disabled")
	}

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader, logger)
	golfCourseService := services.NewGolfCourseService(golfCourseRepo, uploader, logger)
	enrollmentService := services.NewEnrollmentService(
		enrollmentRepo,
		competitionRepo,
		userRepo,
		emailService,
		logger,
	)
	competitionService := services.NewCompetitionService(
		uow,
		competitionRepo,
		golfCourseRepo,
		enrollmentRepo,
		roundRepo,
		assignmentRepo,
		uploader,
		wsHub,
		logger,
	)
	teamAssignmentService := services.NewTeamAssignmentService(
		uow,
		competitionRepo,
		enrollmentRepo,
		assignmentRepo,
		roundRepo,
		draft.NewSnakeDraftAssigner(),
		wsHub,
		emailService,
		logger,
	)
	logger.Info("Services initialized")

	// Планировщик автоматических переходов статусов по датам
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("competition status scheduler started", slog.Duration("interval", schedulerInterval))

		if err := competitionService.AutoUpdateCompetitionStatusesByDates(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := competitionService.AutoUpdateCompetitionStatusesByDates(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	competitionHandler := handlers.NewCompetitionHandler(competitionService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	teamAssignmentHandler := handlers.NewTeamAssignmentHandler(teamAssignmentService)
	golfCourseHandler := handlers.NewGolfCourseHandler(golfCourseService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		userHandler,
		competitionHandler,
		enrollmentHandler,
		teamAssignmentHandler,
		golfCourseHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
