package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/database"
	"github.com/studyloop/studyloop-backend/internal/handler"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/repository"
	"github.com/studyloop/studyloop-backend/internal/router"
	"github.com/studyloop/studyloop-backend/internal/service"
	"github.com/studyloop/studyloop-backend/internal/validator"
	"github.com/studyloop/studyloop-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting StudyLoop Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	learnerRepo := repository.NewLearnerRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	chapterRepo := repository.NewChapterRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	learnerService := service.NewLearnerService(learnerRepo, authService)
	adminUserService := service.NewAdminUserService(adminRepo, roleRepo, authService)
	adminRoleService := service.NewAdminRoleService(roleRepo)
	courseService := service.NewCourseService(courseRepo, chapterRepo, lessonRepo)
	examService := service.NewExamService(examRepo, chapterRepo, courseRepo)
	questionService := service.NewQuestionService(questionRepo, chapterRepo)
	documentService := service.NewDocumentService(cfg, documentRepo)
	sessionService := service.NewSessionService(examRepo, questionRepo, attemptRepo, rdb)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(learnerService, adminUserService, log),
		LearnerPortal: handler.NewLearnerPortalHandler(courseService, examService, sessionService, log),
		LearnerMgmt:   handler.NewLearnerManagementHandler(learnerService, log),
		Course:        handler.NewCourseHandler(courseService, log),
		Exam:          handler.NewExamHandler(examService, log),
		Question:      handler.NewQuestionHandler(questionService, log),
		Document:      handler.NewDocumentHandler(documentService, log),
		AdminUser:     handler.NewAdminUserHandler(adminUserService, log),
		AdminRole:     handler.NewAdminRoleHandler(adminRoleService, log),
		WS:            handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	expiryWorker := worker.NewExpiryWorker(attemptRepo, sessionService, cfg.AttemptSweepInterval, cfg.AttemptGrace, log)
	go expiryWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the expiry sweeper and let any in-flight sweep finish.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
