package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/database"
	"github.com/stemsi/unirecords-backend/internal/handler"
	"github.com/stemsi/unirecords-backend/internal/logger"
	"github.com/stemsi/unirecords-backend/internal/mailer"
	"github.com/stemsi/unirecords-backend/internal/middleware"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/router"
	"github.com/stemsi/unirecords-backend/internal/service"
	"github.com/stemsi/unirecords-backend/internal/validator"
	"github.com/stemsi/unirecords-backend/internal/worker"
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
		Str("mail_driver", cfg.Mail.Driver).
		Msg("Starting UniRecords Backend")

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

	// ─── Mail Transport ────────────────────────────────────────────────
	mail, err := mailer.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure mail transport")
	}

	// Grade notifications use the Redis queue when MAIL_ASYNC is set.
	// Manual sends always use the transport directly.
	var gradeMail mailer.Mailer = mail
	var mailWorker *worker.MailWorker
	var mailQueue handler.QueueLength
	if cfg.Mail.Async {
		queue := worker.NewMailQueue(rdb)
		gradeMail, mailQueue = queue, queue
		mailWorker = worker.NewMailWorker(rdb, mail, cfg.Mail.MaxAttempts, log)
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	examRepo := repository.NewExamScheduleRepository(pool)
	scheduleRepo := repository.NewClassScheduleRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	notificationService := service.NewNotificationService(mail, log)
	gradeNotifier := service.NewNotificationService(gradeMail, log)
	studentService := service.NewStudentService(studentRepo)
	courseService := service.NewCourseService(courseRepo)
	gradeService := service.NewGradeService(studentRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, gradeNotifier, log)
	importService := service.NewImportService(studentRepo, courseRepo, enrollmentRepo, gradeNotifier, log)
	exportService := service.NewExportService(enrollmentRepo)
	transcriptService := service.NewTranscriptService(studentRepo, enrollmentRepo)
	examService := service.NewExamScheduleService(examRepo)
	scheduleService := service.NewClassScheduleService(scheduleRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, examRepo, scheduleRepo, gradeService)
	userService := service.NewUserService(userRepo, studentRepo, authService, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, userService),
		Student:      handler.NewStudentHandler(studentService, gradeService, transcriptService),
		Course:       handler.NewCourseHandler(courseService),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentService, importService, exportService, cfg.MaxUploadBytes, log),
		Exam:         handler.NewExamHandler(examService),
		Schedule:     handler.NewScheduleHandler(scheduleService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Notification: handler.NewNotificationHandler(notificationService, log),
		User:         handler.NewUserHandler(userService),
		System: handler.NewSystemHandler(map[string]handler.Probe{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, mailQueue, log),
	}

	// ─── Start Background Workers ──────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	if mailWorker != nil {
		go func() {
			mailWorker.Start(workerCtx)
			close(workerDone)
		}()
		log.Info().Msg("Mail worker started")
	} else {
		close(workerDone)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)
	r := router.SetupRouter(authService, loginLimiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// Stop accepting new HTTP requests (10s timeout for uploads in flight).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Stop the mail worker; it drains the queue before returning.
	workerCancel()
	<-workerDone

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
