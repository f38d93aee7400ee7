package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quiz_portal/backend"
	"quiz_portal/config"
	"quiz_portal/db"
	"quiz_portal/exam"
	"quiz_portal/handlers"
	"quiz_portal/logger"
	"quiz_portal/middleware"
	"quiz_portal/routes"
	"quiz_portal/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Audit log is optional
	var recorder exam.Recorder = exam.NopRecorder
	var audit handlers.Pinger
	if cfg.Database.URL != "" {
		database, err := db.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer database.Close()

		if err := db.InitSchema(ctx, database); err != nil {
			log.Fatal("failed to initialize database schema", zap.Error(err))
		}
		auditLog := db.NewAuditLog(database)
		recorder, audit = auditLog, auditLog
		log.Info("integrity audit log enabled")
	} else {
		log.Info("integrity audit log disabled, database.url is empty")
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	store := exam.NewStore(cfg.Exam.AttemptTTL)
	service := exam.NewService(store, client, recorder, log)

	sweeper := exam.NewSweeper(store, cfg.Exam.SweepSchedule, log)
	go func() {
		if err := sweeper.Start(ctx); err != nil {
			log.Error("attempt sweeper stopped", zap.Error(err))
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.SetHTMLTemplate(views.Templates())

	routes.SetupRoutes(r, routes.Deps{
		Config:   cfg,
		Backend:  client,
		Exams:    service,
		Sessions: middleware.NewSessionManager(cfg.Session),
		Audit:    audit,
		Logger:   log,
	})

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("backend", cfg.Backend.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
}
