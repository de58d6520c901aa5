package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shipment_backoffice/internal/config"
	"shipment_backoffice/internal/logger"
	"shipment_backoffice/internal/routes"
	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}

	// Initialize structured logging
	logOutput := logger.Setup(cfg.LogFile, cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		logrus.Fatal("AUTH_ENABLED requires JWT_SECRET")
	}

	db, err := config.InitDB(cfg.DB, logger.NewGormLogger(logrus.StandardLogger()))
	if err != nil {
		logrus.WithError(err).Fatal("database setup failed")
	}
	logrus.WithField("driver", cfg.DB.Driver).Info("connected to database")

	images, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.UploadMaxDimension)
	if err != nil {
		logrus.WithError(err).Fatal("image store setup failed")
	}

	r := routes.SetupRouter(routes.Deps{
		Config:    cfg,
		DB:        db,
		Services:  services.New(db),
		Images:    images,
		LogOutput: logOutput,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Infof("server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
