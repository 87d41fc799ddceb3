package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"pharmabill/internal/config"
	"pharmabill/internal/handler"
	"pharmabill/internal/logger"
	"pharmabill/internal/metrics"
	"pharmabill/internal/middleware"
	"pharmabill/internal/repository/postgres"
	"pharmabill/internal/router"
	"pharmabill/internal/service"
	s3storage "pharmabill/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	draftRepo := postgres.NewDraftRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize services
	pricingSvc := service.NewPricingService(cfg.Pricing.DefaultMode)
	draftSvc := service.NewDraftService(draftRepo, s3Client, cfg)

	// Initialize handlers
	pricingH := handler.NewPricingHandler(pricingSvc)
	draftH := handler.NewDraftHandler(draftSvc)
	healthH := handler.NewHealthHandler(db)

	opts := router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	}
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Metrics = metrics.NewHTTP(cfg.Metrics.Namespace, reg)
		metrics.MustRegisterDomain(cfg.Metrics.Namespace, reg)
		opts.Gatherer = reg
	}
	if cfg.RateLimit.Rate != "" {
		if opts.RateLimit, err = middleware.RateLimit(cfg.RateLimit.Rate); err != nil {
			return fmt.Errorf("failed to configure rate limit: %w", err)
		}
	}

	r := router.Setup(opts, pricingH, draftH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).
			Str("default_mode", string(cfg.Pricing.DefaultMode)).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
