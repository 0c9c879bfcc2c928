package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/segyhp/lendbook/internal/clock"
	"github.com/segyhp/lendbook/internal/config"
	"github.com/segyhp/lendbook/internal/handler"
	"github.com/segyhp/lendbook/internal/logger"
	"github.com/segyhp/lendbook/internal/repository"
	"github.com/segyhp/lendbook/internal/service"
	"github.com/segyhp/lendbook/internal/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log.Logger = logg

	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Initialize store
	store, closeStore, err := repository.OpenStore(cfg.Store, logg)
	if err != nil {
		logg.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("failed to open store")
	}
	defer closeStore()

	// Initialize repositories
	clientRepo := repository.NewClientRepository(store)
	paymentRepo := repository.NewPaymentRepository(store)

	// Initialize services
	calculatorService := service.NewCalculatorService(cfg.Business.SchedulePreviewRows, cfg.Business.CurrencySymbol)
	ledgerService := service.NewLedgerService(clientRepo, paymentRepo, cfg, clock.Real(), logg)

	router := handler.NewRouter(
		handler.NewCalculatorHandler(calculatorService),
		handler.NewLedgerHandler(ledgerService),
		handler.NewHealthHandler(map[string]handler.Pinger{"store": store}, cfg.GetHealthTimeout()),
		logg,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		logg.Info().Str("addr", server.Addr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := shutdownTracing(ctx); err != nil {
		logg.Error().Err(err).Msg("failed to flush traces")
	}

	logg.Info().Msg("server exited")
}
