package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres/migrations"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

func main() {
	configs := cmd.LoadConfig()

	appLogger, err := logger.New(configs.ServiceName, configs.LogLevel, configs.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()

	if err = run(configs, appLogger); err != nil {
		appLogger.Error("service stopped with error", logger.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
}

func run(configs cmd.Config, appLogger logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.Up(configs.DSN()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{
		Logger: gorm_logger.Default.LogMode(gorm_logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New()
	if err = appMetrics.Register(registry); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	publisher := kafka.NewPublisher(configs.KafkaBrokers, configs.KafkaTopic, appLogger)
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			appLogger.Warning("close event publisher", logger.Error(closeErr))
		}
	}()

	app, err := cmd.NewCompositionRoot(configs, gormDB, publisher, appMetrics, appLogger)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs, registry, appLogger)
}

func startWebServer(
	ctx context.Context,
	app *cmd.CompositionRoot,
	configs cmd.Config,
	registry *prometheus.Registry,
	appLogger logger.Logger,
) error {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	app.CreateHTTPServer().Register(e, registry)

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", logger.String("port", configs.HTTPPort))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
