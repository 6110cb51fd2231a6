package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/sms-relay/internal/app"
	"github.com/allisson/sms-relay/internal/config"
	"github.com/allisson/sms-relay/internal/http"
)

const shutdownTimeout = 30 * time.Second

// RunServer provisions the configured topics, then runs the send queue consumer,
// the HTTP server and (when enabled) the metrics server until SIGINT/SIGTERM or
// until one of them fails. Topic provisioning failure aborts startup.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	admin, err := container.KafkaAdmin()
	if err != nil {
		return fmt.Errorf("failed to initialize kafka admin: %w", err)
	}
	if err := admin.EnsureTopics(ctx, cfg.Topics()); err != nil {
		return fmt.Errorf("failed to provision kafka topics: %w", err)
	}

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	consumer, err := container.SendSmsQueueConsumer()
	if err != nil {
		return fmt.Errorf("failed to initialize send queue consumer: %w", err)
	}

	shutdowns := []func(context.Context) error{server.Shutdown}

	var metricsServer *http.MetricsServer
	if cfg.MetricsEnabled {
		metricsServer, err = container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
		shutdowns = append(shutdowns, metricsServer.Shutdown)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gctx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := consumer.Run(gctx); err != nil {
			return fmt.Errorf("send queue consumer error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Start(gctx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	// The servers only return from Start once shut down, so stop them as soon as
	// the group is cancelled by a signal or by a failing member.
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for _, shutdown := range shutdowns {
			if err := shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, err)
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
