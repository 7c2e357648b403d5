package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	apphttp "ledger/internal/http"
	"ledger/internal/ledger"
	"ledger/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result := cli.InitBackend(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := ledger.New(result.Store)
	l.Load(ctx)

	// The event feed is optional; a broker that is down must not keep
	// the ledger from serving.
	var events services.EventPublisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without event feed", "error", err)
		} else {
			logger.Info("AMQP event feed connected",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			events = client
		}
	}

	var cleanup func() error
	if result.Cleanup != nil {
		cleanup = result.Cleanup
	}
	svc := services.NewLedgerService(l, events, cleanup)

	srv := apphttp.NewServer(":"+cfg.Port, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", srv.Addr, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server terminated with error", "error", err)
	}

	if err := svc.Close(); err != nil {
		logger.Warn("Cleanup finished with errors", "error", err)
	}
	logger.Info("Shutdown complete")
}
