package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"katalog/internal/app"
	"katalog/internal/cache"
	"katalog/internal/config"
	"katalog/internal/database"
	"katalog/internal/models"
	"katalog/internal/services"
	"katalog/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(debug *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP API",
		Long:  "Start the HTTP API. Configuration comes from the environment (APP_PORT, DATABASE_DRIVER, DATABASE_DSN, JWT_SECRET, RABBITMQ_URL, REDIS_ADDR, ...).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := v.BindPFlag("APP_PORT", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger, err := config.NewLogger(cfg.LogLevel, *debug)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return serve(cfg, logger)
		},
	}
	cmd.Flags().String("port", ":8080", "listen address, overrides APP_PORT")
	return cmd
}

func serve(cfg config.Config, logger *zap.Logger) error {
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	logger.Info("database ready", zap.String("driver", cfg.DatabaseDriver))

	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.Dial(ctx, cfg.RedisAddr, cfg.CacheTTL)
		cancel()
		if err != nil {
			logger.Warn("product cache disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		} else {
			defer redisCache.Close()
			productCache = redisCache
			logger.Info("product cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	var publisher services.StockEventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, logger.Named("rabbitmq"))
		if err != nil {
			logger.Warn("stock events disabled", zap.Error(err))
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.ConsumeStockEvents(logStockEvent(logger.Named("stock-events"))); err != nil {
				logger.Error("failed to start stock event consumer", zap.Error(err))
			}
		}
	}

	fiberApp := app.New(app.Dependencies{
		DB:            db,
		Cache:         productCache,
		Publisher:     publisher,
		JWTSecret:     cfg.JWTSecret,
		JWTTTL:        cfg.JWTTTL,
		Logger:        logger,
		AccessLogging: true,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.AppPort))
		listenErr <- fiberApp.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
	return nil
}

// logStockEvent is the consumer side of the stock event queue.
func logStockEvent(logger *zap.Logger) rabbitmq.StockEventHandler {
	return func(event models.StockEvent) error {
		logger.Info("stock event received",
			zap.String("event_id", event.ID),
			zap.Int("product_id", event.ProductID),
			zap.String("kind", string(event.Kind)),
			zap.Int("amount", event.Amount),
			zap.Int("stock", event.Stock),
			zap.Time("occurred_at", event.OccurredAt))
		return nil
	}
}
