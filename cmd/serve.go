package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/order-service/internal/config"
	"github.com/jmehdipour/order-service/internal/db"
	"github.com/jmehdipour/order-service/internal/events"
	httpSrv "github.com/jmehdipour/order-service/internal/http"
	"github.com/jmehdipour/order-service/internal/kafka"
	"github.com/jmehdipour/order-service/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Log.Level); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync()

		mysqlDB, err := connectMySQL(cfg)
		if err != nil {
			return err
		}
		defer mysqlDB.Close()

		if err := db.EnsureSchema(cmd.Context(), mysqlDB); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		// optional: rate limiting
		redisClient, err := db.NewRedisClient(db.RedisOpts{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		if redisClient != nil {
			defer func() { _ = redisClient.Close() }()
		} else {
			logger.Log.Info("redis not configured, rate limiting disabled")
		}

		// optional: order events
		var publisher events.Publisher = events.Nop{}
		if len(cfg.Kafka.Brokers) > 0 {
			producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.MaxAttempts)
			defer func() { _ = producer.Close() }()
			publisher = events.NewKafkaPublisher(producer, cfg.Kafka.PublishTimeout)
		} else {
			logger.Log.Info("kafka not configured, order events disabled")
		}

		server := httpSrv.NewServer(cfg, mysqlDB, redisClient, publisher)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		runErr := awaitStop(sigCh, errCh)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		_ = server.Shutdown(ctx)

		return runErr
	},
}

// awaitStop blocks until a signal arrives or the server stops on its own.
// Only the latter, other than a regular close, is an error.
func awaitStop(sigCh <-chan os.Signal, errCh <-chan error) error {
	select {
	case sig := <-sigCh:
		logger.Log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("http server exited", zap.Error(err))
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
