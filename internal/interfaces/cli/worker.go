package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/example/dining-concierge/internal/application/usecases"
	"github.com/example/dining-concierge/internal/application/worker"
	"github.com/example/dining-concierge/internal/infrastructure/config"
	"github.com/example/dining-concierge/internal/infrastructure/opensearch"
	"github.com/example/dining-concierge/internal/infrastructure/postgres"
	"github.com/example/dining-concierge/internal/infrastructure/redisqueue"
	"github.com/example/dining-concierge/internal/infrastructure/smtp"
)

func NewWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the fulfillment worker loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}
			if cfg.SearchURL == "" {
				return fmt.Errorf("SEARCH_URL is required")
			}
			if cfg.SMTPHost == "" || cfg.MailFrom == "" {
				return fmt.Errorf("SMTP_HOST and MAIL_FROM are required")
			}

			logger := log.With("component", "worker")
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}

			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer rdb.Close()
			queue := redisqueue.New(rdb, cfg.ClaimTTL)
			if err := queue.Ping(ctx); err != nil {
				return fmt.Errorf("redis: %w", err)
			}

			runner := &worker.Runner{
				Fulfill: usecases.FulfillNext{
					Queue:       queue,
					Search:      opensearch.New(cfg.SearchURL, cfg.SearchIndex, cfg.SearchUser, cfg.SearchPassword),
					Restaurants: postgres.NewRestaurantRepo(pool),
					Mailer:      smtp.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom),
					ReceiveWait: cfg.ReceiveWait,
					Rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
					Log:         logger,
				},
				Recover:  queue,
				Interval: cfg.PollInterval,
				Log:      logger,
			}

			logger.Info("worker started", "poll", cfg.PollInterval, "claim_ttl", cfg.ClaimTTL)
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("worker stopped")
			return nil
		},
	}
}
