package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/example/dining-concierge/internal/application/usecases"
	"github.com/example/dining-concierge/internal/dialog"
	"github.com/example/dining-concierge/internal/infrastructure/config"
	"github.com/example/dining-concierge/internal/infrastructure/nlu"
	"github.com/example/dining-concierge/internal/infrastructure/redisqueue"
	"github.com/example/dining-concierge/internal/interfaces/web"
)

func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the chat API and dialog webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if len(cfg.SessionHashKey) == 0 || len(cfg.SessionBlockKey) == 0 {
				return fmt.Errorf("SESSION_HASH_KEY and SESSION_BLOCK_KEY are required (base64)")
			}
			if cfg.ChatPasswordHash == "" {
				return fmt.Errorf("CHAT_PASSWORD_HASH is required (bcrypt)")
			}
			if cfg.NLUURL == "" {
				return fmt.Errorf("NLU_URL is required")
			}

			logger := log.With("component", "server")

			rdb := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer rdb.Close()
			queue := redisqueue.New(rdb, cfg.ClaimTTL)

			engine := dialog.Engine{
				Dispatcher: usecases.DispatchReservation{Queue: queue},
				Log:        log.With("component", "dialog"),
			}
			sessions := web.NewSessionManager(cfg.SessionHashKey, cfg.SessionBlockKey)
			proxy := nlu.New(cfg.NLUURL, cfg.NLUBotName, cfg.NLUBotAlias)

			srv := web.New(cfg.HTTPAddr, sessions, engine, proxy, cfg.ChatPasswordHash, logger)
			return srv.ListenAndServe()
		},
	}
}
