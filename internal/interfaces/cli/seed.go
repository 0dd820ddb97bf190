package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/example/dining-concierge/internal/application/usecases"
	"github.com/example/dining-concierge/internal/infrastructure/config"
	"github.com/example/dining-concierge/internal/infrastructure/opensearch"
	"github.com/example/dining-concierge/internal/infrastructure/postgres"
)

func NewSeedCmd() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "seed",
		Short: "Load a restaurant corpus file into the store and search index",
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

			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var entries []usecases.CorpusEntry
			if err := sonic.Unmarshal(raw, &entries); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}

			uc := usecases.SeedCorpus{
				Store: postgres.NewRestaurantRepo(pool),
				Index: opensearch.New(cfg.SearchURL, cfg.SearchIndex, cfg.SearchUser, cfg.SearchPassword),
				Log:   log.With("component", "seed"),
			}
			n, err := uc.Execute(ctx, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "seeded %d restaurants\n", n)
			return nil
		},
	}

	c.Flags().StringVar(&file, "file", "", "corpus JSON file")
	_ = c.MarkFlagRequired("file")
	return c
}
