package main

import (
	"context"
	"fmt"
	"os"

	"load-planning-service/internal/adapters/repositories"
	"load-planning-service/internal/app"
	"load-planning-service/internal/config"
	"load-planning-service/internal/platform/db"
	"load-planning-service/internal/platform/logging"
	"load-planning-service/internal/ports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	if _, err := logging.New(cfg.LogLevel, "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "dbtool",
		Short:        "Manage the load planning record store",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfg.Store.Backend, "backend", cfg.Store.Backend, "record store backend (sqlite|postgres|redis|mongo)")

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the embedded Postgres migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				conn, err := db.Open(cfg.Store.DatabaseURL)
				if err != nil {
					return err
				}
				defer conn.Close()

				return db.Migrate(conn)
			},
		},
		newSeedCmd(&cfg),
		newCountCmd(&cfg),
	)

	return root
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a JSON seed file into the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := app.OpenStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			zap.L().Info("seeding record store", zap.String("backend", cfg.Store.Backend), zap.String("path", cfg.Store.SeedPath))
			n, err := repositories.SeedFromJSON(ctx, store, cfg.Store.SeedPath)
			if err != nil {
				return err
			}
			zap.L().Info("seeding complete", zap.Int("records", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.Store.SeedPath, "file", cfg.Store.SeedPath, "seed file path")
	return cmd
}

func newCountCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored records per kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := app.OpenStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			for _, kind := range ports.RecordKinds {
				records, err := store.List(ctx, kind)
				if err != nil {
					return fmt.Errorf("count %s: %w", kind, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d\n", kind, len(records))
			}
			return nil
		},
	}
}
