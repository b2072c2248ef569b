package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"homeservices/internal/catalog"
	"homeservices/internal/config"
	"homeservices/internal/expert"
	"homeservices/internal/platform/logger"
	"homeservices/internal/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Load the service catalog and experts from a YAML file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := loadSeedFile(file)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d services, %d experts OK in %s\n",
					len(data.Services), len(data.Experts), file)
				return nil
			}
			return seed(cmd.Context(), data)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "db/seed/services.yaml", "seed catalog file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without touching the database")
	return cmd
}

func seed(ctx context.Context, data seedData) error {
	if ctx == nil {
		ctx = context.Background()
	}
	config.LoadEnvFiles()
	cfg, err := config.Parse(os.Getenv)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	engine, err := pricing.NewEngine(cfg.Pricing)
	if err != nil {
		return err
	}
	svc := catalog.NewService(catalog.NewPostgresRepo(pool, cfg.DBTimeout), engine)
	experts := expert.NewService(expert.NewPostgresRepo(pool, cfg.DBTimeout))

	start := time.Now()
	var created, updated int
	for _, rec := range data.Services {
		inserted, err := svc.Upsert(ctx, rec)
		if err != nil {
			return err
		}
		if inserted {
			created++
		} else {
			updated++
		}
	}
	var expertsCreated, expertsUpdated int
	for _, e := range data.Experts {
		inserted, err := experts.Upsert(ctx, e)
		if err != nil {
			return err
		}
		if inserted {
			expertsCreated++
		} else {
			expertsUpdated++
		}
	}
	log.Info("seed complete",
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("experts_created", expertsCreated),
		zap.Int("experts_updated", expertsUpdated),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
