package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	loadEnvFiles()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply the homeservices database migrations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dir, "dir", migrationsDir(), "migrations directory (MIGRATIONS_DIR)")

	root.AddCommand(
		dbCommand("up", "Apply all pending migrations", func(db *sql.DB) error {
			return goose.Up(db, dir)
		}, "Migrations applied successfully"),
		dbCommand("down", "Roll back the latest migration", func(db *sql.DB) error {
			return goose.Down(db, dir)
		}, "Migrations rolled back successfully"),
		dbCommand("status", "Print the migration status", func(db *sql.DB) error {
			return goose.Status(db, dir)
		}, ""),
		&cobra.Command{
			Use:   "create NAME",
			Short: "Create a new SQL migration",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Migration created: %s\n", args[0])
				return nil
			},
		},
	)
	return root
}

func dbCommand(use, short string, fn func(*sql.DB) error, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := fn(db); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			if done != "" {
				fmt.Fprintln(cmd.OutOrStdout(), done)
			}
			return nil
		},
	}
}

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		pool.Close()
		return nil, nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}
