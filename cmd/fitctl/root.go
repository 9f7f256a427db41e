package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/users"
)

type rootFlags struct {
	env        string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "fitctl",
		Short: "Operator tool for the fittrack service",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Warnf("load .env file: %s", err)
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(newStreakCmd(flags))
	rootCmd.AddCommand(newExportCmd(flags))
	rootCmd.AddCommand(newHashPasswordCmd())

	return rootCmd
}

// backend is what the data commands need: config, a db pool and the resolved user.
type backend struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool
	user   *users.User
}

func (b *backend) Close() {
	b.dbPool.Close()
}

func openBackend(ctx context.Context, flags *rootFlags, username string) (*backend, error) {
	cfg, err := config.Load(flags.env, flags.configPath)
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("FITTRACK_POSTGRES_PASS"),
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	user, err := users.NewRepo(dbPool).GetByUsername(ctx, username)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("get user [%s]: %w", username, err)
	}

	return &backend{
		cfg:    cfg,
		dbPool: dbPool,
		user:   user,
	}, nil
}
