package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hrms/internal/app/server"
	"hrms/internal/auth"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "hrms",
		Short: "HR management server",
	}
	root.AddCommand(serverCmd(), migrateCmd(), hashpwCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			app, err := server.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			log.Printf("hrms listening on %s", cfg.Addr)
			return app.Start()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.Connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Migrate(ctx, pool, cfg.MigrationsDir)
		},
	}
}

func hashpwCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hashpw <password>",
		Short: "Print the bcrypt hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}
