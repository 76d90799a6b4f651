// Command server runs the property-management API. The serve subcommand
// starts the HTTP server and the payment event consumer; migrate applies
// pending schema migrations and exits. Migrations never run implicitly.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yhajali/aqari-backend/internal/config"
	"github.com/yhajali/aqari-backend/internal/database"
	"github.com/yhajali/aqari-backend/internal/queue"
	"github.com/yhajali/aqari-backend/internal/router"
)

func main() {
	// Absent .env is fine in containers; real env vars win either way.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "server",
		Short: "Property management API server",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return err
			}
			defer db.Close()

			rdb := config.NewRedisClient()
			if rdb != nil {
				defer rdb.Close()
			}

			go func() {
				if err := queue.StartPaymentConsumer(); err != nil {
					log.Printf("payment consumer stopped: %v", err)
				}
			}()

			e := router.New(cfg, db, rdb)
			return e.Start(":" + cfg.Port)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			n, err := database.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.Printf("applied %d migration(s)", n)
			return nil
		},
	}
}
