// Command shop runs the shop API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/diewo77/go-shop/internal/config"
	"github.com/diewo77/go-shop/internal/db"
	"github.com/diewo77/go-shop/internal/obs"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is shared by the subcommands once the root pre-run has loaded it.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func (e *env) openDB() (*gorm.DB, error) {
	return db.Open(e.cfg.Database, e.log)
}

// migrate applies the schema: versioned SQL on postgres when MIGRATIONS is
// set, AutoMigrate otherwise.
func (e *env) migrate(conn *gorm.DB) error {
	if e.cfg.App.Migrations && !e.cfg.Database.IsSQLite() {
		e.log.Info("running sql migrations")
		return db.RunSQLMigrations(e.cfg.Database.URL())
	}
	e.log.Info("running automigrate")
	return db.Migrate(conn)
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var envFile string

	root := &cobra.Command{
		Use:           "shop",
		Short:         "Shopping cart and order API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; the environment may already be set.
			_ = godotenv.Load(envFile)
			e.cfg = config.Load()
			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				e.cfg.App.LogLevel = lvl
			}
			logger, err := obs.NewLogger(e.cfg.App.Dev, e.cfg.App.LogLevel)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			e.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	root.PersistentFlags().String("log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(newServeCmd(e), newMigrateCmd(e), newSeedCmd(e))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
