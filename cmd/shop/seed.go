package main

import (
	"fmt"
	"time"

	"github.com/diewo77/go-shop/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog, discount codes and accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			if err := e.migrate(conn); err != nil {
				return err
			}
			if err := db.Seed(conn, e.cfg.App.AdminPassword, time.Now()); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			e.log.Info("seeding completed", zap.String("admin", db.AdminEmail), zap.String("client", db.ClientEmail))
			return nil
		},
	}
}
