package main

import (
	"fmt"

	"github.com/diewo77/go-shop/internal/db"
	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			if err := e.migrate(conn); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			e.log.Info("migrations completed")
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "versions",
		Short: "List the embedded SQL migration versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := db.MigrationVersions()
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	})
	return cmd
}
