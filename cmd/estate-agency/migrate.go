package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/estate-agency/internal/persistence"
)

// MigrateCmd applies the embedded SQL migrations.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, _ := cmd.Flags().GetBool("list")
			if list {
				names, err := persistence.MigrationNames()
				if err != nil {
					return fmt.Errorf("failed to read migrations: %w", err)
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			rt, err := bootstrap(ctx, true)
			if err != nil {
				return err
			}
			defer rt.close()
			if !rt.pg.Enabled() {
				return errors.New("POSTGRES_DSN is required to migrate")
			}
			rt.logger.Info("migrations applied")
			return nil
		},
	}

	cmd.Flags().Bool("list", false, "Print the embedded migrations and exit")

	return cmd
}
