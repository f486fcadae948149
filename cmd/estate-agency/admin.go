package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/service"
)

// CreateAdminCmd bootstraps the first administrator account.
func CreateAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			rt, err := bootstrap(ctx, false)
			if err != nil {
				return err
			}
			defer rt.close()
			if !rt.pg.Enabled() {
				rt.logger.Warn("no POSTGRES_DSN; the account only lives for this process")
			}

			authService := service.NewAuthService(*rt.cfg, service.AuthDependencies{Store: rt.store})
			user, err := authService.CreateAdmin(ctx, service.RegisterInput{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			rt.logger.Info("admin created", zap.String("user_id", user.ID), zap.String("username", user.Username))
			return nil
		},
	}

	cmd.Flags().String("username", "", "Admin username")
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password")

	return cmd
}
