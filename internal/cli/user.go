package cli

import (
	"fmt"

	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/database"
	"github.com/justsurfingit/jobs-in-germany/internal/services"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var email, name, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			db, err := database.Connect(cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			svc := services.NewAuthService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL), logger)
			user, err := svc.CreateUser(cmd.Context(), email, password, name, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "E-mail address (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 6 characters (required)")
	cmd.Flags().StringVar(&role, "role", "candidate", "Role (candidate, recruiter, admin)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
