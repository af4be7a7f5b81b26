package cli

import (
	"fmt"

	"github.com/justsurfingit/jobs-in-germany/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed the course catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
			n, err := database.SeedCourses(db)
			if err != nil {
				return fmt.Errorf("seed courses: %w", err)
			}
			logger.Info("migration complete", "courses_added", n)
			return nil
		},
	}
}
