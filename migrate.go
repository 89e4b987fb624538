package main

import (
	"fmt"

	"education-backend/database"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetBool("seed")

			db, err := database.InitDB(cfg)
			if err != nil {
				return fmt.Errorf("error initializing database: %w", err)
			}
			defer db.Close()

			if err := database.Migrate(db, seed); err != nil {
				return fmt.Errorf("error migrating database: %w", err)
			}

			logrus.WithField("seed", seed).Info("Migration finished")
			return nil
		},
	}

	cmd.Flags().Bool("seed", false, "insert sample groups and a student into an empty database")
	return cmd
}
