package main

import (
	"clinical-registry/cmd/bootstrap"
	"clinical-registry/config"
	"clinical-registry/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Load(envFile)
			if err != nil {
				return err
			}
			if cfg.DB.Driver != config.DriverPostgres {
				// SQLite has no versioned migrations; sync the models instead.
				cfg.DB.AutoMigrate = true
				db, err := bootstrap.OpenDatabase(cfg, log)
				if err != nil {
					return err
				}
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
				return nil
			}
			return database.MigrateUp(cfg.DB)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap.Load(envFile)
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cfg.DB, steps); err != nil {
				return err
			}
			log.Infof("Rolled back %d migration(s)", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
