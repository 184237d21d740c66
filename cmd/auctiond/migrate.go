package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrNoDatabase is returned by migrate without a database.dsn.
var ErrNoDatabase = errors.New("migrate requires database.dsn")

func newMigrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if cfg.Database.DSN == "" {
				return ErrNoDatabase
			}

			es, closeStore, err := openPostgresEventStore(cmd.Context(), cfg.Database, logger)
			defer closeStore()
			if err != nil {
				return err
			}

			return es.CreateSchema(cmd.Context())
		},
	}
}
