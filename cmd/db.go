package cmd

import (
	"farmer/config"
	"farmer/internal/storage"

	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewPostgresRepository(db).ResetSchema(cmd.Context()); err != nil {
			return err
		}
		log.Info("database initialized")
		return nil
	},
}

var injectSampleCmd = &cobra.Command{
	Use:   "inject-sample",
	Short: "Reset the database and load the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := config.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := storage.NewPostgresRepository(db).InjectSample(cmd.Context()); err != nil {
			return err
		}
		log.Info("sample data injected")
		return nil
	},
}
