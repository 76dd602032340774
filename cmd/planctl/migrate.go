package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"einsatzplan/pkg/database"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cfg, logger, err := openDB(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
				logger.Error("migration failed", zap.Error(err))
				return err
			}
			cmd.Println("schema up to date")
			return nil
		},
	}
}
