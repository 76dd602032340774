package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"einsatzplan/config"
	"einsatzplan/pkg/database"
	applogger "einsatzplan/pkg/logger"
)

const appVersion = "1.0.0"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "planctl",
		Short:         "Einsatzplan maintenance and reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = appVersion
	root.SetVersionTemplate("planctl v{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./config/config.yaml)")

	root.AddCommand(
		newHoursCmd(),
		newMigrateCmd(&configPath),
		newReportCmd(&configPath),
	)
	return root
}

// openDB loads the storage config and connects; callers close the pool.
func openDB(configPath string) (*gorm.DB, *config.Config, *zap.Logger, error) {
	cfg, err := config.LoadStorage(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return db, cfg, logger, nil
}
