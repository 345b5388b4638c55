package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagDBDriver  string
	flagDBPath    string

	cfg  *config.Config
	logr *zap.Logger
)

// NewRootCmd creates the root cobra command for timetablectl.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "timetablectl",
		Short: "Operator tooling for the timetable API",
		Long:  "timetablectl manages the timetable database schema, checks master data and issues development tokens.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			if flagDBDriver != "" {
				loaded.Database.Driver = flagDBDriver
			}
			if flagDBPath != "" {
				loaded.Database.Path = flagDBPath
			}
			if flagLogLevel != "" {
				loaded.Log.Level = flagLogLevel
			}
			loaded.Log.Format = flagLogFormat
			cfg = loaded

			logr, err = logger.New(cfg)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logr != nil {
				_ = logr.Sync()
			}
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "Log format (console, json)")
	root.PersistentFlags().StringVar(&flagDBDriver, "db-driver", "", "Override DB_DRIVER (postgres, pgx, sqlite)")
	root.PersistentFlags().StringVar(&flagDBPath, "db-path", "", "Override DB_PATH for sqlite")

	root.AddCommand(
		newMigrateCmd(),
		newPrecheckCmd(),
		newTokenCmd(),
	)

	return root
}
