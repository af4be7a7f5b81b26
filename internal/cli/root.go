package cli

import (
	"log/slog"

	"github.com/justsurfingit/jobs-in-germany/internal/config"
	"github.com/justsurfingit/jobs-in-germany/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagEnvFiles  []string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg    *config.Config
	logger *slog.Logger
)

// NewRootCmd creates the root cobra command. Without a subcommand it serves
// the API.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jobs",
		Short: "Jobs in Germany API",
		Long:  "Backend for the Jobs in Germany site: sign-in, CV upload and course payment forms, job listings and statistics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagEnvFiles...)
			if err != nil {
				return err
			}
			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = flagLogLevel
			}
			if flagDebug {
				level = "debug"
			}
			format := cfg.LogFormat
			if cmd.Flags().Changed("log-format") {
				format = flagLogFormat
			}
			logger = logging.NewLogger(logging.ParseLevel(level), format)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringSliceVar(&flagEnvFiles, "env-file", nil, "Env files to load (default .env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error) (or LOG_LEVEL env)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json) (or LOG_FORMAT env)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newUserCmd(),
		newGmailCmd(),
	)

	return root
}
