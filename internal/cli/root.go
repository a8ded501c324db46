package cli

import (
	"io"

	"github.com/spf13/cobra"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

type rootOptions struct {
	envFile string
}

// NewRootCommand creates the fintrack command with every subcommand
// registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal income and expense ledger",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "load environment from this file instead of ./.env")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSummaryCommand(opts),
	)

	return rootCmd
}

// bootstrap runs the start-up common to every subcommand. Logs go to
// logOut so command output on stdout stays machine readable.
func (o *rootOptions) bootstrap(logOut io.Writer) (*config.Config, *applog.Logger, error) {
	if err := LoadEnvFile(o.envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := SetupLogger(cfg, logOut)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
