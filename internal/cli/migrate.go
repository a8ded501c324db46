package cli

import (
	"github.com/spf13/cobra"

	"fintrack/internal/backend"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			if bcfg.Type == backend.MemoryBackend {
				logger.Info("Memory backend has no schema, nothing to migrate")
				return nil
			}
			// Opening a SQL store brings its schema up to date.
			bcfg.AMQPURL = ""
			res, err := backend.NewFactory(logger.Logger).CreateBackend(cmd.Context(), bcfg)
			if err != nil {
				return err
			}
			logger.Info("Migrations applied", "backend", bcfg.Type)
			return res.Cleanup()
		},
	}
}
