package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/core"
)

type summaryOutput struct {
	TotalIncome  json.Number `json:"totalIncome"`
	TotalExpense json.Number `json:"totalExpense"`
	Balance      json.Number `json:"balance"`
}

func newSummaryOutput(s core.Summary) summaryOutput {
	return summaryOutput{
		TotalIncome:  json.Number(s.TotalIncome.String()),
		TotalExpense: json.Number(s.TotalExpense.String()),
		Balance:      json.Number(s.Balance.String()),
	}
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print income, expense and balance totals as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, logger, err := opts.bootstrap(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			bcfg, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			bcfg.AMQPURL = ""
			res, err := backend.NewFactory(logger.Logger).CreateBackend(cmd.Context(), bcfg)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := res.Cleanup(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			summary, err := res.Ledger.Summarize(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(newSummaryOutput(summary))
		},
	}
}
