package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBackfillCmd(state *rootState) *cobra.Command {
	var (
		dsn   string
		limit int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fill in missing drinking windows in the cellar database",
		Long: "backfill reads every wine without a drinking window from the cellar's SQLite\n" +
			"database, estimates one and writes it back. With --watch it repeats on the\n" +
			"configured scheduler interval until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must not be negative, got %d", limit)
			}

			cfg := state.config()
			if dsn != "" {
				cfg.Database.DSN = dsn
			}
			if cmd.Flags().Changed("limit") {
				cfg.Database.Limit = limit
			}
			runner := state.build(cfg, cmd.ErrOrStderr())

			if watch {
				return runner.Watch(cmd.Context())
			}

			report, err := runner.Backfill(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if strings.EqualFold(state.opts.OutputFormat, outputJSON) {
				return writeJSON(out, report)
			}
			_, err = fmt.Fprintf(out, "Scanned %d wines: %d updated, %d failed\n", report.Scanned, report.Updated, report.Failed)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&dsn, "db", "", "cellar SQLite database (default: database.dsn)")
	f.IntVar(&limit, "limit", 0, "process at most this many wines (0 = all)")
	f.BoolVar(&watch, "watch", false, "keep running and backfill on the scheduler interval")

	return cmd
}
