package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSourcesCmd(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List review sites in the order they are consulted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := state.build(state.config(), cmd.ErrOrStderr()).Sources()

			if strings.EqualFold(state.opts.OutputFormat, outputJSON) {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("#", "Name", "Site", "Status")
			for i, info := range infos {
				status := "enabled"
				if !info.Enabled {
					status = "disabled"
				}
				if err := table.Append([]string{strconv.Itoa(i + 1), info.Name, info.Label, status}); err != nil {
					return fmt.Errorf("render sources: %w", err)
				}
			}
			return table.Render()
		},
	}
}
