package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"WineWindow/internal/domain"
)

type lookupFlags struct {
	grape   string
	country string
	region  string
	color   string
}

func newLookupCmd(state *rootState) *cobra.Command {
	flags := &lookupFlags{}

	cmd := &cobra.Command{
		Use:   "lookup NAME VINTAGE",
		Short: "Estimate the drinking window for one bottle",
		Example: `  winewindow lookup "Chateau Lafite Rothschild" 2020 --region Bordeaux --color red
  winewindow lookup "Cloudy Bay Sauvignon Blanc" 2023 --grape "Sauvignon Blanc" -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := flags.query(args[0], args[1])
			if err != nil {
				return err
			}

			runner := state.build(state.config(), cmd.ErrOrStderr())
			est := runner.Lookup(cmd.Context(), query)

			if strings.EqualFold(state.opts.OutputFormat, outputJSON) {
				return writeJSON(cmd.OutOrStdout(), est)
			}
			return printEstimate(cmd.OutOrStdout(), query, est)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.grape, "grape", "", "grape varietal")
	f.StringVar(&flags.country, "country", "", "country of origin")
	f.StringVar(&flags.region, "region", "", "region or appellation")
	f.StringVar(&flags.color, "color", "", "wine color (red, white)")

	return cmd
}

func (f *lookupFlags) query(name, vintage string) (domain.WineQuery, error) {
	year, err := strconv.Atoi(strings.TrimSpace(vintage))
	if err != nil {
		return domain.WineQuery{}, fmt.Errorf("vintage must be a year, got %q", vintage)
	}

	query := domain.WineQuery{
		Name:          strings.TrimSpace(name),
		Vintage:       year,
		GrapeVarietal: f.grape,
		Country:       f.country,
		Region:        f.region,
		Color:         domain.ParseColor(f.color),
	}
	if err := query.Validate(); err != nil {
		return domain.WineQuery{}, err
	}
	return query, nil
}

func printEstimate(w io.Writer, query domain.WineQuery, est domain.WindowEstimate) error {
	source := est.Source
	if est.IsFallback() {
		source += " (no review site had a window)"
	}

	rows := [][]string{
		{"Wine", fmt.Sprintf("%s %d", query.Name, query.Vintage)},
		{"Drinking window", est.Window.String()},
		{"Peak year", strconv.Itoa(est.PeakYear)},
		{"Confidence", string(est.Confidence)},
		{"Source", source},
	}
	if est.Notes != "" {
		rows = append(rows, []string{"Notes", est.Notes})
	}

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render estimate: %w", err)
	}
	return table.Render()
}
