package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"WineWindow/internal/app"
	"WineWindow/internal/config"
	"WineWindow/internal/domain"
	"WineWindow/internal/logging"
)

// Version is injected at build time via ldflags.
var Version = "dev"

const (
	outputText = "text"
	outputJSON = "json"
)

// Runner is the slice of the application the commands drive.
type Runner interface {
	Lookup(ctx context.Context, query domain.WineQuery) domain.WindowEstimate
	Backfill(ctx context.Context) (domain.BackfillReport, error)
	Watch(ctx context.Context) error
	Sources() []app.SourceInfo
}

// Factory builds a Runner from resolved settings.
type Factory func(cfg config.Config, logger *slog.Logger) Runner

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
}

type rootState struct {
	opts    RootOptions
	factory Factory
}

func (s *rootState) config() config.Config {
	var cfg config.Config
	if s.opts.ConfigPath != "" {
		cfg = config.LoadFile(s.opts.ConfigPath)
	} else {
		cfg = config.Load()
	}
	if s.opts.LogLevel != "" {
		cfg.Logging.Level = s.opts.LogLevel
	}
	return cfg
}

func (s *rootState) build(cfg config.Config, stderr io.Writer) Runner {
	logger := logging.NewWithWriter(stderr, cfg.Logging.Level, cfg.Logging.Format)
	return s.factory(cfg, logger)
}

func defaultFactory(cfg config.Config, logger *slog.Logger) Runner {
	return app.New(cfg, logger)
}

// NewRootCmd creates the winewindow command tree. A nil factory wires the
// real application.
func NewRootCmd(factory Factory) *cobra.Command {
	if factory == nil {
		factory = defaultFactory
	}
	state := &rootState{factory: factory}

	cmd := &cobra.Command{
		Use:     "winewindow",
		Short:   "Estimate when a wine should be drunk",
		Long:    "winewindow looks up drinking windows on public wine review sites and falls back\nto regional and varietal rules when no site has one.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOutput(state.opts.OutputFormat)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&state.opts.ConfigPath, "config", "c", "", "config file path (default: $WINEWINDOW_CONFIG)")
	pf.StringVar(&state.opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&state.opts.OutputFormat, "output", "o", outputText, "output format (text, json)")

	cmd.AddCommand(
		newLookupCmd(state),
		newBackfillCmd(state),
		newSourcesCmd(state),
	)
	return cmd
}

// Execute runs the root command and reports errors on stderr.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd(nil)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func validateOutput(format string) error {
	switch strings.ToLower(format) {
	case outputText, outputJSON:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (want text or json)", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
