// Package commands implements the intervalctl subcommands.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/henderiw/intervaltree/internal/config"
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/iprange"
	"github.com/henderiw/intervaltree/pkg/itable"
	"k8s.io/apimachinery/pkg/labels"
)

type app struct {
	configPath string

	cfg       *config.Config
	log       logr.Logger
	intervals itable.Table[int64]
	ipranges  iprange.IPRangeTable
}

// NewRootCommand returns the intervalctl command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: logr.Discard()}

	rootCmd := &cobra.Command{
		Use:   "intervalctl",
		Short: "Query a labelled set of intervals and ip ranges",
		Long: `intervalctl loads integer intervals and ip ranges from a config file
and answers overlap, order and label queries on them.

Intervals are written as [a,b], (a,b), [a,b), (a,b] or [a] for a point,
with _ for an unbounded side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default .intervalctl.yaml in the current or home directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (text, yaml)")

	rootCmd.AddCommand(
		a.overlapsCmd(),
		a.findCmd(),
		a.selectCmd(),
		a.rankCmd(),
		a.betweenCmd(),
		a.listCmd(),
		a.ipCmd(),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cmd, cfg.Log.Level)

	a.intervals, a.ipranges, err = loadDataset(cfg)
	if err != nil {
		a.log.Error(err, "invalid dataset")
		return err
	}
	a.log.V(1).Info("dataset loaded", "intervals", a.intervals.Size(), "ipranges", a.ipranges.Count())
	return nil
}

func newLogger(cmd *cobra.Command, level string) logr.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return logr.FromSlogHandler(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

// loadDataset claims every configured entry. All invalid entries are
// reported together.
func loadDataset(cfg *config.Config) (itable.Table[int64], iprange.IPRangeTable, error) {
	var errs error

	intervals := itable.New[int64]("intervals", nil)
	for i, e := range cfg.Intervals {
		iv, err := interval.ParseInt(e.Interval)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("intervals[%d]: %w", i, err))
			continue
		}
		if err := intervals.Claim(iv, labels.Set(e.Labels)); err != nil {
			errs = errors.Join(errs, fmt.Errorf("intervals[%d]: %w", i, err))
		}
	}

	ipranges := iprange.New("ipranges")
	for i, e := range cfg.IPRanges {
		if err := ipranges.Claim(e.Range, labels.Set(e.Labels)); err != nil {
			errs = errors.Join(errs, fmt.Errorf("ipranges[%d]: %w", i, err))
		}
	}
	return intervals, ipranges, errs
}

func parseSelector(s string) (labels.Selector, error) {
	selector, err := labels.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", s, err)
	}
	return selector, nil
}
