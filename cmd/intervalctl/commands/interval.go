package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/henderiw/intervaltree/pkg/interval"
)

// ErrNoOverlap is returned by find when no interval overlaps the query.
var ErrNoOverlap = errors.New("no overlapping interval")

func parseIntervalArg(s string) (interval.Interval[int64], error) {
	iv, err := interval.ParseInt(s)
	if err != nil {
		return interval.Interval[int64]{}, fmt.Errorf("argument %q: %w", s, err)
	}
	return iv, nil
}

func (a *app) overlapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overlaps <interval>",
		Short: "List every interval overlapping the query, in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := parseIntervalArg(args[0])
			if err != nil {
				return err
			}
			entries := a.intervals.Overlapping(iv)
			a.log.V(1).Info("overlaps", "query", iv.String(), "found", len(entries))
			return a.printer(cmd.OutOrStdout()).entries(intervalViews(entries))
		},
	}
}

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <interval>",
		Short: "Show one interval overlapping the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := parseIntervalArg(args[0])
			if err != nil {
				return err
			}
			e, ok := a.intervals.FindOverlap(iv)
			if !ok {
				return fmt.Errorf("%s: %w", iv.String(), ErrNoOverlap)
			}
			return a.printer(cmd.OutOrStdout()).entry(intervalView(e))
		},
	}
}

func (a *app) selectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <k>",
		Short: "Show the interval at zero-based position k in interval order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("argument %q is not a position: %w", args[0], err)
			}
			e, err := a.intervals.Select(k)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).entry(intervalView(e))
		},
	}
}

func (a *app) rankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank <interval>",
		Short: "Count the stored intervals ordered before the query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			iv, err := parseIntervalArg(args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).value("rank", a.intervals.Rank(iv))
		},
	}
}

func (a *app) betweenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "between <low> <high>",
		Short: "List the stored intervals ordered from low up to, not including, high",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			low, err := parseIntervalArg(args[0])
			if err != nil {
				return err
			}
			high, err := parseIntervalArg(args[1])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).entries(intervalViews(a.intervals.Between(low, high)))
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the stored intervals, optionally filtered by a label selector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := parseSelector(selector)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).entries(intervalViews(a.intervals.GetByLabel(s)))
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "l", "", "label selector, e.g. zone=a,color!=red")
	return cmd
}
