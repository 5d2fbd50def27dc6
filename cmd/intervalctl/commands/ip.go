package commands

import "github.com/spf13/cobra"

func (a *app) ipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ip",
		Short: "Query the configured ip ranges",
	}
	cmd.AddCommand(
		a.ipLookupCmd(),
		a.ipFreeCmd(),
		a.ipRouteCmd(),
		a.ipListCmd(),
	)
	return cmd
}

func (a *app) ipLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <addr>",
		Short: "List every ip range containing the address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ipranges.Lookup(args[0])
			if err != nil {
				return err
			}
			a.log.V(1).Info("ip lookup", "addr", args[0], "found", len(entries))
			return a.printer(cmd.OutOrStdout()).entries(rangeViews(entries))
		},
	}
}

func (a *app) ipFreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free <range>",
		Short: "Show the first address of the range not covered by any ip range",
		Long: `Show the first address of the range not covered by any ip range.

The range is written as from-to, as a prefix or as a single address:
  intervalctl ip free 10.0.0.0/24
  intervalctl ip free 10.0.0.10-10.0.0.20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := a.ipranges.FindFree(args[0])
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).addr("free", addr)
		},
	}
}

func (a *app) ipRouteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <addr>",
		Short: "Show the longest configured prefix containing the address",
		Long: `Show the longest configured prefix containing the address.

Only ip ranges written as a prefix, or that span exactly one, take part.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := a.ipranges.Route(args[0])
			if err != nil {
				return err
			}
			a.log.V(1).Info("ip route", "addr", args[0], "prefix", route.Prefix())
			return a.printer(cmd.OutOrStdout()).entry(routeView(route))
		},
	}
}

func (a *app) ipListCmd() *cobra.Command {
	var selector string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the ip ranges, optionally filtered by a label selector",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := parseSelector(selector)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).entries(rangeViews(a.ipranges.GetByLabel(s)))
		},
	}

	cmd.Flags().StringVarP(&selector, "selector", "l", "", "label selector, e.g. site=a")
	return cmd
}
