package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dalemusser/repairhub/internal/app/features/dashboard"
	repairstore "github.com/dalemusser/repairhub/internal/app/store/repairs"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/app/system/ranges"
	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	"github.com/spf13/cobra"
)

func init() {
	var req dashboard.Request
	var dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Print the admin dashboard for the given ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			tz, err := cfg.location()
			if err != nil {
				return fmt.Errorf("invalid timezone: %w", err)
			}
			ctx, cancel := timeouts.WithTimeout(cmd.Context(), timeouts.Medium(), logger, "dashboard command")
			defer cancel()

			db, closeFn, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			catalog := ranges.NewCatalog(ranges.WithLocation(tz))
			asm := dashboard.NewAssembler(userstore.New(db), repairstore.New(db), facets.NewAggregator(catalog), cfg.DashboardPageSize)
			pl, err := asm.Assemble(ctx, req)
			if err != nil {
				return err
			}
			return printDashboard(cmd.OutOrStdout(), locale.New(cfg.Locale, tz), pl)
		},
	}
	f := dashboardCmd.Flags()
	f.IntVar(&req.Page, "page", 1, "Users page to show")
	f.StringVar(&req.Count.Key, "count-range", "", "Named range for repair counts (e.g. last_30_days)")
	f.StringVar(&req.Count.From, "count-from", "", "Custom start day for repair counts (YYYY-MM-DD)")
	f.StringVar(&req.Count.To, "count-to", "", "Custom end day for repair counts (YYYY-MM-DD)")
	f.StringVar(&req.Profit.Key, "profit-range", "", "Named range for profit")
	f.StringVar(&req.Profit.From, "profit-from", "", "Custom start day for profit (YYYY-MM-DD)")
	f.StringVar(&req.Profit.To, "profit-to", "", "Custom end day for profit (YYYY-MM-DD)")
	rootCmd.AddCommand(dashboardCmd)
}

// printDashboard writes the users page followed by the per-user facets.
func printDashboard(out io.Writer, loc *locale.Locale, pl dashboard.Payload) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "USERS (page %d of %d, %d total)\n", pl.Users.Number, pl.Users.TotalPages(), pl.TotalUsers)
	fmt.Fprintln(tw, "NAME\tJOINED")
	for _, u := range pl.Users.Items {
		fmt.Fprintf(tw, "%s\t%s\n", u.Username, loc.Day(u.CreatedAt))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "USER\tREPAIRS\tPROFIT\tSHARE")
	share := make(map[string]string, len(pl.Slices))
	for _, s := range pl.Slices {
		share[s.Username] = s.Share.StringFixed(2) + "%"
	}
	for _, name := range pl.Facets.Usernames() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, pl.Facets.Count[name], loc.Money(pl.Facets.Profit[name]), share[name])
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%s\t\n", pl.Facets.TotalCount(), loc.Money(pl.Facets.TotalProfit()))

	return tw.Flush()
}
