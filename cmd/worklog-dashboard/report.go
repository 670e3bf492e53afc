package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/daterange"
	"github.com/nhle/worklog-dashboard/internal/logging"
	"github.com/nhle/worklog-dashboard/internal/report"
)

var (
	reportStart   string
	reportEnd     string
	reportPreset  string
	reportMember  string
	reportTickets bool
	reportRefresh bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print hours by project and team member for a date range",
	Long: `Prints the dashboard as text tables. The range is --start/--end, or a
--preset (see "presets"), or the default preset when neither is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rng, label, err := reportRange(time.Now())
		if err != nil {
			return err
		}

		log := logging.New(cfg.Log, os.Stderr)
		svc, closeFn, err := openService(log)
		if err != nil {
			return err
		}
		defer closeFn()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		load := svc.Load
		if reportRefresh {
			load = svc.Refresh
		}
		data, err := load(ctx, rng)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), report.Render(data, report.Options{
			Title:    label,
			MemberID: reportMember,
			Tickets:  reportTickets,
		}))
		return nil
	},
}

// reportRange resolves the range flags. Explicit dates win over a preset.
func reportRange(now time.Time) (daterange.Range, string, error) {
	if reportStart != "" || reportEnd != "" {
		rng, err := daterange.Parse(reportStart, reportEnd)
		if err != nil {
			return daterange.Range{}, "", err
		}
		return rng, rng.String(), nil
	}

	p := daterange.DefaultPreset(sprint())
	if reportPreset != "" {
		var ok bool
		if p, ok = daterange.LookupPreset(reportPreset); !ok {
			return daterange.Range{}, "", fmt.Errorf("unknown preset %q", reportPreset)
		}
	}
	rng, err := daterange.Resolve(p.ID, now, sprint())
	if err != nil {
		return daterange.Range{}, "", err
	}
	return rng, fmt.Sprintf("%s (%s)", p.Label, rng), nil
}

func init() {
	reportCmd.Flags().StringVar(&reportStart, "start", "", "first day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "last day, YYYY-MM-DD")
	reportCmd.Flags().StringVar(&reportPreset, "preset", "", "named range, e.g. this-sprint or last-30")
	reportCmd.Flags().StringVar(&reportMember, "member", "", "only count worklogs by this account ID")
	reportCmd.Flags().BoolVar(&reportTickets, "tickets", false, "include a ticket table per project")
	reportCmd.Flags().BoolVar(&reportRefresh, "refresh", false, "bypass the cache")
	rootCmd.AddCommand(reportCmd)
}
