package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/worklog-dashboard/internal/report"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the named date ranges and their current dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Presets(time.Now(), sprint()))
		return err
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
