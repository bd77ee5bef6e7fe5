package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Freeeeeet/jadwal_sync/internal/schedule"
)

var parseCmd = &cobra.Command{
	Use:   "parse <schedule text>",
	Short: "Show how a portal schedule string is normalized",
	Example: `  jadwal-sync parse "Senin, 14 Jul 2025 | 14:00 - 16:30"
  jadwal-sync parse --tz UTC "14 Jul 2025 22:00 - 15 Jul 2025 01:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tz, _ := cmd.Flags().GetString("tz")

		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid time zone %q: %w", tz, err)
		}

		interval, err := schedule.NewParser(loc).Parse(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "start:     %s\n", interval.StartISO())
		fmt.Fprintf(out, "end:       %s\n", interval.EndISO())
		fmt.Fprintf(out, "time_zone: %s\n", loc)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().String("tz", "Asia/Jakarta", "IANA time zone of the portal")
}
