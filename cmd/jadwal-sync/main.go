package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jadwal-sync",
	Short: "Sync the portal class schedule into a Notion database",
	Long: `jadwal-sync logs into the student portal, reads the current class schedule
and creates one Notion page per class. Run "serve" to expose POST /api/sync-jadwal.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
