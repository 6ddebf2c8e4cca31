package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDryRun  bool
	flagConfig  string
	flagCatalog string
	flagDate    string
)

var rootCmd = &cobra.Command{
	Use:   "communitymgr",
	Short: "Daily community management routine",
	Long: `communitymgr runs one daily pass over the community: it posts the
scheduled weekly thread, rotates in one daily content post, and replies to a
handful of unanswered comments. Designed to be invoked once per day by cron;
rerunning on the same day is a no-op.`,
	RunE: runRoutine,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "compute and print actions without posting anything")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "path to content catalog (overrides config)")
	rootCmd.Flags().StringVar(&flagDate, "date", "", "run as if today were this date (YYYY-MM-DD)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(checkCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("communitymgr %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}
