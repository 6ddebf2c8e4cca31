package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/La-Salida/hypnothera-community-manager/internal/catalog"
	"github.com/La-Salida/hypnothera-community-manager/internal/config"
	"github.com/La-Salida/hypnothera-community-manager/internal/runstate"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the persisted run state",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := runstate.Open(config.StatePath())
		if err != nil {
			return fmt.Errorf("opening run state: %w", err)
		}
		defer store.Close()

		st, err := store.Load()
		if err != nil {
			return fmt.Errorf("loading run state: %w", err)
		}

		fmt.Printf("State: %s\n", config.StatePath())
		if st.LastRunDate == "" {
			fmt.Println("Last run: never")
		} else {
			fmt.Printf("Last run: %s\n", st.LastRunDate)
		}
		if len(st.RecentTemplateIDs) == 0 {
			fmt.Println("Recent templates: none")
		} else {
			fmt.Printf("Recent templates: %s\n", strings.Join(st.RecentTemplateIDs, ", "))
		}
		if len(st.UsedWeeklyKeys) > 0 {
			fmt.Printf("Weekly threads posted: %s\n", strings.Join(st.UsedWeeklyKeys, ", "))
		}
		if st.PinnedPostID != "" {
			fmt.Printf("Pinned post: %s\n", st.PinnedPostID)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the content catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		catalogPath := flagCatalog
		if catalogPath == "" {
			catalogPath = cfg.Catalog
		}
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			return err
		}

		source := catalogPath
		if source == "" {
			source = "built-in"
		}
		fmt.Printf("Catalog OK (%s): %d daily template(s), %d canned repl(ies)\n",
			source, len(cat.DailyTemplates()), len(cat.Replies()))
		return nil
	},
}
