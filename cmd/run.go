package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/La-Salida/hypnothera-community-manager/internal/catalog"
	"github.com/La-Salida/hypnothera-community-manager/internal/comments"
	"github.com/La-Salida/hypnothera-community-manager/internal/community"
	"github.com/La-Salida/hypnothera-community-manager/internal/config"
	"github.com/La-Salida/hypnothera-community-manager/internal/logging"
	"github.com/La-Salida/hypnothera-community-manager/internal/reply"
	"github.com/La-Salida/hypnothera-community-manager/internal/routine"
	"github.com/La-Salida/hypnothera-community-manager/internal/runstate"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print today's actions without posting anything",
	Long: `Compute what a run would do right now (weekly thread, daily content,
replies) and print it. Nothing is posted and run state is not modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(true)
	},
}

func runRoutine(cmd *cobra.Command, args []string) error {
	return run(flagDryRun)
}

func run(dryRun bool) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	today, err := parseDate(flagDate)
	if err != nil {
		return err
	}

	catalogPath := flagCatalog
	if catalogPath == "" {
		catalogPath = cfg.Catalog
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	store, err := runstate.Open(config.StatePath())
	if err != nil {
		return fmt.Errorf("opening run state: %w", err)
	}
	defer store.Close()

	log := logging.New(cfg.LogFile)
	creds := config.Credentials()

	if !dryRun {
		if creds.Username == "" || creds.Password == "" {
			return fmt.Errorf("REDDIT_USERNAME and REDDIT_PASSWORD must be set")
		}
		if cfg.Bridge.Command == "" {
			return fmt.Errorf("no bridge command configured (set bridge.command, or use --dry-run)")
		}
	}

	bridge := &community.Bridge{Command: cfg.Bridge.Command, Args: cfg.Bridge.Args}

	orch := &routine.Orchestrator{
		Catalog:     cat,
		Store:       store,
		Dialer:      bridge,
		Poster:      bridge,
		Comments:    comments.NewFeedSource(cfg.GetBaseURL(), cfg.Community, creds.Username),
		Composer:    reply.NewCanned(cat.Replies()),
		Credentials: creds,
		Log:         log,
		ReplyQuota:  cfg.GetReplyQuota(),
		FetchLimit:  cfg.GetFetchLimit(),
		DryRun:      dryRun,
		Now:         func() time.Time { return today },
	}

	// A SIGTERM mid-run should still flush completed bookkeeping.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := orch.Run(ctx)
	fmt.Print(renderSummary(sum))
	return err
}
