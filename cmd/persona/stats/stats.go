// Package statscmder provides the stats command for reporting index state
// per platform.
package statscmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/persona/pkg/cliui"
	"github.com/papercomputeco/persona/pkg/config"
	"github.com/papercomputeco/persona/pkg/logger"
	"github.com/papercomputeco/persona/pkg/service"
)

// defaultPlatforms are reported when no --platform flag narrows the query.
var defaultPlatforms = []string{"instagram", "twitter"}

const statsLongDesc string = `Show index stats per platform.

Reports the document count and backend status for each platform collection.
Status is "active" when the vector store holds the collection, "fallback"
when documents live in flat fallback files, and "not_found" or "error" when
the collection is missing or unreadable.

Examples:
  persona stats
  persona stats --platform instagram`

const statsShortDesc string = "Show index stats"

func NewStatsCmd() *cobra.Command {
	var platform string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStats(configDir, platform, debug)
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Report a single platform")

	return cmd
}

func runStats(configDir, platform string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	svc, err := service.Build(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	connected := svc.Initialize(ctx)

	platforms := defaultPlatforms
	if platform != "" {
		platforms = []string{platform}
	}

	mode := "fallback files"
	if connected {
		mode = "vector store"
	}
	fmt.Printf("\n  %s %s\n\n", cliui.HeaderStyle.Render("Backend:"), cliui.ValueStyle.Render(mode))

	for _, p := range platforms {
		stats := svc.Stats(ctx, p)

		line := fmt.Sprintf("%-12s %6d documents  %s", p, stats.TotalDocuments, stats.Status)
		if !stats.LastUpdated.IsZero() {
			line += "  updated " + stats.LastUpdated.Format("2006-01-02 15:04")
		}

		mark := cliui.SuccessMark
		if strings.HasPrefix(stats.Status, "error") {
			mark = cliui.FailMark
		}
		fmt.Printf("  %s %s\n", mark, cliui.ValueStyle.Render(line))
	}
	fmt.Println()

	return nil
}
