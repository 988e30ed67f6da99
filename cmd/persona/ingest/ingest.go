// Package ingestcmder provides the ingest command for indexing a profile
// export file.
package ingestcmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/cliui"
	"github.com/papercomputeco/persona/pkg/config"
	"github.com/papercomputeco/persona/pkg/logger"
	"github.com/papercomputeco/persona/pkg/service"
)

type ingestCommander struct {
	file     string
	username string
	platform string

	debug  bool
	logger *zap.Logger
}

const ingestLongDesc string = `Index a social media profile export.

Reads a raw JSON export file, normalizes it into a canonical profile, post,
bio, and engagement bundle, synthesizes semantic documents, embeds them, and
stores them under the identity's platform collection. Re-ingesting an
identity fully replaces its prior documents.

When the vector store is unreachable the documents are written to the
flat-file fallback store instead, and a later re-ingestion with the store
reachable promotes them to the index.

Examples:
  persona ingest export.json --username casey --platform instagram
  persona ingest tweets.json --username casey --platform twitter`

const ingestShortDesc string = "Index a profile export"

func NewIngestCmd() *cobra.Command {
	cmder := &ingestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.file = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	cmd.Flags().StringVarP(&cmder.username, "username", "u", "", "Identity username (required)")
	cmd.Flags().StringVarP(&cmder.platform, "platform", "p", "", "Identity platform, e.g. instagram or twitter (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (c *ingestCommander) run(configDir string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	raw, err := os.ReadFile(c.file)
	if err != nil {
		return fmt.Errorf("reading export file: %w", err)
	}

	svc, err := service.Build(cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()

	connected := svc.Initialize(ctx)
	if connected {
		fmt.Printf("\n  %s Connected to vector store\n", cliui.SuccessMark)
	} else {
		fmt.Printf("\n  %s Vector store unreachable, using fallback files\n", cliui.FailMark)
	}

	var ok bool
	err = cliui.Step(os.Stdout, fmt.Sprintf("Indexing @%s on %s", c.username, c.platform), func() error {
		if ok = svc.StoreProfileData(ctx, c.username, c.platform, raw); !ok {
			return fmt.Errorf("no documents indexed")
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingest failed: export produced no usable documents")
	}

	stats := svc.Stats(ctx, c.platform)
	fmt.Printf("\n  %s now holds %s documents (%s)\n\n",
		cliui.KeyStyle.Render(c.platform),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", stats.TotalDocuments)),
		cliui.DimStyle.Render(stats.Status),
	)

	return nil
}
