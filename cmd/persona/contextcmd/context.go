// Package contextcmder provides the context command for building LLM
// grounding context from an identity's indexed documents.
package contextcmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/config"
	"github.com/papercomputeco/persona/pkg/logger"
	"github.com/papercomputeco/persona/pkg/service"
)

type contextCommander struct {
	query    string
	username string
	platform string

	debug  bool
	logger *zap.Logger
}

const contextLongDesc string = `Build LLM grounding context for an identity.

Searches the identity's indexed documents for the query and renders the
matches as a sectioned, sanitized text block: account information, profile
description, recent posts with their engagement and the most engaging post,
and engagement metrics. The block is designed to be pasted into a language
model prompt ahead of questions about the identity.

Exits nonzero when the identity has no relevant indexed data.

Examples:
  persona context "what do they post about" --username casey --platform instagram
  persona context "engagement trends" -u casey -p twitter`

const contextShortDesc string = "Build grounding context for an identity"

func NewContextCmd() *cobra.Command {
	cmder := &contextCommander{}

	cmd := &cobra.Command{
		Use:   "context <query>",
		Short: contextShortDesc,
		Long:  contextLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

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
	cmd.Flags().StringVarP(&cmder.platform, "platform", "p", "", "Identity platform (required)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (c *contextCommander) run(configDir string) error {
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

	svc, err := service.Build(cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ctx := context.Background()
	svc.Initialize(ctx)

	text, ok := svc.CreateEnhancedContext(ctx, c.query, c.username, c.platform)
	if !ok {
		return fmt.Errorf("no indexed data for @%s on %s", c.username, c.platform)
	}

	fmt.Println(text)
	return nil
}
