// Package searchcmder provides the search command for semantic search over
// an identity's indexed documents.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/config"
	"github.com/papercomputeco/persona/pkg/logger"
	"github.com/papercomputeco/persona/pkg/retrieval"
	"github.com/papercomputeco/persona/pkg/service"
	"github.com/papercomputeco/persona/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query    string
	username string
	platform string
	topK     int
	asJSON   bool

	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search an identity's indexed documents.

Embeds the query, retrieves the closest documents from the identity's
platform collection, and re-ranks them with heuristic relevance (query word
matches, document type, engagement, account flags). When the vector store is
unreachable the query falls back to word-overlap search over the identity's
fallback file.

Use --json to emit raw results for piping into other tools.

Examples:
  persona search "travel content" --username casey --platform instagram
  persona search "posting schedule" -u casey -p twitter --top 10
  persona search "brand collabs" -u casey -p instagram --json | jq '.[0]'`

const searchShortDesc string = "Search an identity's documents"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
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
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Emit raw JSON results")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (c *searchCommander) run(configDir string) error {
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

	results := svc.SemanticSearch(ctx, c.query, c.username, c.platform, c.topK)

	if c.asJSON {
		payload, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		fmt.Println(string(payload))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		typeStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	for i, result := range results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result retrieval.Result) {
	docType, _ := result.Metadata["type"].(string)
	if docType == "" {
		docType = "unknown"
	}

	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("relevance: %.2f  similarity: %.4f", result.Relevance, result.Similarity)),
		typeStyle.Render(docType),
	)

	preview := utils.Truncate(strings.ReplaceAll(result.Content, "\n", " "), 100)
	fmt.Printf("  %s\n", previewStyle.Render(preview))

	if engagement, ok := result.Metadata["totalEngagement"]; ok {
		fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("total engagement: %v", engagement)))
	}
	fmt.Println()
}
