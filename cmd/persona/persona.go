// Package personacmder
package personacmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/persona/cmd/persona/config"
	contextcmder "github.com/papercomputeco/persona/cmd/persona/contextcmd"
	ingestcmder "github.com/papercomputeco/persona/cmd/persona/ingest"
	initcmder "github.com/papercomputeco/persona/cmd/persona/init"
	searchcmder "github.com/papercomputeco/persona/cmd/persona/search"
	statscmder "github.com/papercomputeco/persona/cmd/persona/stats"
	versioncmder "github.com/papercomputeco/persona/cmd/version"
	"github.com/papercomputeco/persona/pkg/utils"
)

const personaLongDesc string = `Persona indexes social media profile exports for semantic retrieval.

Raw platform exports are normalized, synthesized into semantic documents,
embedded, and stored per platform. Index once, then search or build LLM
grounding context from the indexed identity:

  persona ingest <file>     Index a profile export
  persona search <query>    Search an identity's indexed documents
  persona context <query>   Build LLM grounding context for an identity
  persona stats             Show index stats per platform`

const personaShortDesc string = "Persona - Profile Semantic Index"

func NewPersonaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "persona",
		Short:   personaShortDesc,
		Long:    personaLongDesc,
		Version: utils.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing the .persona config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(contextcmder.NewContextCmd())
	cmd.AddCommand(statscmder.NewStatsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
