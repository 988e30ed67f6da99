// Package configcmder provides the config command for managing persistent
// persona configuration stored in the .persona/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent persona configuration.

Configuration is stored as config.toml in the .persona/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.fallback_dir,
  vector_store.provider, vector_store.target, vector_store.collection_suffix,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  persona config set <key> <value>    Set a configuration value
  persona config get <key>            Get a configuration value
  persona config list                 List all configuration values

Examples:
  persona config set vector_store.provider qdrant
  persona config set embedding.model nomic-embed-text
  persona config get vector_store.target
  persona config list`

const configShortDesc string = "Manage persistent persona configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
