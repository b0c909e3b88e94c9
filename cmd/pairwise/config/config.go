// Package configcmder provides the config command for managing persistent
// pairwise configuration stored in the .pairwise/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
)

const configLongDesc string = `Manage persistent pairwise configuration.

Configuration is stored as config.toml in the .pairwise/ directory and provides
default values for command flags. CLI flags and PAIRWISE_* environment
variables take precedence over config file values. The upstream API key is
never stored here.

Keys use dotted notation matching the TOML section structure:
  server.listen,
  upstream.base_url, upstream.timeout,
  models.weak, models.strong,
  log.csv_path

Use subcommands to get, set, or list configuration values:
  pairwise config set <key> <value>    Set a configuration value
  pairwise config get <key>            Get a configuration value
  pairwise config list                 List all configuration values

Examples:
  pairwise config set models.strong gpt-4o
  pairwise config set upstream.timeout 90s
  pairwise config get --raw log.csv_path
  pairwise config list`

const configShortDesc string = "Manage persistent pairwise configuration"

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

func validateKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

// envOverride names the PAIRWISE_* variable that takes precedence over key
// when serve or check run.
func envOverride(key string) string {
	return "PAIRWISE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func printSource(w io.Writer, cfger *config.Configer) {
	if target := cfger.GetTarget(); target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(target))
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No .pairwise/config.toml yet; showing built-in defaults."))
}

func renderValue(value string) string {
	if value == "" {
		return cliui.DimStyle.Render("<not set>")
	}
	return cliui.ValueStyle.Render(value)
}
