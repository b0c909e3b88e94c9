package configcmder

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
)

const listLongDesc string = `Show every pairwise setting, grouped by section.

Values come from .pairwise/config.toml with built-in defaults for unset keys.
A key whose PAIRWISE_* variable is exported in this shell is flagged, since
serve and check will use the variable instead.

Examples:
  pairwise config list
  pairwise --config-dir ~/evals/.pairwise config list`

const listShortDesc string = "Show every pairwise setting"

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printSource(w, cfger)

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	section := ""
	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		if s, _, _ := strings.Cut(key, "."); s != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			section = s
			fmt.Fprintf(w, "  %s\n", cliui.StepStyle.Render("["+section+"]"))
		}

		line := fmt.Sprintf("    %s  %s", cliui.KeyStyle.Render(fmt.Sprintf("%-*s", width, key)), renderValue(value))
		if env := envOverride(key); os.Getenv(env) != "" {
			line += "  " + cliui.DimStyle.Render("(overridden by $"+env+")")
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	return nil
}
