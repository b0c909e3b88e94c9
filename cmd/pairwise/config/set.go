package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
)

const setLongDesc string = `Store one setting in .pairwise/config.toml.

The file is created if needed. upstream.timeout must be a Go duration such
as 90s or 5m; 0 disables the timeout. The upstream API key cannot be set
here, export PAIRWISE_UPSTREAM_API_KEY or OPENAI_API_KEY instead.

Examples:
  pairwise config set models.weak gpt-4o-mini
  pairwise config set upstream.base_url http://localhost:11434/v1/
  pairwise config set log.csv_path evals/conversations_log.csv`

const setShortDesc string = "Store one pairwise setting"

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "set <key> <value>",
		Short:             setShortDesc,
		Long:              setLongDesc,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runSet(cmd.OutOrStdout(), args[0], args[1], configDir)
		},
	}
}

func runSet(w io.Writer, key, value, configDir string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	previous, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}
	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	printSource(w, cfger)
	fmt.Fprintf(w, "  %s %s  %s -> %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		renderValue(previous),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
