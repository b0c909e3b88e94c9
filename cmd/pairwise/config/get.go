package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
)

const getLongDesc string = `Print one setting from .pairwise/config.toml.

Unset keys show the built-in default. With --raw only the value is printed,
which suits shell scripts:

  CSV=$(pairwise config get --raw log.csv_path)

Examples:
  pairwise config get models.weak
  pairwise config get --raw upstream.base_url`

const getShortDesc string = "Print one pairwise setting"

func newGetCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             getShortDesc,
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(cmd.OutOrStdout(), args[0], configDir, raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the value")

	return cmd
}

func runGet(w io.Writer, key, configDir string, raw bool) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if raw {
		fmt.Fprintln(w, value)
		return nil
	}

	printSource(w, cfger)
	fmt.Fprintf(w, "  %s  %s\n", cliui.KeyStyle.Render(key), renderValue(value))
	fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("env override: $"+envOverride(key)))
	return nil
}
