// Package pairwisecmder
package pairwisecmder

import (
	"github.com/spf13/cobra"

	checkcmder "github.com/papercomputeco/pairwise/cmd/pairwise/check"
	configcmder "github.com/papercomputeco/pairwise/cmd/pairwise/config"
	initcmder "github.com/papercomputeco/pairwise/cmd/pairwise/init"
	servecmder "github.com/papercomputeco/pairwise/cmd/pairwise/serve"
	versioncmder "github.com/papercomputeco/pairwise/cmd/version"
)

const pairwiseLongDesc string = `Pairwise relays each prompt to a weak and a strong model side by side
and logs evaluated conversations to a CSV file.

Run the server using:
  pairwise serve       Run the API server

The upstream API key is read from PAIRWISE_UPSTREAM_API_KEY or OPENAI_API_KEY.`

const pairwiseShortDesc string = "Pairwise - side-by-side model comparison"

func NewPairwiseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pairwise",
		Short:        pairwiseShortDesc,
		Long:         pairwiseLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .pairwise/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(checkcmder.NewCheckCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
