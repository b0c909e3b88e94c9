// Package versioncmder prints build metadata.
package versioncmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/utils"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pairwise version",
		Long:  "Print the version, commit and build time of this pairwise binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd.OutOrStdout())
		},
	}
}

func write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "pairwise %s\ncommit: %s\nbuilt: %s\n", utils.Version, utils.Sha, utils.Buildtime)
	return err
}
