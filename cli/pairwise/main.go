package main

import (
	"os"

	pairwisecmder "github.com/papercomputeco/pairwise/cmd/pairwise"
)

func main() {
	cmd := pairwisecmder.NewPairwiseCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
