// Package utils holds small helpers shared across pairwise packages.
package utils

// Build metadata, overridden at link time with
// -X github.com/papercomputeco/pairwise/pkg/utils.Version=...
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
