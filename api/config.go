// Package api provides the HTTP surface of pairwise: side-by-side generation,
// strong-model nudges and saving evaluated sessions to the conversation log.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string
}
