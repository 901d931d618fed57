package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the gateway base URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs the `client` command group for the Beacon CLI.
// It registers the tail, publish and health subcommands.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "client",
		Short: "Beacon gateway client commands",
	}
	root.AddCommand(
		newTailCommand(baseURL),
		newPublishCommand(baseURL),
		newHealthCommand(baseURL),
	)
	return root
}
