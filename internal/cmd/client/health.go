package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beaconstream/beacon/pkg/publisher"
)

// newHealthCommand constructs the `health` subcommand.
func newHealthCommand(baseURL BaseURLFunc) *cobra.Command {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the gateway health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := publisher.New(baseURL(), "", "beacon-cli")
			if err != nil {
				return err
			}
			h := pub.HealthCheck(cmd.Context())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			_ = enc.Encode(h)
			if h.Status != "healthy" {
				return fmt.Errorf("gateway is %s", h.Status)
			}
			return nil
		},
	}
	return healthCmd
}
