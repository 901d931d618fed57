package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beaconstream/beacon/pkg/publisher"
)

// newPublishCommand constructs the `publish` subcommand.
func newPublishCommand(baseURL BaseURLFunc) *cobra.Command {
	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish one event to a gateway channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			channel, _ := cmd.Flags().GetString("channel")
			data, _ := cmd.Flags().GetString("data")
			filtersJSON, _ := cmd.Flags().GetString("filters")
			token, _ := cmd.Flags().GetString("token")
			service, _ := cmd.Flags().GetString("service")
			attempts, _ := cmd.Flags().GetInt("attempts")
			if channel == "" {
				return fmt.Errorf("--channel is required")
			}

			// The payload is JSON when it parses, a plain string otherwise.
			var payload any
			if err := json.Unmarshal([]byte(data), &payload); err != nil {
				payload = data
			}
			var filters map[string]any
			if filtersJSON != "" {
				if err := json.Unmarshal([]byte(filtersJSON), &filters); err != nil {
					return fmt.Errorf("invalid --filters: %w", err)
				}
			}

			pub, err := publisher.New(baseURL(), token, service, publisher.WithAttempts(attempts))
			if err != nil {
				return err
			}
			res := pub.Publish(cmd.Context(), channel, payload, filters)
			enc := json.NewEncoder(cmd.OutOrStdout())
			_ = enc.Encode(res)
			if !res.Success {
				return fmt.Errorf("publish failed: %s", res.Error)
			}
			return nil
		},
	}
	publishCmd.Flags().String("channel", "", "Target channel (required)")
	publishCmd.Flags().String("data", "", "Event payload: JSON or plain text")
	publishCmd.Flags().String("filters", "", "Filter metadata as a JSON object")
	publishCmd.Flags().String("token", os.Getenv("BEACON_SERVICE_TOKEN"), "Service token for publish authorization")
	publishCmd.Flags().String("service", "beacon-cli", "Producing service name")
	publishCmd.Flags().Int("attempts", 0, "Delivery attempts (0 = client default)")
	return publishCmd
}
