package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/beaconstream/beacon/internal/stream"
)

// newTailCommand constructs the `tail` subcommand. Without --channel it
// follows the gateway's synthetic log stream; with --channel it subscribes
// to published events on that channel.
func newTailCommand(baseURL BaseURLFunc) *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow a gateway event stream and print one JSON line per event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			channel, _ := cmd.Flags().GetString("channel")
			filter, _ := cmd.Flags().GetString("filter")
			token, _ := cmd.Flags().GetString("token")
			lastID, _ := cmd.Flags().GetString("last-event-id")
			limit, _ := cmd.Flags().GetInt("limit")

			endpoint := baseURL() + "/logs/stream"
			if channel != "" {
				q := url.Values{"channel": {channel}}
				if filter != "" {
					q.Set("filter", filter)
				}
				endpoint = baseURL() + "/api/sse/subscribe?" + q.Encode()
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "text/event-stream")
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			if lastID != "" {
				if _, err := strconv.ParseUint(lastID, 10, 64); err != nil {
					return fmt.Errorf("invalid --last-event-id; expected a non-negative integer")
				}
				req.Header.Set("Last-Event-ID", lastID)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
				return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(text))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			sc := stream.NewScanner(resp.Body)
			seen := 0
			for {
				fr, err := sc.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					// A cancelled context surfaces as a read error on the body.
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				if fr.IsHeartbeat() {
					continue
				}
				_ = enc.Encode(decodedFrame(fr))
				if fr.Event != stream.EventError {
					seen++
					if limit > 0 && seen >= limit {
						return nil
					}
				}
			}
		},
	}
	tailCmd.Flags().String("channel", "", "Channel to subscribe to (empty = synthetic log stream)")
	tailCmd.Flags().String("filter", "", "CEL filter (server-side, only with --channel)")
	tailCmd.Flags().String("token", "", "Bearer token for stream authorization")
	tailCmd.Flags().String("last-event-id", "", "Resume after this event id")
	tailCmd.Flags().Int("limit", 0, "Stop after N events (0 = infinite)")
	return tailCmd
}

// decodedFrame returns a map with id (when present), event (when non-default)
// and the frame payload as parsed JSON or raw text.
func decodedFrame(fr stream.Frame) map[string]any {
	out := map[string]any{}
	if fr.HasID {
		out["id"] = fr.ID
	}
	if fr.Event != "" {
		out["event"] = fr.Event
	}
	var v any
	if json.Unmarshal(fr.Data, &v) == nil {
		out["data"] = v
	} else {
		out["data"] = string(fr.Data)
	}
	return out
}
