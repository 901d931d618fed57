package publisher

import (
	"context"

	logpkg "github.com/beaconstream/beacon/pkg/log"
)

// LogWriteFunc persists one workflow log record and returns the stored
// record (which may differ from the input, e.g. with generated fields).
type LogWriteFunc func(ctx context.Context, workspaceID, workflowID string, record map[string]interface{}) (map[string]interface{}, error)

// AfterWrite composes a write function with republication: the returned
// function runs write, and when it succeeds, publishes the stored record via
// PublishLog. The write's own result is returned untouched; a publish failure
// is logged, never propagated.
func AfterWrite(c *Client, write LogWriteFunc) LogWriteFunc {
	return func(ctx context.Context, workspaceID, workflowID string, record map[string]interface{}) (map[string]interface{}, error) {
		stored, err := write(ctx, workspaceID, workflowID, record)
		if err != nil {
			return stored, err
		}
		published := stored
		if published == nil {
			published = record
		}
		if res := c.PublishLog(ctx, workspaceID, workflowID, published); !res.Success {
			c.logger.Warn("post-write publish failed",
				logpkg.Str("workspace_id", workspaceID),
				logpkg.Str("workflow_id", workflowID),
				logpkg.Str("error", res.Error),
			)
		}
		return stored, nil
	}
}
