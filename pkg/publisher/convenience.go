package publisher

import (
	"context"
	"fmt"
)

// timeLayout matches the gateway's human-readable timestamp format.
const timeLayout = "Jan 02 2006 at 03:04 PM"

// publishWithDefaults merges caller fields over a defaulted field set (caller
// wins on key collision) and delegates to Publish. All convenience methods
// funnel through here; they differ only in channel template and defaults.
func (c *Client) publishWithDefaults(ctx context.Context, channel string, defaults, fields map[string]interface{}) Result {
	merged := make(map[string]interface{}, len(defaults)+len(fields))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return c.Publish(ctx, channel, merged, nil)
}

// PublishLog publishes a workflow log record to "logs:<workspace>:<workflow>".
// Defaulted keys: date, level (INFO), pipeline (UNKNOWN), status (0 sec),
// message. Caller-supplied fields override defaults.
func (c *Client) PublishLog(ctx context.Context, workspaceID, workflowID string, fields map[string]interface{}) Result {
	defaults := map[string]interface{}{
		"date":     c.now().Format(timeLayout),
		"level":    "INFO",
		"pipeline": "UNKNOWN",
		"status":   "0 sec",
		"message":  "",
	}
	return c.publishWithDefaults(ctx, fmt.Sprintf("logs:%s:%s", workspaceID, workflowID), defaults, fields)
}

// PublishMetric publishes a workspace metric to "metrics:<workspace>".
// Defaulted keys: timestamp, workspace_id.
func (c *Client) PublishMetric(ctx context.Context, workspaceID string, fields map[string]interface{}) Result {
	defaults := map[string]interface{}{
		"timestamp":    c.now().UnixMilli(),
		"workspace_id": workspaceID,
	}
	return c.publishWithDefaults(ctx, fmt.Sprintf("metrics:%s", workspaceID), defaults, fields)
}

// PublishWorkflowEvent publishes a workflow lifecycle event to
// "workflows:<workspace>:<workflow>". Defaulted keys: workspace_id,
// workflow_id, timestamp.
func (c *Client) PublishWorkflowEvent(ctx context.Context, workspaceID, workflowID string, fields map[string]interface{}) Result {
	defaults := map[string]interface{}{
		"workspace_id": workspaceID,
		"workflow_id":  workflowID,
		"timestamp":    c.now().UnixMilli(),
	}
	return c.publishWithDefaults(ctx, fmt.Sprintf("workflows:%s:%s", workspaceID, workflowID), defaults, fields)
}

// PublishAlert publishes a user alert to "alerts:<user>". Defaulted keys:
// user_id, timestamp, type (info).
func (c *Client) PublishAlert(ctx context.Context, userID string, fields map[string]interface{}) Result {
	defaults := map[string]interface{}{
		"user_id":   userID,
		"timestamp": c.now().UnixMilli(),
		"type":      "info",
	}
	return c.publishWithDefaults(ctx, fmt.Sprintf("alerts:%s", userID), defaults, fields)
}
