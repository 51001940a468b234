// Package dispatch sends task messages to remote wingbeat nodes over HTTP.
// The core treats dispatch as fire-and-forget: success is a 2xx response,
// anything else is surfaced to the caller unchanged, with no retry.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single dispatch round trip.
const DefaultTimeout = 10 * time.Second

// Node is a remote node in the wingbeat network.
type Node struct {
	// ID is the node's identifier.
	ID string `json:"id"`
	// Endpoint is the node's HTTP endpoint.
	Endpoint string `json:"endpoint"`
}

// TaskMessage is a message sent between nodes.
type TaskMessage struct {
	// TaskID identifies the task being dispatched.
	TaskID string `json:"task_id"`
	// Payload is the task's JSON body.
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher sends task messages to remote nodes.
type Dispatcher struct {
	client *http.Client
}

// NewDispatcher creates a Dispatcher with the default timeout.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// NewDispatcherWithClient creates a Dispatcher using the given client.
func NewDispatcherWithClient(client *http.Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// DispatchTask posts a task message to a node. It succeeds only on a 2xx
// response; transport failures and non-2xx statuses are returned as errors.
func (d *Dispatcher) DispatchTask(ctx context.Context, node Node, msg TaskMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal task message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, node.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch task %s to node %s: %w", msg.TaskID, node.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dispatch task %s to node %s: unexpected status %s", msg.TaskID, node.ID, resp.Status)
	}
	return nil
}
