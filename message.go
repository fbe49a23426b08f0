package pagelens

import (
	"context"
	"encoding/json"
)

// MessageAction discriminates message types on the bus. The page,
// coordinator and panel contexts share no memory; typed messages tagged
// with an action are the only way state crosses a context boundary.
type MessageAction string

// Message actions. Tab lifecycle arrives over Host.Watch and panel
// enablement is a direct Host call, so neither crosses the bus.
const (
	// Extractor context → coordinator.
	ActionSnapshotResult   MessageAction = "snapshot_result"
	ActionSelectionChanged MessageAction = "selection_changed"

	// Coordinator → observers (panel).
	ActionSnapshotUpdated MessageAction = "snapshot_updated"
)

// Message is the envelope exchanged between contexts.
type Message struct {
	ID         string          `json:"id"`
	Action     MessageAction   `json:"action"`
	TabID      string          `json:"tabId,omitempty"`
	Generation uint64          `json:"generation,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals the message payload into v.
// Returns EINVALID if the payload is malformed.
func (m Message) DecodePayload(v any) error {
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return Errorf(EINVALID, "malformed %s payload: %v", m.Action, err)
	}
	return nil
}

// SnapshotPayload carries an extraction result.
type SnapshotPayload struct {
	Snapshot *Snapshot `json:"snapshot"`

	// Err is the extraction failure, empty on success. Carried as a
	// string because payloads cross context boundaries as JSON.
	Err string `json:"error,omitempty"`
}

// SelectionPayload carries a selection change.
type SelectionPayload struct {
	Text string `json:"text"`
}

// SnapshotUpdatePayload notifies observers that a tab's snapshot changed.
type SnapshotUpdatePayload struct {
	// Unchanged is true when a re-extraction produced a snapshot with
	// the same fingerprint as the one it replaced.
	Unchanged bool `json:"unchanged"`
}

// Bus mediates typed messages between the three contexts.
type Bus interface {
	// Publish delivers the message to all current subscribers of its
	// action. Returns an error only if the bus is closed.
	Publish(ctx context.Context, msg Message) error

	// Subscribe returns a channel receiving messages whose action is in
	// actions, plus a cancel function that releases the subscription.
	Subscribe(actions ...MessageAction) (<-chan Message, func())
}
