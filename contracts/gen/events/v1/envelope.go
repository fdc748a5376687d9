package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope exchanged between the
// gateway pipeline and its consumers. Keep fields backward compatible.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

// EventTypePostReplied is emitted after an inbound email has been applied as
// a reply; consumers fan notifications out to interested parties.
const EventTypePostReplied = "post.replied"

// PostReplied is the Data payload carried by post.replied envelopes.
type PostReplied struct {
	PID     int64  `json:"pid"`
	TID     int64  `json:"tid"`
	UID     int64  `json:"uid"`
	Handle  string `json:"handle,omitempty"`
	Content string `json:"content"`
}
