package model

import (
	"encoding/json"
	"time"
)

// LiveStreamingStatus enumerates the states a live stream moves
// through, from creation to archival. The values are the exact
// strings the api puts on the wire.
type LiveStreamingStatus string

const (
	LiveStatusUnavailable      LiveStreamingStatus = "unavailable"
	LiveStatusPending          LiveStreamingStatus = "pending"
	LiveStatusReady            LiveStreamingStatus = "ready"
	LiveStatusStreamingPreview LiveStreamingStatus = "streaming_preview"
	LiveStatusStreaming        LiveStreamingStatus = "streaming"
	LiveStatusStreamingError   LiveStreamingStatus = "streaming_error"
	LiveStatusDone             LiveStreamingStatus = "done"
)

var liveStreamingStatuses = map[string]LiveStreamingStatus{
	"unavailable":       LiveStatusUnavailable,
	"pending":           LiveStatusPending,
	"ready":             LiveStatusReady,
	"streaming_preview": LiveStatusStreamingPreview,
	"streaming":         LiveStatusStreaming,
	"streaming_error":   LiveStatusStreamingError,
	"done":              LiveStatusDone,
}

// ParseLiveStreamingStatus looks the raw wire string up in the fixed
// status table. The second return value is false for an empty or
// unrecognized string.
func ParseLiveStreamingStatus(raw string) (LiveStreamingStatus, bool) {
	status, ok := liveStreamingStatuses[raw]
	return status, ok
}

// LiveStream is a read-only projection of a video's `live` json
// object. Every field is optional: values the api omitted, or that
// failed to parse, stay zero/nil instead of failing the mapping.
// Constructed once at response-parse time and never mutated after.
type LiveStream struct {
	// Link is the rtmp endpoint the broadcaster pushes to.
	Link string
	// Key is the stream key paired with the rtmp link.
	Key string

	ActiveTime         *time.Time
	EndedTime          *time.Time
	ArchivedTime       *time.Time
	ScheduledStartTime *time.Time

	// RawStatus is the status string exactly as received; use
	// Status for the typed view.
	RawStatus string
}

// Status derives the typed status from the stored raw string on
// every call. The second return value is false when the response
// carried no status or an unknown one.
func (l *LiveStream) Status() (LiveStreamingStatus, bool) {
	return ParseLiveStreamingStatus(l.RawStatus)
}

// UnmarshalJSON maps the wire object onto the model field by field.
// A malformed value only leaves its own field unset, the rest of the
// object is still mapped.
func (l *LiveStream) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object (e.g. `"live": null`), nothing to map.
		return nil
	}
	l.Link = stringField(fields, "link")
	l.Key = stringField(fields, "key")
	l.RawStatus = stringField(fields, "status")
	l.ActiveTime = timeField(fields, "active_time")
	l.EndedTime = timeField(fields, "ended_time")
	l.ArchivedTime = timeField(fields, "archived_time")
	l.ScheduledStartTime = timeField(fields, "scheduled_start_time")
	return nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// timeField parses an RFC 3339 timestamp field, returning nil for a
// missing, null or malformed value.
func timeField(fields map[string]json.RawMessage, key string) *time.Time {
	s := stringField(fields, key)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
