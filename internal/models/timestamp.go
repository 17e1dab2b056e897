package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the ISO-8601 form used for every timestamp leaving the system.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp wraps time.Time so that an unknown moment round-trips as an empty string
// instead of the year-one zero value.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Valid reports whether the timestamp holds a known moment.
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// String renders the timestamp in UTC or returns "" when unknown.
func (t Timestamp) String() string {
	if !t.Valid() {
		return ""
	}
	return t.Time.UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts RFC 3339 strings, "" and null. Anything else decodes to the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = Timestamp{Time: parsed}
	return nil
}
