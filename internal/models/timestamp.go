package models

import (
	"encoding/json"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is an event creation time. Raw keeps the value as it was read
// from the store so that records with an unparseable time can still be
// reported verbatim.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps a parsed time.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	t = t.UTC()
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339Nano)}
}

// ParseTimestamp accepts ISO-8601 timestamps with or without a zone suffix.
// Values without a zone are taken as UTC. The result is invalid, not an
// error, when nothing matches.
func ParseTimestamp(raw string) Timestamp {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Timestamp{Raw: raw}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC(), Raw: raw}
		}
	}
	return Timestamp{Raw: raw}
}

// Valid reports whether the timestamp was parsed.
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// Before orders timestamps; an invalid timestamp is before any valid one.
func (t Timestamp) Before(o Timestamp) bool {
	switch {
	case !t.Valid():
		return o.Valid()
	case !o.Valid():
		return false
	default:
		return t.Time.Before(o.Time)
	}
}

// Date returns the UTC calendar day, e.g. 2025-07-05.
func (t Timestamp) Date() string {
	return t.Time.UTC().Format("2006-01-02")
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Valid() {
		return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}

// UnmarshalJSON never fails: anything that is not a parseable string
// produces an invalid timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		raw := string(data)
		if raw == "null" {
			raw = ""
		}
		*t = Timestamp{Raw: raw}
		return nil
	}
	*t = ParseTimestamp(s)
	return nil
}
