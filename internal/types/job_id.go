//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// JobID is the store-assigned identifier of a record. The store may use numbers or
// strings; the original representation is preserved on the way back out.
type JobID string

// String returns the identifier as used in request paths.
func (id JobID) String() string { return string(id) }

// IsZero reports whether no identifier has been assigned.
func (id JobID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *JobID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		*id = JobID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid job id %s: %w", data, err)
	}
	*id = JobID(n.String())
	return nil
}

// MarshalJSON writes integer ids as bare numbers and anything else as a string.
func (id JobID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// LocalDateTime is a creation timestamp as emitted by the store. Zone-less ISO-8601
// values are read as UTC.
type LocalDateTime struct {
	time.Time
}

var localDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts ISO strings and [y, m, d, h, min, s, nanos] arrays. Anything
// else decodes to the zero time so one odd timestamp cannot fail a whole listing.
func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	t.Time = time.Time{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		for _, layout := range localDateTimeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case '[':
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
	}
	return nil
}

// MarshalJSON writes the timestamp in RFC 3339.
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
