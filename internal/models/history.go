// internal/models/history.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	HistoryStatusActive = "active"
)

// HistoryEntry is one employment period in a therapist's working history.
type HistoryEntry struct {
	SpaID            FlexibleID `json:"spa_id"`
	StartDate        string     `json:"start_date,omitempty"`
	EndDate          *string    `json:"end_date,omitempty"`
	Status           string     `json:"status,omitempty"`
	ReasonForLeaving *string    `json:"reason_for_leaving,omitempty"`
}

// Open reports whether the period has no end date.
func (h HistoryEntry) Open() bool {
	return h.EndDate == nil || strings.TrimSpace(*h.EndDate) == ""
}

// FlexibleID decodes a JSON number or a numeric string. Older rows stored spa ids as strings.
type FlexibleID int64

func (f *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("spa_id %q is not numeric", s)
		}
		*f = FlexibleID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexibleID(n)
	return nil
}

// ParseWorkingHistory decodes the stored history. Entries that do not decode are
// skipped; a value that is not a JSON array yields an empty history.
func ParseWorkingHistory(raw *string) []HistoryEntry {
	elems, ok := HistoryElements(raw)
	if !ok {
		return []HistoryEntry{}
	}
	entries := make([]HistoryEntry, 0, len(elems))
	for _, el := range elems {
		var e HistoryEntry
		if err := json.Unmarshal(el, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// HistoryElements splits the stored history into its raw array elements. ok is
// false when the value is present but not a JSON array. NULL or blank is an empty array.
func HistoryElements(raw *string) ([]json.RawMessage, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" || strings.TrimSpace(*raw) == "null" {
		return []json.RawMessage{}, true
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(*raw), &elems); err != nil {
		return nil, false
	}
	return elems, true
}

// JoinHistoryElements writes elements back as a JSON array without re-encoding
// them, so untouched entries keep their exact bytes.
func JoinHistoryElements(elems []json.RawMessage) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, el := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(el)
	}
	buf.WriteByte(']')
	return buf.String()
}
