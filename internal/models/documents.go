// internal/models/documents.go
package models

import (
	"encoding/json"
	"strings"
)

// ParseDocumentPaths reads a stored document column. Accepted forms are a JSON
// array of strings, a JSON string, a bare legacy path, and NULL or blank. Anything
// that fails to decode is returned as a single raw path. It never fails.
func ParseDocumentPaths(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "null" {
		return []string{}
	}

	switch s[0] {
	case '[':
		var items []interface{}
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return []string{*raw}
		}
		paths := make([]string, 0, len(items))
		for _, item := range items {
			if p, ok := item.(string); ok && strings.TrimSpace(p) != "" {
				paths = append(paths, p)
			}
		}
		return paths
	case '"':
		var p string
		if err := json.Unmarshal([]byte(s), &p); err != nil {
			return []string{*raw}
		}
		if strings.TrimSpace(p) == "" {
			return []string{}
		}
		return []string{p}
	}
	return []string{*raw}
}

// FirstDocumentPath returns the canonical single path of a document column, or "".
func FirstDocumentPath(raw *string) string {
	paths := ParseDocumentPaths(raw)
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// EncodeDocumentPaths produces the stored form. Blank paths are dropped; an empty
// list is stored as NULL.
func EncodeDocumentPaths(paths []string) *string {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	b, _ := json.Marshal(kept)
	s := string(b)
	return &s
}
