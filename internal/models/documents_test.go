package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseDocumentPaths(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{"null column", nil, []string{}},
		{"blank", strPtr("  "), []string{}},
		{"json null", strPtr("null"), []string{}},
		{"json array", strPtr(`["uploads/a.pdf","uploads/b.pdf"]`), []string{"uploads/a.pdf", "uploads/b.pdf"}},
		{"array with junk items", strPtr(`["uploads/a.pdf", 3, "", null]`), []string{"uploads/a.pdf"}},
		{"json string", strPtr(`"uploads/a.pdf"`), []string{"uploads/a.pdf"}},
		{"bare legacy path", strPtr("uploads/legacy.jpg"), []string{"uploads/legacy.jpg"}},
		{"malformed array", strPtr(`["uploads/a.pdf"`), []string{`["uploads/a.pdf"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDocumentPaths(tt.raw))
		})
	}
}

func TestFirstDocumentPath(t *testing.T) {
	assert.Equal(t, "uploads/a.pdf", FirstDocumentPath(strPtr(`["uploads/a.pdf","uploads/b.pdf"]`)))
	assert.Equal(t, "uploads/legacy.jpg", FirstDocumentPath(strPtr("uploads/legacy.jpg")))
	assert.Equal(t, "", FirstDocumentPath(nil))
}

func TestEncodeDocumentPaths(t *testing.T) {
	assert.Nil(t, EncodeDocumentPaths(nil))
	assert.Nil(t, EncodeDocumentPaths([]string{" ", ""}))

	enc := EncodeDocumentPaths([]string{"uploads/a.pdf", "", "uploads/b.pdf"})
	require.NotNil(t, enc)
	assert.Equal(t, `["uploads/a.pdf","uploads/b.pdf"]`, *enc)
	assert.Equal(t, []string{"uploads/a.pdf", "uploads/b.pdf"}, ParseDocumentPaths(enc))
}
