package validation

import (
	stderrors "errors"
	"testing"

	apperrors "spa-registry/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = MustCompile("test input", `{
	"type": "object",
	"required": ["name", "email"],
	"properties": {
		"name":  {"type": "string", "pattern": "\\S"},
		"email": {"type": "string", "pattern": "\\S"},
		"count": {"type": "integer", "minimum": 1}
	}
}`)

type testInput struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Count int    `json:"count,omitempty"`
}

func TestSchema_Valid(t *testing.T) {
	assert.NoError(t, testSchema.Validate(testInput{Name: "Lotus", Email: "a@b.lk"}))
}

func TestSchema_MissingAndBlank(t *testing.T) {
	err := testSchema.Validate(testInput{Name: "   "})
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrValidation))

	std, ok := apperrors.AsStandard(err)
	require.True(t, ok)
	fields, ok := std.Metadata["fields"].([]apperrors.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 2)
	assert.Equal(t, apperrors.FieldError{Field: "email", Message: "is required"}, fields[0])
	assert.Equal(t, apperrors.FieldError{Field: "name", Message: "must not be blank"}, fields[1])
}

func TestSchema_WrongType(t *testing.T) {
	err := testSchema.Validate(map[string]interface{}{"name": "x", "email": "y", "count": "many"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")
}

func TestCompile_BadDocument(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	assert.Error(t, err)
}
