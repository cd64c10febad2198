// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "spa-registry/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a compiled JSON Schema used to check operation input before any store access.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses a JSON Schema document. name appears in validation messages.
func Compile(name, document string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(document))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is Compile for package-level schema variables.
func MustCompile(name, document string) *Schema {
	s, err := Compile(name, document)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks doc (any JSON-marshalable value) and returns a ValidationError
// listing every offending field, or nil.
func (s *Schema) Validate(doc interface{}) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("invalid %s", s.name),
			apperrors.FieldError{Field: "(root)", Message: err.Error()})
	}
	if result.Valid() {
		return nil
	}

	fields := make([]apperrors.FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldName(re),
			Message: message(re),
		})
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return apperrors.NewValidationError(fmt.Sprintf("invalid %s", s.name), fields...)
}

func fieldName(re gojsonschema.ResultError) string {
	if re.Type() == "required" {
		if p, ok := re.Details()["property"].(string); ok {
			return p
		}
	}
	return strings.TrimPrefix(re.Field(), "(root).")
}

func message(re gojsonschema.ResultError) string {
	switch re.Type() {
	case "required":
		return "is required"
	case "pattern":
		return "must not be blank"
	}
	return re.Description()
}
