// internal/models/change.go
package models

// StatusChange is a legal transition ready to persist. The write is conditional on
// the entity still being in From. Fields maps column names to new values; a nil
// value sets the column to NULL.
type StatusChange struct {
	EntityType string
	EntityID   int64
	Action     string
	From       string
	To         string
	Fields     map[string]interface{}
}
