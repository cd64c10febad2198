// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, nil
}

// Save writes the registry as indented JSON and stamps LastUpdated.
func (r *ActivityRegistry) Save(path string, now time.Time) error {
	r.LastUpdated = now.UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Find returns the activity serving taskType.
func (r *ActivityRegistry) Find(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

// Add appends a new activity. IDs and task types are unique.
func (r *ActivityRegistry) Add(a Activity) error {
	for _, existing := range r.Activities {
		if existing.ID == a.ID {
			return fmt.Errorf("activity with ID %s already exists", a.ID)
		}
		if existing.TaskType == a.TaskType {
			return fmt.Errorf("task type %s is already served by %s", a.TaskType, existing.ID)
		}
	}
	r.Activities = append(r.Activities, a)
	return nil
}

// SetField updates one scalar field of the activity with the given ID.
func (r *ActivityRegistry) SetField(id, field, value string) error {
	var a *Activity
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			a = &r.Activities[i]
			break
		}
	}
	if a == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		if !knownStatus(value) {
			return fmt.Errorf("unknown implementation status %q", value)
		}
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func knownStatus(s string) bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusVerified:
		return true
	}
	return false
}

// Validate checks required fields, uniqueness and timeouts.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity ID: %s", a.ID)
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", a.ID)
		}
		if a.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", a.ID)
		}
		if a.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", a.ID)
		}
		if taskTypes[a.TaskType] {
			return fmt.Errorf("duplicate task type: %s", a.TaskType)
		}
		taskTypes[a.TaskType] = true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", a.ID, a.Timeout)
			}
		}
		if a.ImplementationStatus != "" && !knownStatus(a.ImplementationStatus) {
			return fmt.Errorf("activity %s has unknown implementation status %q", a.ID, a.ImplementationStatus)
		}
	}
	return nil
}

// Missing returns the task types that have no catalogue entry, sorted.
func (r *ActivityRegistry) Missing(taskTypes []string) []string {
	var missing []string
	for _, tt := range taskTypes {
		if _, ok := r.Find(tt); !ok {
			missing = append(missing, tt)
		}
	}
	sort.Strings(missing)
	return missing
}
