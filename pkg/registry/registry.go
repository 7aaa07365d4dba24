// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Save writes the registry as indented JSON, creating parent directories.
func Save(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Merge upserts activities by ID and keeps the result sorted by ID. It
// reports whether anything changed; LastUpdated only moves when it did.
func Merge(reg *ActivityRegistry, activities []Activity, now time.Time) bool {
	byID := make(map[string]int, len(reg.Activities))
	for i, a := range reg.Activities {
		byID[a.ID] = i
	}

	changed := false
	for _, a := range activities {
		i, ok := byID[a.ID]
		if !ok {
			reg.Activities = append(reg.Activities, a)
			byID[a.ID] = len(reg.Activities) - 1
			changed = true
			continue
		}
		if !sameActivity(reg.Activities[i], a) {
			reg.Activities[i] = a
			changed = true
		}
	}

	sort.Slice(reg.Activities, func(i, j int) bool {
		return reg.Activities[i].ID < reg.Activities[j].ID
	})
	if changed {
		reg.LastUpdated = now.UTC().Format(time.RFC3339)
	}
	return changed
}

func sameActivity(a, b Activity) bool {
	x, errX := json.Marshal(a)
	y, errY := json.Marshal(b)
	return errX == nil && errY == nil && string(x) == string(y)
}

// Validate checks required fields, ID uniqueness and that every input schema
// compiles.
func Validate(reg *ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.InputSchema != nil {
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(activity.InputSchema)); err != nil {
				return fmt.Errorf("activity %s has an invalid input schema: %w", activity.ID, err)
			}
		}
	}
	return nil
}
