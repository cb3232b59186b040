// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
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

// Save writes the registry with activities sorted by task type.
func (r *ActivityRegistry) Save(path string) error {
	sort.Slice(r.Activities, func(i, j int) bool {
		return r.Activities[i].TaskType < r.Activities[j].TaskType
	})
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks every activity and returns all problems joined.
func (r *ActivityRegistry) Validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, fmt.Errorf("activity %d: id is required", i))
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %q: taskType is required", a.ID))
		} else if seen[a.TaskType] {
			errs = append(errs, fmt.Errorf("activity %q: duplicate taskType %q", a.ID, a.TaskType))
		}
		seen[a.TaskType] = true

		if !validStatuses[a.ImplementationStatus] {
			errs = append(errs, fmt.Errorf("activity %q: unknown implementationStatus %q", a.ID, a.ImplementationStatus))
		}
		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				errs = append(errs, fmt.Errorf("activity %q: timeout: %w", a.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Diff lists task types present in only one of the registries.
func (r *ActivityRegistry) Diff(other *ActivityRegistry) (missing, extra []string) {
	for _, a := range r.Activities {
		if _, ok := other.Find(a.TaskType); !ok {
			missing = append(missing, a.TaskType)
		}
	}
	for _, a := range other.Activities {
		if _, ok := r.Find(a.TaskType); !ok {
			extra = append(extra, a.TaskType)
		}
	}
	return missing, extra
}
