package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Request is the document shape accepted by LoadTasks and the HTTP API.
type Request struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// LoadTasks reads a task list from a JSON or YAML file, chosen by extension.
// The loaded tasks are validated but not resolved.
func LoadTasks(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var req Request
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("unmarshal task file: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("unmarshal task file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported task file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
	}

	if err := Validate(req.Tasks); err != nil {
		return nil, fmt.Errorf("validate task file: %w", err)
	}

	return req.Tasks, nil
}
