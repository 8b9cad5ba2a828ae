package segpolicy

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy YAML file. Unknown fields fail immediately so typos
// never silently fall back to defaults.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode policy: %w", err)
	}

	if err := Validate(&p); err != nil {
		return nil, fmt.Errorf("validate policy: %w", err)
	}

	return &p, nil
}

// LoadOrDefault returns the policy at path, or the compiled-in default
// when path is empty.
func LoadOrDefault(path string) (*Policy, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
