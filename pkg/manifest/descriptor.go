package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Descriptor is a parsed ArieoPackage.yaml file. Name is the only field
// the tools interpret; everything else rides along in Fields.
type Descriptor struct {
	Name   string
	Fields map[interface{}]interface{}
}

// VerifyDescriptor reads and validates a package descriptor file. The
// returned error carries the validation reason exactly as it should be
// reported to the user.
func VerifyDescriptor(path string) (*Descriptor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("File does not exist: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Error reading file: %v", err)
	}

	if strings.TrimSpace(string(content)) == "" {
		return nil, errors.New("YAML file is empty")
	}

	var doc interface{}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("YAML syntax error: %v", err)
	}

	if doc == nil {
		return nil, errors.New("YAML file is empty or contains only comments")
	}

	fields, ok := doc.(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("YAML root must be a dictionary, got %T", doc)
	}

	name, present := fields["name"]
	if !present {
		return nil, errors.New("Missing required field: 'name'")
	}

	nameStr, ok := name.(string)
	if !ok || nameStr == "" {
		return nil, errors.New("Field 'name' must be a non-empty string")
	}

	return &Descriptor{Name: nameStr, Fields: fields}, nil
}
