package data

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Validator checks YAML data files against a JSON schema.
type Validator struct {
	schema *jsonschema.Schema
}

func NewValidator(schemaPath string) (*Validator, error) {
	s, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schemaPath, err)
	}
	return &Validator{schema: s}, nil
}

// ValidateFile parses a YAML file and validates it.
func (v *Validator) ValidateFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := v.Validate(raw); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}

// Validate checks a YAML document. The document is round-tripped through
// JSON so the validator sees plain JSON types.
func (v *Validator) Validate(doc []byte) error {
	var y any
	if err := yaml.Unmarshal(doc, &y); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	b, err := json.Marshal(y)
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	var j any
	if err := json.Unmarshal(b, &j); err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	return v.schema.Validate(j)
}
