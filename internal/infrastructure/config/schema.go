package config

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// pinsFileSchema matches spec.md §6.2's pins file shape, beyond what
// the version-field dispatch in infrastructure/storage already
// enforces structurally.
const pinsFileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "object"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "object": {
      "type": "object",
      "required": ["pins"],
      "properties": {
        "pins": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["identity", "kind", "location", "state"],
            "properties": {
              "identity": {"type": "string", "minLength": 1},
              "kind": {"enum": ["root", "fileSystem", "localSourceControl", "remoteSourceControl", "registry"]},
              "location": {"type": "string"},
              "state": {"type": "object"}
            }
          }
        }
      }
    }
  }
}`

// checkoutsStateSchema matches the Repository Manager's persisted
// state shape (spec.md §6.1 checkouts-state.json).
const checkoutsStateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "object"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "object": {
      "type": "object",
      "required": ["repositories"],
      "properties": {
        "repositories": {
          "type": "object",
          "additionalProperties": {
            "type": "object",
            "required": ["repositoryURL", "subpath"],
            "properties": {
              "repositoryURL": {"type": "string"},
              "subpath": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`

// schemaValidator compiles a fixed JSON Schema document once and
// validates arbitrary documents against it, grounded on the teacher's
// own jsonschema.Compiler/Draft2020/AddResource usage in
// internal/config/validation.go.
type schemaValidator struct {
	schema *jsonschema.Schema
}

func newSchemaValidator(name, source string) (*schemaValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &schemaValidator{schema: schema}, nil
}

func (v *schemaValidator) validate(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("schema validation failed: %s", formatValidationError(ve))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func formatValidationError(e *jsonschema.ValidationError) string {
	var messages []string
	var collect func(*jsonschema.ValidationError)
	collect = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", loc, e.Message))
		}
		for _, cause := range e.Causes {
			collect(cause)
		}
	}
	collect(e)
	return strings.Join(messages, "; ")
}

// ValidatePinsFile validates raw pins-file JSON against the pins file
// schema, beyond the basic version-field check the pins store already
// performs on load.
func ValidatePinsFile(raw []byte) error {
	v, err := newSchemaValidator("pins.json", pinsFileSchema)
	if err != nil {
		return err
	}
	return v.validate(raw)
}

// ValidateCheckoutsState validates raw checkouts-state.json against
// the Repository Manager's persisted state schema.
func ValidateCheckoutsState(raw []byte) error {
	v, err := newSchemaValidator("checkouts-state.json", checkoutsStateSchema)
	if err != nil {
		return err
	}
	return v.validate(raw)
}
