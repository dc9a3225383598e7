package feed

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

const recordSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "definitions": {
    "outcome": {
      "type": "object",
      "required": ["title", "status"],
      "properties": {
        "title": {"type": "string"},
        "ancestorTitles": {"type": "array", "items": {"type": "string"}},
        "status": {"enum": ["passed", "failed", "pending"]},
        "duration": {"type": "number", "minimum": 0},
        "failureMessages": {"type": "array", "items": {"type": "string"}}
      }
    },
    "run": {
      "type": "object",
      "required": ["type", "totalSuites"],
      "properties": {
        "type": {"const": "run"},
        "totalSuites": {"type": "integer", "minimum": 0}
      }
    },
    "suite": {
      "type": "object",
      "required": ["type", "filePath"],
      "properties": {
        "type": {"const": "suite"},
        "filePath": {"type": "string", "minLength": 1},
        "numFailingTests": {"type": "integer", "minimum": 0},
        "perfStats": {
          "type": "object",
          "required": ["start", "end"],
          "properties": {
            "start": {"type": "number"},
            "end": {"type": "number"}
          }
        },
        "testResults": {"type": "array", "items": {"$ref": "#/definitions/outcome"}},
        "failureMessage": {"type": "string"}
      }
    }
  },
  "oneOf": [
    {"$ref": "#/definitions/run"},
    {"$ref": "#/definitions/suite"}
  ]
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func recordSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchemaJSON))
	})
	return schema, schemaErr
}

// ValidateRecord checks one raw record against the feed schema.
func ValidateRecord(data []byte) error {
	s, err := recordSchema()
	if err != nil {
		return fmt.Errorf("compiling record schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}
