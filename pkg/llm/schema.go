package llm

import (
	"encoding/json"
	"fmt"

	"github.com/swaggest/jsonschema-go"
)

// SchemaFromStruct generates a JSON Schema from a Go struct using the swaggest/jsonschema-go library
//
// Example:
//
//	type Person struct {
//	    Name string `json:"name" required:"true" description:"Full name"`
//	    Age  int    `json:"age" minimum:"0" maximum:"150"`
//	}
//	schema, err := SchemaFromStruct(Person{})
func SchemaFromStruct(structType interface{}) (jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{}

	schema, err := reflector.Reflect(structType)
	if err != nil {
		return jsonschema.Schema{}, fmt.Errorf("failed to reflect struct to JSON schema: %w", err)
	}

	return schema, nil
}

// JSONShapeHint renders an instruction describing the JSON object expected in
// a structured-JSON reply. The json_object response format requires the
// conversation to ask for JSON explicitly; this text does so with the schema
// of the given struct.
func JSONShapeHint(structType interface{}) (string, error) {
	schema, err := SchemaFromStruct(structType)
	if err != nil {
		return "", err
	}

	j, err := json.MarshalIndent(schema, "", " ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}

	return "Reply with a single JSON object matching this JSON Schema:\n" + string(j), nil
}
