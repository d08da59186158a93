package protocol

import (
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaRegistry maps a command name to its compiled validation schema.
// It is built once at construction from the command table's declarative
// schema documents and never mutated afterwards.
type SchemaRegistry struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaRegistry compiles one JSON schema document per command. A
// document that fails to compile is a programming error in the command
// table, reported eagerly rather than at validation time.
func NewSchemaRegistry(docs map[string]string) (*SchemaRegistry, error) {
	schemas := make(map[string]*jsonschema.Schema, len(docs))
	for command, doc := range docs {
		compiled, err := jsonschema.CompileString(command+".schema.json", doc)
		if err != nil {
			return nil, fmt.Errorf("protocol: compile schema for %q: %w", command, err)
		}
		schemas[command] = compiled
	}
	return &SchemaRegistry{schemas: schemas}, nil
}

// Lookup returns the schema registered for command.
func (r *SchemaRegistry) Lookup(command string) (*jsonschema.Schema, bool) {
	s, ok := r.schemas[command]
	return s, ok
}
