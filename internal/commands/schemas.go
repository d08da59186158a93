package commands

import "fmt"

// Schema documents are declarative: required fields, types, the version
// range, and per-command argument constraints. The codec compiles them
// once at startup.

// noArgsSchema covers commands whose envelope needs only version and
// command; args stays optional and, when present, must be a string array.
func noArgsSchema(name string) string {
	return fmt.Sprintf(`{
  "type": "object",
  "required": ["version", "command"],
  "properties": {
    "version": {"type": "integer"},
    "command": {"const": %q},
    "args": {"type": "array", "items": {"type": "string"}}
  }
}`, name)
}

// noticeSchema additionally requires at least one argument token (the
// title).
const noticeSchema = `{
  "type": "object",
  "required": ["version", "command", "args"],
  "properties": {
    "version": {"type": "integer"},
    "command": {"const": "notice"},
    "args": {"type": "array", "items": {"type": "string"}, "minItems": 1}
  }
}`
