package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ParseResult is the outcome of Codec.Parse. A failed parse carries the
// client-facing status code and message; it is never surfaced as an error
// to the transport layer.
type ParseResult struct {
	OK         bool
	StatusCode int
	ErrMessage string
	Request    *Request
}

// Codec turns raw wire text into validated request envelopes and dispatch
// results back into response envelopes.
type Codec struct {
	schemas *SchemaRegistry
}

func NewCodec(schemas *SchemaRegistry) *Codec {
	return &Codec{schemas: schemas}
}

// Parse validates raw in order: JSON syntax, version gate, command lookup,
// then the command's full schema. Schema violations are aggregated into a
// single message listing every failed rule, not just the first.
func (c *Codec) Parse(raw string) ParseResult {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return failure(http.StatusBadRequest, "invalid JSON: "+err.Error())
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return failure(http.StatusBadRequest, "request must be a JSON object")
	}

	version, ok := intField(obj, "version")
	if !ok {
		return failure(http.StatusBadRequest, "missing or non-integer 'version' field")
	}
	if version < MinVersion || version > MaxVersion {
		return failure(http.StatusBadRequest,
			fmt.Sprintf("unsupported version %d, supported range is [%d,%d]", version, MinVersion, MaxVersion))
	}

	command, ok := obj["command"].(string)
	if !ok || command == "" {
		return failure(http.StatusBadRequest, "missing or invalid 'command' field")
	}

	schema, ok := c.schemas.Lookup(command)
	if !ok {
		return failure(http.StatusNotFound, fmt.Sprintf("unknown command %q", command))
	}
	if err := schema.Validate(v); err != nil {
		return failure(http.StatusBadRequest, validationMessage(err))
	}

	req := &Request{Version: version, Command: command}
	if rawArgs, ok := obj["args"].([]any); ok {
		req.Args = make([]string, 0, len(rawArgs))
		for _, a := range rawArgs {
			s, _ := a.(string)
			req.Args = append(req.Args, s)
		}
	}
	return ParseResult{OK: true, Request: req}
}

// BuildResponse wraps a dispatch result into the outbound envelope.
func (c *Codec) BuildResponse(res Result, requestID int64) Response {
	return Response{
		Success:    IsSuccess(res.StatusCode),
		Message:    res.Message,
		Error:      res.Err,
		Data:       res.Data,
		RequestID:  requestID,
		StatusCode: res.StatusCode,
		Version:    Version,
	}
}

// Encode serializes a response envelope to its wire frame.
func (c *Codec) Encode(resp Response) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("protocol: encode response: %w", err)
	}
	return string(b), nil
}

func failure(status int, msg string) ParseResult {
	return ParseResult{StatusCode: status, ErrMessage: msg}
}

// intField extracts an integral number. encoding/json decodes all numbers
// to float64, so reject anything with a fractional part.
func intField(obj map[string]any, key string) (int, bool) {
	f, ok := obj[key].(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// validationMessage flattens a schema validation error into one
// human-readable line per violated rule, joined with "; ".
func validationMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	for _, e := range ve.BasicOutput().Errors {
		if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
			continue
		}
		loc := e.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, loc+": "+e.Error)
	}
	if len(parts) == 0 {
		return ve.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
