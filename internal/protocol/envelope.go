// Package protocol implements the versioned JSON envelope spoken on the
// reply socket: inbound parsing and schema validation, outbound response
// construction, and request id assignment.
package protocol

// Supported envelope versions, a closed range. There is currently a single
// version; the range form keeps the gate backward compatible when a new
// version is introduced.
const (
	MinVersion = 0
	MaxVersion = 0

	// Version is stamped on every outbound envelope.
	Version = 0
)

// Request is the inbound envelope after validation.
type Request struct {
	Version int      `json:"version"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Response is the outbound envelope. Success mirrors the status code
// family: true iff StatusCode is in [200,300).
type Response struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	RequestID  int64  `json:"request_id"`
	StatusCode int    `json:"status_code"`
	Version    int    `json:"version"`
}

// Result is what a command handler (or the parse path) produces before it
// is wrapped into a Response.
type Result struct {
	StatusCode int
	Message    string
	Err        string
	Data       any
}

// IsSuccess reports whether code is in the 2xx family.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
