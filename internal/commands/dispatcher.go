// Package commands defines the command table served on the reply socket:
// each command's validation schema and its handler. The table is built
// once and handed to the reply worker; nothing here is a process-wide
// singleton, so tests construct their own.
package commands

import (
	"context"
	"net/http"

	"classbridge/internal/host"
	"classbridge/internal/protocol"
)

// Handler executes one schema-validated request envelope.
type Handler func(ctx context.Context, req protocol.Request) protocol.Result

type command struct {
	schema string
	handle Handler
}

// Registry is the immutable command table.
type Registry struct {
	commands map[string]command
}

// Deps are the host collaborators the built-in handlers consume.
type Deps struct {
	Schedule host.ScheduleService
	Time     host.TimeService
	Notifier host.NotificationSink
}

// NewRegistry builds the full command table: ping, time, get_lesson and
// notice.
func NewRegistry(deps Deps) *Registry {
	return &Registry{commands: map[string]command{
		"ping":       {schema: noArgsSchema("ping"), handle: pingHandler()},
		"time":       {schema: noArgsSchema("time"), handle: timeHandler(deps.Time)},
		"get_lesson": {schema: noArgsSchema("get_lesson"), handle: lessonHandler(deps.Schedule)},
		"notice":     {schema: noticeSchema, handle: noticeHandler(deps.Notifier)},
	}}
}

// Schemas returns the per-command JSON schema documents for the protocol
// codec's registry.
func (r *Registry) Schemas() map[string]string {
	out := make(map[string]string, len(r.commands))
	for name, c := range r.commands {
		out[name] = c.schema
	}
	return out
}

// Dispatch routes a validated request to its handler. The codec already
// rejects unknown commands; the 404 here keeps the registry safe when
// driven directly.
func (r *Registry) Dispatch(ctx context.Context, req protocol.Request) protocol.Result {
	c, ok := r.commands[req.Command]
	if !ok {
		return protocol.Result{
			StatusCode: http.StatusNotFound,
			Err:        "unknown command " + req.Command,
		}
	}
	return c.handle(ctx, req)
}
