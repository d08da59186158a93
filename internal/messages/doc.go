// Package messages defines the wire-facing data contracts of the bridge.
//
// This package consolidates the types that cross process boundaries into a
// single source of truth:
//
//   - Broadcast event names emitted on the publish socket
//   - The lesson snapshot returned by the get_lesson command
//   - The notification request handed to the rendering collaborator
//
// Request/response envelopes live in the protocol package; the types here
// are pure data and carry no behavior beyond construction-time
// normalization.
package messages
