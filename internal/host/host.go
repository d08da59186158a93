// Package host declares the interfaces the bridge consumes from its
// embedding application: the schedule engine, the authoritative time
// source, the lifecycle event feed, and the notification sink. The bridge
// never depends on the host's concrete types; a process embeds the bridge
// by implementing these and wiring them in at construction.
package host

import (
	"time"

	"classbridge/internal/messages"
)

// EventKind identifies one of the host lifecycle events the bridge
// re-broadcasts on its publish socket.
type EventKind int

const (
	EventClassStart EventKind = iota
	EventBreakStart
	EventAfterSchool
	EventTimeStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventClassStart:
		return "class-start"
	case EventBreakStart:
		return "break-start"
	case EventAfterSchool:
		return "after-school"
	case EventTimeStateChanged:
		return "time-state-changed"
	default:
		return "unknown"
	}
}

// Subscription identifies one registered handler for later removal.
type Subscription uint64

// EventBus is the host's lifecycle event feed. Handlers may be invoked
// from arbitrary host threads; implementations must allow Subscribe,
// Unsubscribe and event emission to race.
type EventBus interface {
	Subscribe(kind EventKind, fn func()) Subscription
	Unsubscribe(sub Subscription)
}

// ScheduleService is the read-only status query into the host's
// scheduling engine.
type ScheduleService interface {
	Snapshot() (messages.LessonSnapshot, error)
}

// TimeService is the host's authoritative time source.
type TimeService interface {
	Now() (time.Time, error)
}

// NotificationSink consumes notification requests produced by the notice
// command. Rendering happens entirely on the host side.
type NotificationSink interface {
	Show(req messages.NotificationRequest) error
}
