package host

import (
	"context"
	"log/slog"
	"time"
)

// tickerRotation approximates a school day: lessons alternate with a
// break and the day ends with dismissal.
var tickerRotation = []EventKind{
	EventClassStart,
	EventBreakStart,
	EventClassStart,
	EventAfterSchool,
}

// RunEventTicker emits lifecycle events on a fixed rotation until ctx is
// cancelled, pairing each transition with a time-state change. It stands
// in for a scheduling engine's hooks when the bridge runs standalone, so
// subscribers on the publish socket receive real frames. An interval of
// zero disables the ticker.
func RunEventTicker(ctx context.Context, bus *Bus, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	slog.Info("event ticker running", "interval", interval)
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bus.Emit(tickerRotation[i%len(tickerRotation)])
			bus.Emit(EventTimeStateChanged)
		}
	}
}
