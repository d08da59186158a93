package messages

// Broadcast event names. Each one is sent as a single UTF-8 frame on the
// publish socket, no envelope; subscribers receive all of them (no topic
// filtering).
const (
	EventOnClass                 = "OnClass"
	EventOnBreakingTime          = "OnBreakingTime"
	EventOnAfterSchool           = "OnAfterSchool"
	EventCurrentTimeStateChanged = "CurrentTimeStateChanged"
)
