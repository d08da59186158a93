package host

import (
	"log/slog"
	"time"

	"classbridge/internal/messages"
)

// Standalone collaborator implementations, used when the bridge runs as
// its own process rather than embedded in the host application. They back
// every command with fixed or local data so the wire surface is fully
// exercisable end to end.

// StaticSchedule serves a fixed lesson snapshot.
type StaticSchedule struct {
	Lesson messages.LessonSnapshot
}

func (s *StaticSchedule) Snapshot() (messages.LessonSnapshot, error) {
	return s.Lesson, nil
}

// SystemTime answers with the local wall clock.
type SystemTime struct{}

func (SystemTime) Now() (time.Time, error) {
	return time.Now(), nil
}

// LogSink writes notification requests to the log instead of rendering
// them.
type LogSink struct {
	Log *slog.Logger
}

func (s *LogSink) Show(req messages.NotificationRequest) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("notification requested",
		"id", req.ID,
		"title", req.Title,
		"message", req.Message,
		"mask_seconds", req.MaskDurationSeconds,
		"overlay_seconds", req.OverlayDurationSeconds,
	)
	return nil
}
