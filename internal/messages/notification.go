package messages

import (
	"errors"
	"strings"

	"github.com/rs/xid"
)

// NotificationRequest asks the rendering collaborator to show a two-phase
// notification: a mask phase of MaskDurationSeconds, then an overlay phase
// of OverlayDurationSeconds showing Message.
type NotificationRequest struct {
	ID                     string  `json:"id"`
	Title                  string  `json:"title"`
	Message                string  `json:"message"`
	MaskDurationSeconds    float64 `json:"maskDurationSeconds"`
	OverlayDurationSeconds float64 `json:"overlayDurationSeconds"`
}

var ErrBlankTitle = errors.New("messages: notification title must not be blank")

// NewNotificationRequest builds a notification request and normalizes it:
// an empty message forces the overlay duration to zero, since there is
// nothing to show in the overlay phase. The ID ties sink-side logs back to
// the originating request.
func NewNotificationRequest(title, message string, maskSeconds, overlaySeconds float64) (NotificationRequest, error) {
	if strings.TrimSpace(title) == "" {
		return NotificationRequest{}, ErrBlankTitle
	}
	if maskSeconds < 0 || overlaySeconds < 0 {
		return NotificationRequest{}, errors.New("messages: notification durations must be >= 0")
	}
	if message == "" {
		overlaySeconds = 0
	}
	return NotificationRequest{
		ID:                     xid.New().String(),
		Title:                  title,
		Message:                message,
		MaskDurationSeconds:    maskSeconds,
		OverlayDurationSeconds: overlaySeconds,
	}, nil
}
