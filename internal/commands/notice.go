package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"classbridge/internal/messages"
)

// notice argument grammar: the first token not starting with "--" is the
// required title; flags may appear in any order and unknown flags are
// ignored. All flag forms require the trailing "=" (a bare "--context" is
// an unknown flag, not a value-less variant).
type noticeArgs struct {
	title           string
	message         string
	allowBreak      bool
	maskDuration    float64
	overlayDuration float64
}

// defaultAllowBreak mirrors the wire contract: a notice without the flag
// may interrupt breaks.
const defaultAllowBreak = true

func parseNoticeArgs(tokens []string) (noticeArgs, error) {
	out := noticeArgs{allowBreak: defaultAllowBreak}
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "--context="):
			out.message = strings.TrimPrefix(tok, "--context=")
		case strings.HasPrefix(tok, "--allow-break="):
			v := strings.TrimPrefix(tok, "--allow-break=")
			switch v {
			case "true":
				out.allowBreak = true
			case "false":
				out.allowBreak = false
			default:
				return noticeArgs{}, fmt.Errorf("invalid --allow-break value %q, want true or false", v)
			}
		case strings.HasPrefix(tok, "--mask-duration="):
			f, err := parseSeconds("mask-duration", strings.TrimPrefix(tok, "--mask-duration="))
			if err != nil {
				return noticeArgs{}, err
			}
			out.maskDuration = f
		case strings.HasPrefix(tok, "--overlay-duration="):
			f, err := parseSeconds("overlay-duration", strings.TrimPrefix(tok, "--overlay-duration="))
			if err != nil {
				return noticeArgs{}, err
			}
			out.overlayDuration = f
		case strings.HasPrefix(tok, "--"):
			// unknown flag, ignored
		default:
			if out.title == "" {
				out.title = tok
			}
		}
	}
	if strings.TrimSpace(out.title) == "" {
		return noticeArgs{}, errors.New("notice requires a non-blank title as its first non-flag argument")
	}
	return out, nil
}

func parseSeconds(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q, want a number of seconds", name, v)
	}
	if f < 0 {
		return 0, fmt.Errorf("invalid --%s value %q, must be >= 0", name, v)
	}
	return f, nil
}

func (a noticeArgs) request() (messages.NotificationRequest, error) {
	return messages.NewNotificationRequest(a.title, a.message, a.maskDuration, a.overlayDuration)
}
