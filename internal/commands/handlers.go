package commands

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"classbridge/internal/host"
	"classbridge/internal/protocol"
)

func pingHandler() Handler {
	return func(ctx context.Context, req protocol.Request) protocol.Result {
		return protocol.Result{StatusCode: http.StatusOK, Message: "OK"}
	}
}

// timeHandler reports the signed, fractional offset in milliseconds
// between the authoritative time source and the local wall clock.
func timeHandler(ts host.TimeService) Handler {
	return func(ctx context.Context, req protocol.Request) protocol.Result {
		authoritative, err := ts.Now()
		if err != nil {
			return protocol.Result{
				StatusCode: http.StatusInternalServerError,
				Err:        "time service unavailable: " + err.Error(),
			}
		}
		offset := float64(authoritative.Sub(time.Now())) / float64(time.Millisecond)
		return protocol.Result{
			StatusCode: http.StatusOK,
			Message:    strconv.FormatFloat(offset, 'f', -1, 64),
		}
	}
}

func lessonHandler(sched host.ScheduleService) Handler {
	return func(ctx context.Context, req protocol.Request) protocol.Result {
		snap, err := sched.Snapshot()
		if err != nil {
			return protocol.Result{
				StatusCode: http.StatusInternalServerError,
				Err:        "schedule service unavailable: " + err.Error(),
			}
		}
		return protocol.Result{StatusCode: http.StatusOK, Message: "OK", Data: snap}
	}
}

// noticeHandler parses the flag tokens, builds a notification request and
// forwards it to the sink. allow-break decides whether the caller gets an
// immediate 200 or a 202 acknowledging deferred display.
func noticeHandler(sink host.NotificationSink) Handler {
	return func(ctx context.Context, req protocol.Request) protocol.Result {
		args, err := parseNoticeArgs(req.Args)
		if err != nil {
			return protocol.Result{StatusCode: http.StatusBadRequest, Err: err.Error()}
		}
		notification, err := args.request()
		if err != nil {
			return protocol.Result{StatusCode: http.StatusBadRequest, Err: err.Error()}
		}
		if err := sink.Show(notification); err != nil {
			return protocol.Result{
				StatusCode: http.StatusServiceUnavailable,
				Err:        "notification sink failed: " + err.Error(),
			}
		}
		status := http.StatusOK
		if !args.allowBreak {
			status = http.StatusAccepted
		}
		return protocol.Result{StatusCode: status, Message: "notification requested"}
	}
}
