package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"classbridge/internal/commands"
	"classbridge/internal/platform"
	"classbridge/internal/protocol"
	"classbridge/internal/transport"
)

// OpenReplyFunc binds and returns the reply socket for one worker run.
type OpenReplyFunc func() (transport.ReplySocket, error)

// ReplyServer runs the request/reply loop. Each run exclusively owns one
// bound reply socket; the loop is a strict one-receive-one-send
// alternation with a timed receive so a stop request is observed within
// one timeout interval.
type ReplyServer struct {
	open  OpenReplyFunc
	codec *protocol.Codec
	reg   *commands.Registry
	ids   protocol.Counter
	log   *slog.Logger

	mu   sync.Mutex
	sock transport.ReplySocket

	ctrl *Controller
}

func NewReplyServer(open OpenReplyFunc, codec *protocol.Codec, reg *commands.Registry) *ReplyServer {
	s := &ReplyServer{
		open:  open,
		codec: codec,
		reg:   reg,
		log:   slog.Default().With("worker", "reply"),
	}
	s.ctrl = NewController("reply", runnerFunc{run: s.runLoop, force: s.forceRelease})
	return s
}

func (s *ReplyServer) Start() error { return s.ctrl.Start() }
func (s *ReplyServer) Stop() error  { return s.ctrl.Stop() }
func (s *ReplyServer) Dispose()     { s.ctrl.Dispose() }

// replyErrorBackoff spaces out rebind attempts after a socket failure.
const replyErrorBackoff = 100 * time.Millisecond

func (s *ReplyServer) runLoop(stop <-chan struct{}) {
	sock, err := s.open()
	if err != nil {
		s.log.Error("reply socket bind failed", "err", err)
		return
	}
	s.setSocket(sock)
	defer s.closeSocket()

	for {
		select {
		case <-stop:
			return
		default:
		}
		if err := s.serveOne(); err != nil {
			// a failed receive or send outside the timeout path leaves
			// the strict alternation in an unknown state; drop the socket
			// and bind a fresh one
			s.log.Error("reply socket error, rebinding", "err", err)
			s.closeSocket()
			select {
			case <-stop:
				return
			case <-time.After(replyErrorBackoff):
			}
			sock, err := s.open()
			if err != nil {
				s.log.Error("reply socket rebind failed", "err", err)
				return
			}
			s.setSocket(sock)
		}
	}
}

// serveOne handles one receive/reply exchange. A non-nil error means the
// socket can no longer be trusted and must be rebound.
func (s *ReplyServer) serveOne() error {
	sock := s.socket()
	if sock == nil {
		// socket force-released; the stop signal is already pending
		return nil
	}
	raw, err := sock.Recv()
	if errors.Is(err, transport.ErrTimeout) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("receive failed: %w", err)
	}

	id := s.ids.Next()
	resp := s.process(raw, id)
	payload, err := s.codec.Encode(resp)
	if err != nil {
		// a response that cannot be serialized still owes the client a
		// frame, or the socket would deadlock in its alternation
		s.log.Error("response encode failed", "request_id", id, "err", err)
		payload, _ = s.codec.Encode(s.codec.BuildResponse(protocol.Result{
			StatusCode: http.StatusInternalServerError,
			Err:        "response serialization failed",
		}, id))
	}
	if err := sock.Send(payload); err != nil {
		return fmt.Errorf("send failed for request %d: %w", id, err)
	}
	return nil
}

// process turns one raw frame into a response envelope. Handler panics
// are converted into 500 envelopes so the client always gets a reply;
// genuinely fatal conditions (out of memory and kin) are not recoverable
// in this runtime and abort the process before reaching the recover.
func (s *ReplyServer) process(raw string, id int64) (resp protocol.Response) {
	start := time.Now()
	command := ""
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("handler panic", "request_id", id, "command", command, "panic", r)
			resp = s.codec.BuildResponse(protocol.Result{
				StatusCode: http.StatusInternalServerError,
				Err:        fmt.Sprintf("internal error: %v", r),
			}, id)
		}
		platform.RequestsTotal.WithLabelValues(command, strconv.Itoa(resp.StatusCode)).Inc()
		platform.RequestDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
		if !resp.Success {
			s.log.Warn("request failed", "request_id", id, "command", command,
				"status", resp.StatusCode, "err", resp.Error)
		}
	}()

	parsed := s.codec.Parse(raw)
	var result protocol.Result
	if !parsed.OK {
		result = protocol.Result{StatusCode: parsed.StatusCode, Err: parsed.ErrMessage}
	} else {
		command = parsed.Request.Command
		result = s.reg.Dispatch(context.Background(), *parsed.Request)
	}
	return s.codec.BuildResponse(result, id)
}

func (s *ReplyServer) socket() transport.ReplySocket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sock
}

func (s *ReplyServer) setSocket(sock transport.ReplySocket) {
	s.mu.Lock()
	s.sock = sock
	s.mu.Unlock()
}

func (s *ReplyServer) closeSocket() {
	s.mu.Lock()
	sock := s.sock
	s.sock = nil
	s.mu.Unlock()
	if sock != nil {
		if err := sock.Close(); err != nil {
			s.log.Error("reply socket close failed", "err", err)
		}
	}
}

// forceRelease detaches a lingering worker from its socket by swapping
// the reference out and closing it. Socket operations are bounded by
// their timeouts, so the worker sees a nil socket or a closed-socket
// error within one interval and exits.
func (s *ReplyServer) forceRelease() {
	s.closeSocket()
}
