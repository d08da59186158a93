// Package zmqsock is the ZeroMQ-backed implementation of the transport
// interfaces and the only package that touches libzmq. The server
// workers and their tests depend solely on the transport contract.
package zmqsock

import (
	"fmt"
	"syscall"
	"time"

	zmq "github.com/pebbe/zmq4"

	"classbridge/internal/transport"
)

// Every operation carries a timeout so no call blocks unboundedly. A
// libzmq socket is not thread-safe, so Close from another goroutine
// never destroys it directly: the guard defers the actual close to the
// operation in flight, which finishes within its timeout.
const sendTimeout = time.Second

type socket struct {
	sock  *zmq.Socket
	guard *transport.CloseGuard
}

// NewReplySocket binds a REP socket at addr (e.g. "tcp://127.0.0.1:5555").
// recvTimeout bounds every Recv so the owning loop can observe its stop
// flag between frames.
func NewReplySocket(addr string, recvTimeout time.Duration) (transport.ReplySocket, error) {
	sock, err := zmq.NewSocket(zmq.REP)
	if err != nil {
		return nil, fmt.Errorf("zmqsock: create reply socket: %w", err)
	}
	if err := configure(sock, addr, recvTimeout); err != nil {
		_ = sock.Close()
		return nil, err
	}
	return &socket{sock: sock, guard: transport.NewCloseGuard(sock.Close)}, nil
}

// NewPublishSocket binds a PUB socket at addr (e.g. "tcp://127.0.0.1:5556").
func NewPublishSocket(addr string) (transport.Socket, error) {
	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("zmqsock: create publish socket: %w", err)
	}
	if err := configure(sock, addr, 0); err != nil {
		_ = sock.Close()
		return nil, err
	}
	return &socket{sock: sock, guard: transport.NewCloseGuard(sock.Close)}, nil
}

func configure(sock *zmq.Socket, addr string, recvTimeout time.Duration) error {
	if err := sock.SetLinger(0); err != nil {
		return fmt.Errorf("zmqsock: set linger: %w", err)
	}
	if recvTimeout > 0 {
		if err := sock.SetRcvtimeo(recvTimeout); err != nil {
			return fmt.Errorf("zmqsock: set receive timeout: %w", err)
		}
	}
	if err := sock.SetSndtimeo(sendTimeout); err != nil {
		return fmt.Errorf("zmqsock: set send timeout: %w", err)
	}
	if err := sock.Bind(addr); err != nil {
		return fmt.Errorf("zmqsock: bind %s: %w", addr, err)
	}
	return nil
}

func (s *socket) Recv() (string, error) {
	if err := s.guard.Acquire(); err != nil {
		return "", err
	}
	defer s.guard.Release()

	msg, err := s.sock.Recv(0)
	if err != nil {
		if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
			return "", transport.ErrTimeout
		}
		return "", fmt.Errorf("zmqsock: recv: %w", err)
	}
	return msg, nil
}

func (s *socket) Send(msg string) error {
	if err := s.guard.Acquire(); err != nil {
		return err
	}
	defer s.guard.Release()

	if _, err := s.sock.Send(msg, 0); err != nil {
		return fmt.Errorf("zmqsock: send: %w", err)
	}
	return nil
}

func (s *socket) Close() error {
	return s.guard.Close()
}
