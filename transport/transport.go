// Package transport owns the two concrete stream endpoints the kiosk
// client dials: a TCP connection or a Unix domain socket. Each
// Transport instance owns exactly one endpoint and is always used by
// at most one channel worker, matching the "dedicated mutex per
// transport" shared-resource rule the rest of the client relies on.
//
// The connection-owning shape -- a mutex-guarded net.Conn field,
// idempotent Close, and a Send that marks the transport disconnected
// on any short write -- is grounded on a Kafka client's broker
// connection: one goroutine reads, callers write through a guarded
// connection, and any I/O failure tears the connection down so the
// next operation reconnects rather than retrying a dead socket.
package transport

import (
	"errors"
	"net"
	"sync"
	"time"
)

// ErrTimeout is returned by Receive when no data arrived within the
// requested deadline. It is not an error condition for the channel
// worker -- the inner loop simply continues.
var ErrTimeout = errors.New("transport: receive timed out")

// ErrClosed is returned by Receive when the peer closed the
// connection (a zero-length read) or the read failed; the connection
// is dropped in either case.
var ErrClosed = errors.New("transport: connection closed")

// ErrNotConnected is returned by Send and Receive when there is no
// current connection: Connect has not yet succeeded, Close has been
// called, or a failed Send/Receive dropped the connection.
var ErrNotConnected = errors.New("transport: not connected")

// Transport owns one full-duplex stream endpoint.
type Transport interface {
	// Connect dials the endpoint, blocking until connected or the dial
	// fails. It may be called again after a failure or after Close.
	Connect() error

	// Receive blocks for up to timeout waiting for bytes. It returns
	// ErrTimeout if nothing arrived, ErrClosed if the peer closed the
	// connection, or the bytes read otherwise.
	Receive(timeout time.Duration) ([]byte, error)

	// Send writes b in full. A short write or any I/O error marks the
	// transport disconnected so the next Receive/Send reports
	// ErrNotConnected until Connect succeeds again.
	Send(b []byte) error

	// Close tears down the current connection, if any. It is
	// idempotent and safe to call from any goroutine.
	Close() error

	// Addr describes the endpoint for logging (host:port or a socket
	// path); it does not require a live connection.
	Addr() string
}

// streamConn is the shared mutex-guarded connection state used by both
// the TCP and UDS transports. dial produces a fresh net.Conn each time
// Connect is called.
type streamConn struct {
	mu   sync.Mutex
	conn net.Conn
	addr string
	dial func() (net.Conn, error)
}

func (s *streamConn) Addr() string { return s.addr }

func (s *streamConn) Connect() error {
	conn, err := s.dial()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return nil
}

func (s *streamConn) Send(b []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	n, err := conn.Write(b)
	if err != nil || n < len(b) {
		s.disconnect(conn)
		if err != nil {
			return err
		}
		return errors.New("transport: short write")
	}
	return nil
}

func (s *streamConn) Receive(timeout time.Duration) ([]byte, error) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil, ErrNotConnected
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, ErrTimeout
		}
		s.disconnect(conn)
		return nil, ErrClosed
	}
	if n == 0 {
		s.disconnect(conn)
		return nil, ErrClosed
	}
	return buf[:n], nil
}

func (s *streamConn) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.Close()
}

// disconnect drops the current connection only if it's still the one
// that just failed -- a concurrent successful reconnect must not be
// clobbered by a stale failure from the previous connection.
func (s *streamConn) disconnect(failed net.Conn) {
	s.mu.Lock()
	if s.conn == failed {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = failed.Close()
}
