package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newLoopbackPair(t *testing.T) (*streamConn, net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	serverConnCh := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		serverConnCh <- c
	}()

	addr := ln.Addr().String()
	sc := &streamConn{
		addr: addr,
		dial: func() (net.Conn, error) {
			return net.DialTimeout("tcp", addr, time.Second)
		},
	}
	require.NoError(t, sc.Connect())
	server := <-serverConnCh
	t.Cleanup(func() { _ = server.Close() })
	return sc, server
}

func TestStreamConnSendReceive(t *testing.T) {
	sc, server := newLoopbackPair(t)

	require.NoError(t, sc.Send([]byte("hello")))
	buf := make([]byte, 16)
	n, err := server.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf[:n]))

	_, err = server.Write([]byte("world"))
	require.NoError(t, err)
	got, err := sc.Receive(time.Second)
	require.NoError(t, err)
	require.Equal(t, "world", string(got))
}

func TestStreamConnReceiveTimeout(t *testing.T) {
	sc, _ := newLoopbackPair(t)
	_, err := sc.Receive(50 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestStreamConnReceiveClosed(t *testing.T) {
	sc, server := newLoopbackPair(t)
	require.NoError(t, server.Close())
	_, err := sc.Receive(time.Second)
	require.ErrorIs(t, err, ErrClosed)
}

func TestStreamConnSendNotConnected(t *testing.T) {
	sc := &streamConn{addr: "unused"}
	err := sc.Send([]byte("x"))
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestStreamConnCloseIdempotent(t *testing.T) {
	sc, _ := newLoopbackPair(t)
	require.NoError(t, sc.Close())
	require.NoError(t, sc.Close())
}

func TestResolveSocketDir(t *testing.T) {
	require.Equal(t, "/explicit", ResolveSocketDir("/explicit"))

	t.Setenv(SocketDirEnvVar, "/from/env")
	require.Equal(t, "/from/env", ResolveSocketDir(""))

	t.Setenv(SocketDirEnvVar, "")
	require.Equal(t, DefaultSocketDir, ResolveSocketDir(""))
}

func TestNewUDSPathTooLong(t *testing.T) {
	longDir := ""
	for i := 0; i < 120; i++ {
		longDir += "x"
	}
	_, err := NewCommandUDS(longDir)
	require.Error(t, err)
}

// TestNewUDSPathBoundary pins the exact cutoff: sun_path holds 108
// bytes including the terminating NUL, so a 107-byte path is the
// longest one that still fits and a 108-byte path is the shortest
// one rejected.
func TestNewUDSPathBoundary(t *testing.T) {
	mkDir := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	// len(CommandSocketName) == 10, plus the "/" separator == 11.
	_, err := NewCommandUDS(mkDir(96)) // 96 + 11 == 107, accepted
	require.NoError(t, err)

	_, err = NewCommandUDS(mkDir(97)) // 97 + 11 == 108, rejected
	require.Error(t, err)
}

func TestNewTCPDefaultsHost(t *testing.T) {
	tr := NewTCP("", DefaultCommandPort)
	require.Contains(t, tr.Addr(), DefaultHost)
}
