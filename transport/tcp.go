package transport

import (
	"fmt"
	"net"
	"time"
)

// Default TCP ports for the two channels, per the wire table.
const (
	DefaultCommandPort = 10000
	DefaultReaderPort  = 10001
)

// DefaultHost is used when the caller supplies an empty address.
const DefaultHost = "127.0.0.1"

// dialTimeout bounds how long a single TCP connect attempt may take
// before the reconnect loop sleeps and tries again.
const dialTimeout = 5 * time.Second

// NewTCP builds a Transport that dials host:port, resolving host as a
// hostname and using the first resolved address (net.Dial already does
// this resolution for us). An empty host falls back to DefaultHost.
func NewTCP(host string, port int) Transport {
	if host == "" {
		host = DefaultHost
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	return &streamConn{
		addr: addr,
		dial: func() (net.Conn, error) {
			return net.DialTimeout("tcp", addr, dialTimeout)
		},
	}
}
