// Package kiosk is the public client library: it wires together a
// transport, channel worker, correlator and dispatcher for each of the
// two channels, and exposes the command surface the application
// drives the kiosk through.
//
// Configuration follows a functional-options idiom (cfg struct plus a
// slice of Opt values applied in New) rather than a long constructor
// parameter list or mutable public fields.
package kiosk

import (
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultCommandTimeout  = 500 * time.Millisecond
	defaultIncomingTimeout = time.Second
	defaultReconnectDelay  = time.Second
)

type cfg struct {
	isTCP      bool
	socketDir  string
	tcpHost    string
	cmdPort    int
	readerPort int

	commandTimeout  time.Duration
	incomingTimeout time.Duration
	reconnectDelay  time.Duration

	logger klog.Logger
	reg    *prometheus.Registry
}

func defaultCfg() cfg {
	return cfg{
		commandTimeout:  defaultCommandTimeout,
		incomingTimeout: defaultIncomingTimeout,
		reconnectDelay:  defaultReconnectDelay,
		logger:          klog.Nop(),
	}
}

// Opt configures a Client at construction time.
type Opt interface {
	apply(*cfg)
}

type optFunc func(*cfg)

func (f optFunc) apply(c *cfg) { f(c) }

// WithUnixSocketDir selects the Unix domain socket transport, rooted
// at dir. An empty dir defers to the OTI_KIOSK_SOCKET_DIR environment
// variable and then "./var", per the base-directory resolution order.
func WithUnixSocketDir(dir string) Opt {
	return optFunc(func(c *cfg) {
		c.isTCP = false
		c.socketDir = dir
	})
}

// WithTCP selects the TCP transport, dialing host for both channels.
// An empty host falls back to 127.0.0.1. Passing 0 for either port
// keeps the default (10000 for commands, 10001 for reader events).
func WithTCP(host string, commandPort, readerPort int) Opt {
	return optFunc(func(c *cfg) {
		c.isTCP = true
		c.tcpHost = host
		c.cmdPort = commandPort
		c.readerPort = readerPort
	})
}

// WithCommandTimeout overrides the 500ms default bound on every
// command-surface call.
func WithCommandTimeout(d time.Duration) Opt {
	return optFunc(func(c *cfg) { c.commandTimeout = d })
}

// WithIncomingTimeout overrides the 1s default bound each channel
// worker waits for data before looping. Data is handed on as soon as it
// arrives whatever the bound; a shorter bound makes the worker notice
// a Close sooner.
func WithIncomingTimeout(d time.Duration) Opt {
	return optFunc(func(c *cfg) { c.incomingTimeout = d })
}

// WithReconnectDelay overrides the 1s sleep between reconnect
// attempts.
func WithReconnectDelay(d time.Duration) Opt {
	return optFunc(func(c *cfg) { c.reconnectDelay = d })
}

// WithLogger attaches a structured logger. The default discards all
// output.
func WithLogger(l klog.Logger) Opt {
	return optFunc(func(c *cfg) { c.logger = l })
}

// WithMetrics registers the client's Prometheus collectors on reg. The
// default keeps an unregistered, throwaway Observer so metrics calls
// are always safe to make.
func WithMetrics(reg *prometheus.Registry) Opt {
	return optFunc(func(c *cfg) { c.reg = reg })
}

func (c cfg) observer() *metrics.Observer {
	if c.reg == nil {
		return metrics.Nop()
	}
	return metrics.NewObserver(c.reg)
}
