// Package channel runs the long-lived worker goroutine that owns one
// Transport: it reconnects on failure, reads frames, and hands
// complete JSON objects to an injected handler. One Worker exists for
// the command channel and one for the reader-event channel; neither
// exits for the life of the process, matching the "channel is
// immortal" lifecycle.
//
// The outer reconnect / inner receive shape mirrors the original
// library's _kiosk_comm_loop (connect, poll/receive until the socket
// drops, then loop back to connect); the goroutine-owns-one-connection
// structure is the same idiom a Kafka client uses for a broker
// connection's reader goroutine.
package channel

import (
	"sync/atomic"
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/framing"
	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/metrics"
	"github.com/oti-tech/kiosk-client-go/transport"
)

// ReconnectDelay is the default fixed sleep between connect attempts,
// used when a Worker is built with no explicit override. No backoff
// and no attempt cap, so this is always a plain sleep.
const ReconnectDelay = time.Second

// Handler processes one complete JSON frame read from the channel. It
// runs on the worker goroutine; it must not block indefinitely.
type Handler func(frame []byte)

// Worker owns one Transport and drives its connect/receive lifecycle
// on a dedicated goroutine.
type Worker struct {
	name            string
	transport       transport.Transport
	handler         Handler
	incomingTimeout time.Duration
	reconnectDelay  time.Duration
	maxMessageBytes int
	logger          klog.Logger
	metrics         *metrics.Observer

	connected atomic.Bool
	stop      chan struct{}
	done      chan struct{}
}

// New builds a Worker for the named channel ("command" or "reader").
// incomingTimeout bounds each Receive call; reconnectDelay is the fixed
// sleep between connect attempts (0 uses the package default
// ReconnectDelay); maxMessageBytes bounds the framing accumulator (0
// uses framing.DefaultMaxMessageBytes).
func New(name string, tr transport.Transport, handler Handler, incomingTimeout, reconnectDelay time.Duration, maxMessageBytes int, logger klog.Logger, obs *metrics.Observer) *Worker {
	if reconnectDelay <= 0 {
		reconnectDelay = ReconnectDelay
	}
	return &Worker{
		name:            name,
		transport:       tr,
		handler:         handler,
		incomingTimeout: incomingTimeout,
		reconnectDelay:  reconnectDelay,
		maxMessageBytes: maxMessageBytes,
		logger:          logger,
		metrics:         obs,
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
}

// Start launches the worker goroutine. It returns immediately; the
// worker runs until Stop is called.
func (w *Worker) Start() {
	go w.run()
}

// Stop signals the worker to exit and blocks until it does. It is the
// only way this otherwise-immortal loop terminates, used for orderly
// shutdown of the owning Client.
func (w *Worker) Stop() {
	close(w.stop)
	<-w.done
}

// Connected reports whether the transport is currently believed
// connected. GetStatus uses it to return NoKiosk with CommError while
// the command channel is disconnected.
func (w *Worker) Connected() bool {
	return w.connected.Load()
}

func (w *Worker) run() {
	defer close(w.done)
	acc := framing.New(w.maxMessageBytes)

	for {
		select {
		case <-w.stop:
			return
		default:
		}

		if err := w.transport.Connect(); err != nil {
			w.logger.Warn("channel connect failed", "channel", w.name, "addr", w.transport.Addr(), "err", err)
			w.setConnected(false)
			if w.sleepOrStop(w.reconnectDelay) {
				return
			}
			w.metrics.Reconnect(w.name)
			continue
		}
		w.logger.Info("channel connected", "channel", w.name, "addr", w.transport.Addr())
		w.setConnected(true)

		if w.receiveLoop(acc) {
			return
		}
		w.setConnected(false)
		if w.sleepOrStop(w.reconnectDelay) {
			return
		}
		w.metrics.Reconnect(w.name)
	}
}

// receiveLoop runs the inner read loop until the connection drops or
// Stop is requested. It returns true if the worker should exit
// entirely (Stop requested), false if it should reconnect.
func (w *Worker) receiveLoop(acc *framing.Accumulator) bool {
	for {
		select {
		case <-w.stop:
			_ = w.transport.Close()
			return true
		default:
		}

		chunk, err := w.transport.Receive(w.incomingTimeout)
		switch {
		case err == transport.ErrTimeout:
			continue
		case err == transport.ErrClosed, err == transport.ErrNotConnected:
			w.logger.Warn("channel disconnected", "channel", w.name)
			return false
		case err != nil:
			w.logger.Warn("channel receive error", "channel", w.name, "err", err)
			return false
		}

		frames, ferr := acc.Feed(chunk)
		for _, f := range frames {
			w.handler(f)
		}
		if ferr != nil {
			w.logger.Warn("channel framing error", "channel", w.name, "err", ferr)
		}
	}
}

func (w *Worker) setConnected(v bool) {
	w.connected.Store(v)
	w.metrics.SetConnected(w.name, v)
}

// sleepOrStop sleeps for d unless Stop is signaled first, in which
// case it returns true immediately.
func (w *Worker) sleepOrStop(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-w.stop:
		return true
	case <-t.C:
		return false
	}
}
