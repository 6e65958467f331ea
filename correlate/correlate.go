// Package correlate implements the single-slot rendezvous between a
// caller issuing a command and the command channel worker delivering
// its response.
//
// The source library coordinates this handoff with a pair of
// semaphores ("ready"/"done") and a 100ms done-timeout to protect
// against a caller that gave up. This rewrite replaces that with a
// oneshot buffered channel created fresh per call: a channel receiver
// that isn't listening yet simply hasn't executed that line, so there
// is no "stale signal" to drain and no done-side timeout to tune. The
// serialization gap the source leaves as undefined behavior
// (concurrent SendReceive callers) is closed with a mutex instead.
package correlate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/wire"
)

// ErrTimeout is returned by SendReceive when no matching response
// arrived before the deadline.
var ErrTimeout = errors.New("correlate: timed out waiting for response")

// Sender writes a request's bytes through the command transport. It
// returns an error if the write could not be completed in full.
type Sender func(payload []byte) error

// Correlator owns the single in-flight rendezvous slot. Exactly one
// Correlator exists per Client, shared by the command surface and the
// command channel's handler.
type Correlator struct {
	send Sender
	log  klog.Logger

	mu sync.Mutex // serializes concurrent SendReceive callers

	slotMu     sync.Mutex // guards expected/rendezvous below
	expected   int
	haveExpect bool
	rendezvous chan []byte
}

// New builds a Correlator that writes outgoing requests with send.
func New(send Sender, log klog.Logger) *Correlator {
	return &Correlator{send: send, log: log}
}

// SendReceive writes payload (whose JSON-RPC id is id) through the
// command transport and blocks up to timeout for a response carrying
// the same id. Only one caller may be inside SendReceive at a time;
// concurrent callers block on each other rather than racing the
// rendezvous slot.
func (c *Correlator) SendReceive(ctx context.Context, id int, payload []byte, timeout time.Duration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rv := make(chan []byte, 1)
	c.slotMu.Lock()
	c.expected = id
	c.haveExpect = true
	c.rendezvous = rv
	c.slotMu.Unlock()

	defer func() {
		c.slotMu.Lock()
		c.haveExpect = false
		c.rendezvous = nil
		c.slotMu.Unlock()
	}()

	if err := c.send(payload); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-rv:
		return resp, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HandleFrame is invoked by the command channel worker for every
// decoded frame it reads. If the frame is the response currently
// expected, it is delivered to the waiting SendReceive caller and
// HandleFrame returns true. Otherwise it returns false so the caller
// (the dispatcher) can classify it as an event.
//
// Unlike the source's command_handler, delivery here cannot block:
// the rendezvous channel is buffered by one and always has a reader
// either already waiting or arriving by the time SendReceive checks
// it, so there is no done-side timeout to emulate. A duplicate
// matching frame that finds the slot already full is not delivered
// and HandleFrame returns false for it.
func (c *Correlator) HandleFrame(raw []byte, msg wire.Message) bool {
	c.slotMu.Lock()
	defer c.slotMu.Unlock()

	if !c.haveExpect || !msg.IsResponseTo(c.expected) {
		return false
	}

	select {
	case c.rendezvous <- raw:
		return true
	default:
		return false
	}
}
