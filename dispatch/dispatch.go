// Package dispatch classifies messages that the Correlator did not
// claim as the answer to an in-flight command, and forwards reader
// channel notifications. It owns the two single-slot application
// callbacks: TransactionComplete and reader-message.
//
// Grounded on the original library's kiosk_msg_received and
// reader_event_received (method-name classification, ACK-on-receipt
// for TransactionComplete, log-and-drop for anything unrecognized) and
// on a Kafka consumer client's hook-list pattern, narrowed from a
// chainable list to exactly one replaceable slot: registering a
// callback replaces the previous one rather than chaining onto it.
package dispatch

import (
	"sync"
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/metrics"
	"github.com/oti-tech/kiosk-client-go/internal/wire"
)

// Status is the client-facing transaction status enum, translated
// from the wire's status strings.
type Status int

const (
	StatusUnknown Status = iota
	StatusOK
	StatusDeclined
	StatusError
	StatusTimeout
	StatusCancelled
	StatusVoided
	StatusLocalMifare
)

var statusFromWire = map[string]Status{
	"OK":          StatusOK,
	"Declined":    StatusDeclined,
	"Error":       StatusError,
	"Timeout":     StatusTimeout,
	"Cancelled":   StatusCancelled,
	"Void":        StatusVoided,
	"LocalMifare": StatusLocalMifare,
}

// TransactionComplete is the client-facing, translated form of a
// TransactionComplete event's params.
type TransactionComplete struct {
	Status               Status
	ErrorCode            int
	ErrorDescription     string
	AmountAuthorized     float64
	AmountRequested      float64
	TransactionReference string
	PartialPan           string
	CardType             string
	CardID               string
	CardToken            string
}

// TransactionCompleteFunc is the single transaction-complete callback
// slot. It runs on the command channel worker goroutine and must not
// re-enter the command surface: doing so would deadlock against the
// Correlator's single in-flight slot.
type TransactionCompleteFunc func(TransactionComplete)

// ReaderMessageFunc is the single reader-event callback slot. It runs
// on the reader channel worker goroutine.
type ReaderMessageFunc func(index int, line1, line2 string)

// Acker writes the fixed ACK frame back through the command transport.
type Acker func(payload []byte) error

// Dispatcher classifies non-response command-channel frames and
// forwards reader-channel frames.
type Dispatcher struct {
	ack Acker
	log klog.Logger
	obs *metrics.Observer

	mu              sync.Mutex
	onTransaction   TransactionCompleteFunc
	onReaderMessage ReaderMessageFunc
}

// New builds a Dispatcher that writes ACKs through ack.
func New(ack Acker, log klog.Logger, obs *metrics.Observer) *Dispatcher {
	return &Dispatcher{ack: ack, log: log, obs: obs}
}

// OnTransactionComplete replaces the transaction-complete callback.
// Passing nil disables it.
func (d *Dispatcher) OnTransactionComplete(fn TransactionCompleteFunc) {
	d.mu.Lock()
	d.onTransaction = fn
	d.mu.Unlock()
}

// OnReaderMessage replaces the reader-message callback. Passing nil
// disables it.
func (d *Dispatcher) OnReaderMessage(fn ReaderMessageFunc) {
	d.mu.Lock()
	d.onReaderMessage = fn
	d.mu.Unlock()
}

// HandleCommandEvent classifies a command-channel frame that the
// Correlator did not claim. It is called from the command channel
// worker goroutine.
func (d *Dispatcher) HandleCommandEvent(msg wire.Message) {
	switch msg.Method {
	case wire.MethodTransactionComplete:
		d.handleTransactionComplete(msg)
	default:
		d.obs.Event("dropped")
		d.log.Warn("dispatch: unexpected message", "method", msg.Method)
	}
}

func (d *Dispatcher) handleTransactionComplete(msg wire.Message) {
	d.obs.Event(wire.MethodTransactionComplete)

	params, err := wire.ParseTransactionComplete(msg)
	if err != nil {
		d.log.Warn("dispatch: failed to parse TransactionComplete", "err", err)
		return
	}
	status, ok := statusFromWire[params.Status]
	if !ok {
		d.log.Warn("dispatch: unknown TransactionComplete status", "status", params.Status)
		return
	}

	if msg.ID != nil {
		ackBytes, err := wire.Ack(*msg.ID)
		if err != nil {
			d.log.Warn("dispatch: failed to build ack", "err", err)
		} else if err := d.ack(ackBytes); err != nil {
			d.log.Warn("dispatch: failed to send ack", "err", err)
		}
	}

	tc := TransactionComplete{
		Status:               status,
		ErrorCode:            params.ErrorCode,
		ErrorDescription:     params.ErrorDescription,
		AmountAuthorized:     params.AuthorizationDetails.AmountAuthorized,
		AmountRequested:      params.AuthorizationDetails.AmountRequested,
		TransactionReference: params.AuthorizationDetails.TransactionReferance,
		PartialPan:           params.AuthorizationDetails.PartialPan,
		CardType:             params.AuthorizationDetails.CardType,
		CardID:               params.AuthorizationDetails.CardID,
		CardToken:            params.AuthorizationDetails.CardToken,
	}

	d.mu.Lock()
	fn := d.onTransaction
	d.mu.Unlock()
	if fn == nil {
		return
	}
	d.invoke("transaction_complete", func() { fn(tc) })
}

// HandleReaderEvent parses and forwards a reader-channel frame. It is
// called from the reader channel worker goroutine.
func (d *Dispatcher) HandleReaderEvent(msg wire.Message) {
	if msg.Method != wire.MethodReaderMessageEvent {
		d.obs.Event("dropped")
		d.log.Warn("dispatch: unexpected reader message", "method", msg.Method)
		return
	}
	d.obs.Event(wire.MethodReaderMessageEvent)

	params, err := wire.ParseReaderMessageEvent(msg)
	if err != nil {
		d.log.Warn("dispatch: failed to parse ReaderMessageEvent", "err", err)
		return
	}

	d.mu.Lock()
	fn := d.onReaderMessage
	d.mu.Unlock()
	if fn == nil {
		return
	}
	d.invoke("reader_message", func() { fn(params.Index, params.Line1, params.Line2) })
}

func (d *Dispatcher) invoke(name string, fn func()) {
	start := time.Now()
	fn()
	d.obs.Callback(name, time.Since(start))
}
