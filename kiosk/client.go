package kiosk

import (
	"context"
	"fmt"

	"github.com/oti-tech/kiosk-client-go/channel"
	"github.com/oti-tech/kiosk-client-go/correlate"
	"github.com/oti-tech/kiosk-client-go/dispatch"
	"github.com/oti-tech/kiosk-client-go/internal/metrics"
	"github.com/oti-tech/kiosk-client-go/internal/wire"
	"github.com/oti-tech/kiosk-client-go/transport"
)

// Client is an explicit, owned value wrapping the two channels, the
// correlator and the dispatcher -- a deliberate re-architecture away
// from the source library's process-wide statics (init/registered
// callbacks/rendezvous all lived as globals there). Every dependency a
// Client needs is held here; nothing is shared across Client
// instances.
type Client struct {
	cfg cfg

	cmdTransport transport.Transport
	rdrTransport transport.Transport

	cmdWorker *channel.Worker
	rdrWorker *channel.Worker

	correlator *correlate.Correlator
	dispatcher *dispatch.Dispatcher
	obs        *metrics.Observer
}

// New builds and starts a Client: both channel workers are spawned
// immediately and run for the life of the Client, matching the
// "channel is immortal" lifecycle. New itself does not block waiting
// for either to connect -- the workers' own reconnect loop will.
func New(opts ...Opt) (*Client, error) {
	c := defaultCfg()
	for _, o := range opts {
		o.apply(&c)
	}

	cmdTr, rdrTr, err := buildTransports(c)
	if err != nil {
		return nil, err
	}

	obs := c.observer()
	correlator := correlate.New(cmdTr.Send, c.logger)
	dispatcher := dispatch.New(cmdTr.Send, c.logger, obs)

	cl := &Client{
		cfg:          c,
		cmdTransport: cmdTr,
		rdrTransport: rdrTr,
		correlator:   correlator,
		dispatcher:   dispatcher,
		obs:          obs,
	}

	cl.cmdWorker = channel.New(metrics.ChannelCommand, cmdTr, cl.handleCommandFrame, c.incomingTimeout, c.reconnectDelay, 0, c.logger, obs)
	cl.rdrWorker = channel.New(metrics.ChannelReader, rdrTr, cl.handleReaderFrame, c.incomingTimeout, c.reconnectDelay, 0, c.logger, obs)

	cl.cmdWorker.Start()
	cl.rdrWorker.Start()

	return cl, nil
}

func buildTransports(c cfg) (cmd, rdr transport.Transport, err error) {
	if c.isTCP {
		cmdPort := c.cmdPort
		if cmdPort == 0 {
			cmdPort = transport.DefaultCommandPort
		}
		rdrPort := c.readerPort
		if rdrPort == 0 {
			rdrPort = transport.DefaultReaderPort
		}
		return transport.NewTCP(c.tcpHost, cmdPort), transport.NewTCP(c.tcpHost, rdrPort), nil
	}

	baseDir := transport.ResolveSocketDir(c.socketDir)
	cmd, err = transport.NewCommandUDS(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("kiosk: command socket: %w", err)
	}
	rdr, err = transport.NewReaderUDS(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("kiosk: reader socket: %w", err)
	}
	return cmd, rdr, nil
}

func (cl *Client) handleCommandFrame(frame []byte) {
	msg, err := wire.ParseMessage(frame)
	if err != nil {
		cl.cfg.logger.Warn("kiosk: malformed command frame", "err", err)
		return
	}
	if cl.correlator.HandleFrame(frame, msg) {
		return
	}
	cl.dispatcher.HandleCommandEvent(msg)
}

func (cl *Client) handleReaderFrame(frame []byte) {
	msg, err := wire.ParseMessage(frame)
	if err != nil {
		cl.cfg.logger.Warn("kiosk: malformed reader frame", "err", err)
		return
	}
	cl.dispatcher.HandleReaderEvent(msg)
}

// RegisterTransactionCompleteCallback replaces the transaction-complete
// callback. Passing nil disables it.
func (cl *Client) RegisterTransactionCompleteCallback(fn dispatch.TransactionCompleteFunc) {
	cl.dispatcher.OnTransactionComplete(fn)
}

// RegisterReaderMessageCallback replaces the reader-event callback.
// Passing nil disables it.
func (cl *Client) RegisterReaderMessageCallback(fn dispatch.ReaderMessageFunc) {
	cl.dispatcher.OnReaderMessage(fn)
}

// Close stops both channel workers and releases their transports. It
// blocks until both workers have exited, or until ctx is done, in
// which case it returns ctx.Err() without waiting further.
func (cl *Client) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		cl.cmdWorker.Stop()
		cl.rdrWorker.Stop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
