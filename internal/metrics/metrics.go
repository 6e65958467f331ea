// Package metrics exposes the Prometheus metrics collected by the kiosk
// client. It mirrors the observer pattern used by this codebase's sibling
// projects: the caller owns a registry, this package registers a fixed set
// of collectors onto it, and returns thin recorder methods that the rest of
// the client calls without depending on Prometheus types directly.
//
// Serving the registry over HTTP is the embedding application's job, not
// this library's -- the kiosk server itself is out of scope here too.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Channel names used as the "channel" label value.
const (
	ChannelCommand = "command"
	ChannelReader  = "reader"
)

// Observer exports kiosk client metrics to Prometheus.
type Observer struct {
	connected        *prometheus.GaugeVec
	reconnectsTotal  *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	commandsTotal    *prometheus.CounterVec
	eventsTotal      *prometheus.CounterVec
	callbackDuration *prometheus.HistogramVec
}

// NewObserver registers the kiosk client's collectors on reg and returns
// the recorder. reg must not be nil.
func NewObserver(reg *prometheus.Registry) *Observer {
	o := &Observer{
		connected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "kiosk_channel_connected",
			Help: "Whether a channel's transport is currently connected (1) or not (0).",
		}, []string{"channel"}),
		reconnectsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_reconnects_total",
			Help: "Reconnect attempts made by a channel worker.",
		}, []string{"channel"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_command_duration_seconds",
			Help:    "Latency of command-surface calls, from send to parsed response.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "result"}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_commands_total",
			Help: "Command-surface calls by method and result.",
		}, []string{"method", "result"}),
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kiosk_events_total",
			Help: "Server-initiated events observed, by method. Unrecognized events are labeled dropped.",
		}, []string{"method"}),
		callbackDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kiosk_callback_duration_seconds",
			Help:    "Time spent inside an application callback, observed from the worker goroutine.",
			Buckets: prometheus.DefBuckets,
		}, []string{"callback"}),
	}
	reg.MustRegister(
		o.connected,
		o.reconnectsTotal,
		o.commandDuration,
		o.commandsTotal,
		o.eventsTotal,
		o.callbackDuration,
	)
	return o
}

// Nop returns an Observer that records nothing, backed by an unregistered
// throwaway registry -- useful for callers that don't want metrics wired.
func Nop() *Observer {
	return NewObserver(prometheus.NewRegistry())
}

func (o *Observer) SetConnected(channel string, connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	o.connected.WithLabelValues(channel).Set(v)
}

func (o *Observer) Reconnect(channel string) {
	o.reconnectsTotal.WithLabelValues(channel).Inc()
}

func (o *Observer) Command(method, result string, d time.Duration) {
	o.commandsTotal.WithLabelValues(method, result).Inc()
	o.commandDuration.WithLabelValues(method, result).Observe(d.Seconds())
}

func (o *Observer) Event(method string) {
	o.eventsTotal.WithLabelValues(method).Inc()
}

func (o *Observer) Callback(name string, d time.Duration) {
	o.callbackDuration.WithLabelValues(name).Observe(d.Seconds())
}
