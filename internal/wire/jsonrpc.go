// Package wire implements the JSON-RPC 2.0 envelope used by the kiosk
// link: building tagged request payloads, extracting the bare numeric id
// needed for correlation, and decoding responses and events into a shape
// the rest of the client can inspect without re-parsing JSON at every
// layer.
//
// Request construction uses a typed value marshaled through
// encoding/json rather than the source library's vsnprintf templating,
// per the string-templated-JSON redesign: a typed request value cannot
// produce a malformed document no matter what an application passes as
// a field, e.g. a message line containing a quote.
package wire

import (
	"encoding/json"
	"fmt"
)

const Version = "2.0"

// Request is a single JSON-RPC 2.0 request. Params is any Go value that
// Marshal encodes as the params object, so each command builder can use
// its own params shape.
type Request struct {
	ID     int
	Method string
	Params any
}

type requestEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

// Marshal renders r as the bytes placed on the wire.
func (r Request) Marshal() ([]byte, error) {
	return json.Marshal(requestEnvelope{
		JSONRPC: Version,
		ID:      r.ID,
		Method:  r.Method,
		Params:  r.Params,
	})
}

// Error is the JSON-RPC error object, present on a response that the
// kiosk rejected.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Message is a decoded command-channel frame. It may be a response to a
// prior request (ID set, Result or Err present) or a server-initiated
// notification/event (Method set). The two are distinguished by the
// caller: a frame with a non-empty Method is always treated as an event
// even if it also happens to carry an id, matching how the original
// correlator only treats a frame as "the" response when an id is
// currently expected and matches.
type Message struct {
	ID     *int            `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Err    *Error          `json:"error"`
}

// ParseMessage decodes a raw frame read off the command or reader
// channel. It does not validate jsonrpc version strictly -- the kiosk
// has never been observed to omit or misstate it -- but any frame that
// isn't a JSON object is a parsing error, except a bare JSON null,
// which decodes to an empty Message.
func ParseMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("wire: decode message: %w", err)
	}
	return m, nil
}

// IsResponseTo reports whether m is a response whose id equals want. A
// frame carrying a method name is never a response, regardless of id,
// matching the command handler's event/response classification.
func (m Message) IsResponseTo(want int) bool {
	if m.Method != "" {
		return false
	}
	return m.ID != nil && *m.ID == want
}

// ResultBool decodes Result as a boolean. An error object on the
// message, or a non-bool result, both count as a negative result per
// the result-as-bool response shape.
func (m Message) ResultBool() (ok bool, negative bool) {
	if m.Err != nil {
		return false, true
	}
	if len(m.Result) == 0 {
		return false, true
	}
	var b bool
	if err := json.Unmarshal(m.Result, &b); err != nil {
		return false, true
	}
	return b, !b
}

// ResultString decodes Result as a string, failing if it is absent or
// not a JSON string.
func (m Message) ResultString() (string, error) {
	if len(m.Result) == 0 {
		return "", fmt.Errorf("wire: missing result field")
	}
	var s string
	if err := json.Unmarshal(m.Result, &s); err != nil {
		return "", fmt.Errorf("wire: result is not a string: %w", err)
	}
	return s, nil
}

// Ack builds the fixed acknowledgement frame sent back on the command
// channel for events that require one (TransactionComplete).
func Ack(id int) ([]byte, error) {
	return json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		Result  bool   `json:"result"`
		ID      int    `json:"id"`
	}{JSONRPC: Version, Result: true, ID: id})
}
