package kiosk

import (
	"context"
	"time"

	"github.com/oti-tech/kiosk-client-go/internal/wire"
)

// sendCommand marshals req, round-trips it through the correlator with
// the client's configured command timeout, and returns the decoded
// response message. Any transport or timeout failure is reported as
// CommError; a malformed request is GeneralError.
func (cl *Client) sendCommand(ctx context.Context, req wire.Request) (wire.Message, ReturnCode) {
	payload, err := req.Marshal()
	if err != nil {
		return wire.Message{}, GeneralError
	}

	start := time.Now()
	raw, err := cl.correlator.SendReceive(ctx, req.ID, payload, cl.cfg.commandTimeout)
	result := "ok"
	defer func() {
		cl.obs.Command(req.Method, result, time.Since(start))
	}()
	if err != nil {
		result = "comm_error"
		return wire.Message{}, CommError
	}

	msg, err := wire.ParseMessage(raw)
	if err != nil {
		result = "parsing_error"
		return wire.Message{}, ParsingError
	}
	if !msg.IsResponseTo(req.ID) {
		result = "parsing_error"
		return wire.Message{}, ParsingError
	}
	return msg, Ok
}

// resultAsBool implements the "result-as-bool" response shape shared
// by ShowMessage, PreAuthorize, PayTransaction, ConfirmTransaction and
// VoidTransaction: true maps to Ok, false or an error object maps to
// NegativeResponse.
func resultAsBool(msg wire.Message) ReturnCode {
	ok, negative := msg.ResultBool()
	if negative {
		return NegativeResponse
	}
	if ok {
		return Ok
	}
	return NegativeResponse
}

// GetStatus queries the kiosk's current operating status. While the
// command channel is disconnected, the result is always NoKiosk
// regardless of the last known state.
func (cl *Client) GetStatus(ctx context.Context) (Status, ReturnCode) {
	if !cl.cmdWorker.Connected() {
		return StatusNoKiosk, CommError
	}

	msg, rc := cl.sendCommand(ctx, wire.GetStatus())
	if rc != Ok {
		return StatusErr, rc
	}
	s, err := msg.ResultString()
	if err != nil {
		return StatusErr, ParsingError
	}
	status, ok := statusFromWire[s]
	if !ok {
		return StatusErr, ParsingError
	}
	return status, Ok
}

// ShowMessage displays two lines of text on the kiosk.
func (cl *Client) ShowMessage(ctx context.Context, line1, line2 string) ReturnCode {
	msg, rc := cl.sendCommand(ctx, wire.ShowMessage(line1, line2))
	if rc != Ok {
		return rc
	}
	return resultAsBool(msg)
}

// GetKioskID returns the kiosk's identification string.
func (cl *Client) GetKioskID(ctx context.Context) (string, ReturnCode) {
	msg, rc := cl.sendCommand(ctx, wire.GetKioskID())
	if rc != Ok {
		return "", rc
	}
	s, err := msg.ResultString()
	if err != nil {
		return "", ParsingError
	}
	return s, Ok
}

// GetKioskVersion returns the otiKiosk software component's version.
func (cl *Client) GetKioskVersion(ctx context.Context) (string, ReturnCode) {
	return cl.getVersion(ctx, wire.GetVersionKiosk())
}

// GetReaderVersion returns the card reader firmware version.
func (cl *Client) GetReaderVersion(ctx context.Context) (string, ReturnCode) {
	return cl.getVersion(ctx, wire.GetVersionReader())
}

func (cl *Client) getVersion(ctx context.Context, req wire.Request) (string, ReturnCode) {
	msg, rc := cl.sendCommand(ctx, req)
	if rc != Ok {
		return "", rc
	}
	s, err := msg.ResultString()
	if err != nil {
		return "", ParsingError
	}
	return s, Ok
}

// PreAuthorize reserves funds on a card without capturing them.
func (cl *Client) PreAuthorize(ctx context.Context, p TransactionParams) ReturnCode {
	msg, rc := cl.sendCommand(ctx, wire.PreAuthorize(wire.TransactionParams(p)))
	if rc != Ok {
		return rc
	}
	return resultAsBool(msg)
}

// PayTransaction captures a payment directly (uses request id 7, not
// the source library's colliding id 6 -- see DESIGN.md decision 1).
func (cl *Client) PayTransaction(ctx context.Context, p TransactionParams) ReturnCode {
	msg, rc := cl.sendCommand(ctx, wire.PayTransaction(wire.TransactionParams(p)))
	if rc != Ok {
		return rc
	}
	return resultAsBool(msg)
}

// ConfirmTransaction confirms a prior pre-authorization for capture.
func (cl *Client) ConfirmTransaction(ctx context.Context, amountCents, feeCents int64, productID int, transactionReference string) ReturnCode {
	msg, rc := cl.sendCommand(ctx, wire.ConfirmTransaction(amountCents, feeCents, productID, transactionReference))
	if rc != Ok {
		return rc
	}
	return resultAsBool(msg)
}

// VoidTransaction releases a prior pre-authorization without capture.
func (cl *Client) VoidTransaction(ctx context.Context, transactionReference string) ReturnCode {
	msg, rc := cl.sendCommand(ctx, wire.VoidTransaction(transactionReference))
	if rc != Ok {
		return rc
	}
	return resultAsBool(msg)
}

// CancelTransaction cancels the current in-progress transaction, if
// any. The three-way result mapping corrects the source library's
// strcmp bug (see DESIGN.md decision 2): "Ok" and "NoTransaction" both
// map to Ok, "CannotCancel" maps to NegativeResponse.
func (cl *Client) CancelTransaction(ctx context.Context) (CancelResult, ReturnCode) {
	msg, rc := cl.sendCommand(ctx, wire.CancelTransaction())
	if rc != Ok {
		return CancelOk, rc
	}
	s, err := msg.ResultString()
	if err != nil {
		return CancelOk, ParsingError
	}
	switch s {
	case "Ok":
		return CancelOk, Ok
	case "NoTransaction":
		return CancelNoTransaction, Ok
	case "CannotCancel":
		return CancelCannotCancel, NegativeResponse
	default:
		return CancelOk, ParsingError
	}
}

