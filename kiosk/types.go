package kiosk

import "github.com/oti-tech/kiosk-client-go/dispatch"

// ReturnCode is the error enum every command-surface call returns,
// never an error value -- matching the source library's error-code
// contract rather than Go's usual idiom, since callers need to
// distinguish NegativeResponse (kiosk rejected the command) from
// CommError (transport failed) to decide whether retrying makes sense.
type ReturnCode int

const (
	Ok ReturnCode = iota
	GeneralError
	MemoryError
	ParsingError
	CommError
	NegativeResponse
)

func (r ReturnCode) String() string {
	switch r {
	case Ok:
		return "Ok"
	case GeneralError:
		return "GeneralError"
	case MemoryError:
		return "MemoryError"
	case ParsingError:
		return "ParsingError"
	case CommError:
		return "CommError"
	case NegativeResponse:
		return "NegativeResponse"
	default:
		return "Unknown"
	}
}

// Status is the kiosk's reported operating state, plus the two
// client-synthesized pseudo-states NoKiosk (transport disconnected)
// and Error (the status query failed or its reply didn't parse).
type Status int

const (
	StatusUnknownKioskState Status = iota
	StatusReady
	StatusPaymentTransaction
	StatusUpdate
	StatusUnconfirmed
	StatusNotReady
	StatusNoReader
	StatusNoTerminalID
	StatusNoKiosk
	StatusErr
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusPaymentTransaction:
		return "PaymentTransaction"
	case StatusUpdate:
		return "Update"
	case StatusUnconfirmed:
		return "Unconfirmed"
	case StatusNotReady:
		return "NotReady"
	case StatusNoReader:
		return "NoReader"
	case StatusNoTerminalID:
		return "NoTerminalId"
	case StatusNoKiosk:
		return "NoKiosk"
	case StatusErr:
		return "Error"
	default:
		return "Unknown"
	}
}

var statusFromWire = map[string]Status{
	"Ready":              StatusReady,
	"PaymentTransaction": StatusPaymentTransaction,
	"Update":             StatusUpdate,
	"Unconfirmed":        StatusUnconfirmed,
	"NotReady":           StatusNotReady,
	"NoReader":           StatusNoReader,
	"NoTerminalId":       StatusNoTerminalID,
}

// CancelResult is the three-way outcome of CancelTransaction.
type CancelResult int

const (
	CancelOk CancelResult = iota
	CancelNoTransaction
	CancelCannotCancel
)

// TransactionParams is the public payment parameters data model
// accepted by PreAuthorize and PayTransaction.
type TransactionParams struct {
	AmountCents int64
	FeeCents    int64
	CurrencyNum int
	ProductID   int
	TimeoutSec  int
	Continuous  bool
}

// TransactionComplete re-exports dispatch.TransactionComplete so
// callers registering a callback don't need to import the dispatch
// package directly.
type TransactionComplete = dispatch.TransactionComplete

// TransactionStatus re-exports dispatch's translated transaction
// status enum.
type TransactionStatus = dispatch.Status

const (
	TransactionStatusUnknown     = dispatch.StatusUnknown
	TransactionStatusOK          = dispatch.StatusOK
	TransactionStatusDeclined    = dispatch.StatusDeclined
	TransactionStatusError       = dispatch.StatusError
	TransactionStatusTimeout     = dispatch.StatusTimeout
	TransactionStatusCancelled   = dispatch.StatusCancelled
	TransactionStatusVoided      = dispatch.StatusVoided
	TransactionStatusLocalMifare = dispatch.StatusLocalMifare
)
