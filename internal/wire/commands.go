package wire

// Request ids are fixed per method, matching the wire table the kiosk
// server expects. PayTransaction uses 7 rather than reusing
// PreAuthorize's 6 -- see DESIGN.md decision 1. ConfirmTransaction and
// VoidTransaction keep 8 and 9; CancelTransaction is 10.
const (
	IDGetStatus          = 1
	IDShowMessage        = 2
	IDGetKioskID         = 3
	IDGetVersionKiosk    = 4
	IDGetVersionReader   = 5
	IDPreAuthorize       = 6
	IDPayTransaction     = 7
	IDConfirmTransaction = 8
	IDVoidTransaction    = 9
	IDCancelTransaction  = 10
)

const (
	MethodGetStatus          = "GetStatus"
	MethodShowMessage        = "ShowMessage"
	MethodGetKioskID         = "GetKioskID"
	MethodGetVersion         = "GetVersion"
	MethodPreAuthorize       = "PreAuthorize"
	MethodPayTransaction     = "PayTransaction"
	MethodConfirmTransaction = "ConfirmTransaction"
	MethodVoidTransaction    = "VoidTransaction"
	MethodCancelTransaction  = "CancelTransaction"
)

// GetStatus builds the fixed, parameterless status query.
func GetStatus() Request {
	return Request{ID: IDGetStatus, Method: MethodGetStatus, Params: struct{}{}}
}

// ShowMessage builds a two-line message display request. The params
// are marshaled through encoding/json, so a line containing quotes or
// control characters cannot escape the params object the way it could
// with the source's vsnprintf-built request strings.
func ShowMessage(line1, line2 string) Request {
	return Request{
		ID:     IDShowMessage,
		Method: MethodShowMessage,
		Params: struct {
			StrLine1 string `json:"strLine1"`
			StrLine2 string `json:"strLine2"`
		}{line1, line2},
	}
}

// GetKioskID builds the fixed kiosk identification request.
func GetKioskID() Request {
	return Request{ID: IDGetKioskID, Method: MethodGetKioskID, Params: struct{}{}}
}

// GetVersionKiosk requests the otiKiosk component version.
func GetVersionKiosk() Request {
	return Request{
		ID:     IDGetVersionKiosk,
		Method: MethodGetVersion,
		Params: struct {
			SoftwareComponent string `json:"SoftwareComponent"`
		}{"otiKiosk"},
	}
}

// GetVersionReader requests the card reader firmware version.
func GetVersionReader() Request {
	return Request{
		ID:     IDGetVersionReader,
		Method: MethodGetVersion,
		Params: struct {
			SoftwareComponent string `json:"SoftwareComponent"`
		}{"Reader"},
	}
}

// TransactionParams is the shared params shape of PreAuthorize and
// PayTransaction.
type TransactionParams struct {
	AmountCents int64
	FeeCents    int64
	CurrencyNum int
	ProductID   int
	TimeoutSec  int
	Continuous  bool
}

type transactionParamsWire struct {
	Amount     int64 `json:"amount"`
	Currency   int   `json:"currency"`
	Timeout    int   `json:"timeout"`
	Fee        int64 `json:"fee"`
	ProductID  int   `json:"productID"`
	Continuous bool  `json:"continuous"`
}

func (p TransactionParams) wire() transactionParamsWire {
	return transactionParamsWire{
		Amount:     p.AmountCents,
		Currency:   p.CurrencyNum,
		Timeout:    p.TimeoutSec,
		Fee:        p.FeeCents,
		ProductID:  p.ProductID,
		Continuous: p.Continuous,
	}
}

// PreAuthorize builds a fund-reservation request against id 6.
func PreAuthorize(p TransactionParams) Request {
	return Request{ID: IDPreAuthorize, Method: MethodPreAuthorize, Params: p.wire()}
}

// PayTransaction builds a capture request against id 7 (see DESIGN.md
// decision 1 -- the source reuses id 6 here, which is a known defect).
func PayTransaction(p TransactionParams) Request {
	return Request{ID: IDPayTransaction, Method: MethodPayTransaction, Params: p.wire()}
}

// ConfirmTransaction confirms a prior pre-authorization.
func ConfirmTransaction(amountCents, feeCents int64, productID int, transactionReference string) Request {
	return Request{
		ID:     IDConfirmTransaction,
		Method: MethodConfirmTransaction,
		Params: struct {
			Amount               int64  `json:"amount"`
			Fee                  int64  `json:"fee"`
			ProductID            int    `json:"productID"`
			TransactionReferance string `json:"transaction_Reference"`
		}{amountCents, feeCents, productID, transactionReference},
	}
}

// VoidTransaction releases a prior pre-authorization.
func VoidTransaction(transactionReference string) Request {
	return Request{
		ID:     IDVoidTransaction,
		Method: MethodVoidTransaction,
		Params: struct {
			TransactionReferance string `json:"transaction_Reference"`
		}{transactionReference},
	}
}

// CancelTransaction builds the fixed, parameterless cancel request.
func CancelTransaction() Request {
	return Request{ID: IDCancelTransaction, Method: MethodCancelTransaction, Params: struct{}{}}
}
