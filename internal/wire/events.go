package wire

import (
	"encoding/json"
	"fmt"
)

const (
	MethodTransactionComplete = "TransactionComplete"
	MethodReaderMessageEvent  = "ReaderMessageEvent"
)

// AuthorizationDetails mirrors the nested object the kiosk sends on a
// TransactionComplete event. Transaction_Referance keeps the server's
// spelling since it is a wire field, not something this library invents.
type AuthorizationDetails struct {
	AmountAuthorized     float64 `json:"AmountAuthorized"`
	AmountRequested      float64 `json:"AmountRequested"`
	TransactionReferance string  `json:"Transaction_Referance"`
	PartialPan           string  `json:"PartialPan"`
	CardType             string  `json:"CardType"`
	CardID               string  `json:"Card_ID"`
	CardToken            string  `json:"CardToken"`
}

// TransactionCompleteParams is the decoded params object of a
// TransactionComplete event, before status-string translation.
type TransactionCompleteParams struct {
	Status               string               `json:"status"`
	ErrorCode            int                  `json:"errorCode"`
	ErrorDescription     string               `json:"errorDescription"`
	AuthorizationDetails AuthorizationDetails `json:"authorizationDetails"`
}

// ParseTransactionComplete decodes m's params as a TransactionComplete
// event. m.Method must already have been checked by the caller.
func ParseTransactionComplete(m Message) (TransactionCompleteParams, error) {
	var p TransactionCompleteParams
	if len(m.Params) == 0 {
		return p, fmt.Errorf("wire: TransactionComplete missing params")
	}
	if err := json.Unmarshal(m.Params, &p); err != nil {
		return p, fmt.Errorf("wire: TransactionComplete params: %w", err)
	}
	return p, nil
}

// ReaderMessageEventParams is the decoded params object of a
// ReaderMessageEvent notification on the reader channel.
type ReaderMessageEventParams struct {
	Index int    `json:"index"`
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// ParseReaderMessageEvent decodes m's params as a ReaderMessageEvent.
// An index outside 0..255 is a parsing error, matching the bounded
// byte-sized index the reader hardware actually reports.
func ParseReaderMessageEvent(m Message) (ReaderMessageEventParams, error) {
	var p ReaderMessageEventParams
	if m.Method != MethodReaderMessageEvent {
		return p, fmt.Errorf("wire: not a ReaderMessageEvent: method=%q", m.Method)
	}
	if len(m.Params) == 0 {
		return p, fmt.Errorf("wire: ReaderMessageEvent missing params")
	}
	if err := json.Unmarshal(m.Params, &p); err != nil {
		return p, fmt.Errorf("wire: ReaderMessageEvent params: %w", err)
	}
	if p.Index < 0 || p.Index > 255 {
		return p, fmt.Errorf("wire: ReaderMessageEvent index out of range: %d", p.Index)
	}
	return p, nil
}
