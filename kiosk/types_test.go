package kiosk

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func TestStatusRoundTripsFromWireStrings(t *testing.T) {
	cases := []struct {
		wire string
		want Status
	}{
		{"Ready", StatusReady},
		{"PaymentTransaction", StatusPaymentTransaction},
		{"Update", StatusUpdate},
		{"Unconfirmed", StatusUnconfirmed},
		{"NotReady", StatusNotReady},
		{"NoReader", StatusNoReader},
		{"NoTerminalId", StatusNoTerminalID},
	}
	for _, tc := range cases {
		t.Run(tc.wire, func(t *testing.T) {
			got, ok := statusFromWire[tc.wire]
			if !ok || got != tc.want {
				t.Fatalf("status mapping mismatch for %q: %s", tc.wire, spew.Sdump(struct {
					Wire string
					Want Status
					Got  Status
					OK   bool
				}{tc.wire, tc.want, got, ok}))
			}
		})
	}
}

func TestReturnCodeStringsAreStable(t *testing.T) {
	codes := []ReturnCode{Ok, GeneralError, MemoryError, ParsingError, CommError, NegativeResponse}
	seen := map[string]bool{}
	for _, c := range codes {
		s := c.String()
		require.NotEqual(t, "Unknown", s)
		require.False(t, seen[s], "duplicate ReturnCode string %q", s)
		seen[s] = true
	}
}
