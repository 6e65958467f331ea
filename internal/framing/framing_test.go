package framing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeedSingleReadSingleMessage(t *testing.T) {
	a := New(0)
	msgs, err := a.Feed([]byte(`{"jsonrpc":"2.0","result":"Ready","id":1}`))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.JSONEq(t, `{"jsonrpc":"2.0","result":"Ready","id":1}`, string(msgs[0]))
}

func TestFeedMessageSplitAcrossReads(t *testing.T) {
	a := New(0)
	whole := `{"jsonrpc":"2.0","result":"Ready","id":1}`
	msgs, err := a.Feed([]byte(whole[:10]))
	require.NoError(t, err)
	require.Empty(t, msgs)

	msgs, err = a.Feed([]byte(whole[10:]))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.JSONEq(t, whole, string(msgs[0]))
}

func TestFeedTwoMessagesInOneRead(t *testing.T) {
	a := New(0)
	combined := `{"id":1,"result":true}{"id":2,"result":false}`
	msgs, err := a.Feed([]byte(combined))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.JSONEq(t, `{"id":1,"result":true}`, string(msgs[0]))
	require.JSONEq(t, `{"id":2,"result":false}`, string(msgs[1]))
}

func TestFeedBraceInsideString(t *testing.T) {
	a := New(0)
	raw := `{"method":"ShowMessage","params":{"strLine1":"a{b}c"},"id":2}`
	msgs, err := a.Feed([]byte(raw))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.JSONEq(t, raw, string(msgs[0]))
}

func TestFeedEscapedQuoteInsideString(t *testing.T) {
	a := New(0)
	raw := `{"params":{"strLine1":"say \"hi\""},"id":2}`
	msgs, err := a.Feed([]byte(raw))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.JSONEq(t, raw, string(msgs[0]))
}

func TestFeedTooLarge(t *testing.T) {
	a := New(8)
	_, err := a.Feed([]byte(`{"abcdefghij":1}`))
	require.Error(t, err)
	var tooLarge *ErrTooLarge
	require.ErrorAs(t, err, &tooLarge)
}

func TestFeedRecoversAfterTooLarge(t *testing.T) {
	a := New(64)
	_, err := a.Feed([]byte(`{"x":"` + string(make([]byte, 100)) + `"}`))
	require.Error(t, err)

	msgs, err := a.Feed([]byte(`{"id":1,"result":true}`))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestFeedDiscardsLeadingGarbage(t *testing.T) {
	a := New(0)
	msgs, err := a.Feed([]byte("\n  " + `{"id":1,"result":true}`))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}
