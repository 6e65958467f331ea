package correlate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/wire"
)

func TestSendReceiveMatchesResponse(t *testing.T) {
	var sent []byte
	c := New(func(payload []byte) error {
		sent = payload
		return nil
	}, klog.Nop())

	go func() {
		// give SendReceive time to register its expectation
		time.Sleep(10 * time.Millisecond)
		msg, err := wire.ParseMessage([]byte(`{"jsonrpc":"2.0","result":"Ready","id":1}`))
		require.NoError(t, err)
		ok := c.HandleFrame([]byte(`{"jsonrpc":"2.0","result":"Ready","id":1}`), msg)
		require.True(t, ok)
	}()

	resp, err := c.SendReceive(context.Background(), 1, []byte(`{"id":1,"method":"GetStatus"}`), time.Second)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","result":"Ready","id":1}`, string(resp))
	require.NotNil(t, sent)
}

func TestSendReceiveTimeout(t *testing.T) {
	c := New(func([]byte) error { return nil }, klog.Nop())
	_, err := c.SendReceive(context.Background(), 1, []byte(`{}`), 20*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestHandleFrameIgnoresUnexpectedID(t *testing.T) {
	c := New(func([]byte) error { return nil }, klog.Nop())
	// a caller is waiting for id 1; the frame carries id 5
	c.expected = 1
	c.haveExpect = true
	c.rendezvous = make(chan []byte, 1)
	msg, err := wire.ParseMessage([]byte(`{"jsonrpc":"2.0","result":true,"id":5}`))
	require.NoError(t, err)
	require.False(t, c.HandleFrame(nil, msg))
}

func TestHandleFrameIgnoresWhenNoOneIsWaiting(t *testing.T) {
	c := New(func([]byte) error { return nil }, klog.Nop())
	msg, err := wire.ParseMessage([]byte(`{"jsonrpc":"2.0","result":true,"id":1}`))
	require.NoError(t, err)
	require.False(t, c.HandleFrame(nil, msg))
}

func TestSendReceiveSerializesConcurrentCallers(t *testing.T) {
	var mu sync.Mutex
	var order []int
	c := New(func([]byte) error { return nil }, klog.Nop())

	start := time.Now()
	var wg sync.WaitGroup
	for i := 1; i <= 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = c.SendReceive(context.Background(), id, []byte(`{}`), 30*time.Millisecond)
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	require.Len(t, order, 2, "both callers must eventually complete, never racing the slot")
	require.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond, "the two 30ms waits must run one after the other")
}
