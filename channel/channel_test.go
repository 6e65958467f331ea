package channel

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oti-tech/kiosk-client-go/internal/klog"
	"github.com/oti-tech/kiosk-client-go/internal/metrics"
	"github.com/oti-tech/kiosk-client-go/transport"
)

// fakeTransport is a minimal in-memory Transport double: the first
// Connect calls return the errors in connectErrs, in order, every later
// call succeeds, and Receive
// yields from a queue of canned chunks/errors fed by the test.
type fakeTransport struct {
	mu          sync.Mutex
	connectErrs []error
	connectN    int
	connectAt   []time.Time
	recvQueue   []recvResult
	recvIdx     int
	closed      bool
}

type recvResult struct {
	data []byte
	err  error
}

func (f *fakeTransport) Connect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectAt = append(f.connectAt, time.Now())
	if f.connectN < len(f.connectErrs) {
		err := f.connectErrs[f.connectN]
		f.connectN++
		return err
	}
	f.connectN++
	return nil
}

func (f *fakeTransport) Receive(time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recvIdx >= len(f.recvQueue) {
		return nil, transport.ErrTimeout
	}
	r := f.recvQueue[f.recvIdx]
	f.recvIdx++
	return r.data, r.err
}

func (f *fakeTransport) connectTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.connectAt))
	copy(out, f.connectAt)
	return out
}

func (f *fakeTransport) Send([]byte) error { return nil }
func (f *fakeTransport) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}
func (f *fakeTransport) Addr() string { return "fake" }

func TestWorkerDeliversFramesToHandler(t *testing.T) {
	ft := &fakeTransport{
		recvQueue: []recvResult{
			{data: []byte(`{"id":1,"result":"Ready"}`)},
		},
	}
	var got [][]byte
	var mu sync.Mutex
	handler := func(frame []byte) {
		mu.Lock()
		got = append(got, frame)
		mu.Unlock()
	}

	w := New("command", ft, handler, 50*time.Millisecond, 0, 0, klog.Nop(), metrics.Nop())
	w.Start()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestWorkerReconnectsOnClose(t *testing.T) {
	ft := &fakeTransport{
		recvQueue: []recvResult{
			{err: transport.ErrClosed},
			{data: []byte(`{"id":1,"result":true}`)},
		},
	}
	var count int
	var mu sync.Mutex
	handler := func([]byte) {
		mu.Lock()
		count++
		mu.Unlock()
	}

	w := New("command", ft, handler, 10*time.Millisecond, 0, 0, klog.Nop(), metrics.Nop())
	w.Start()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 3*time.Second, 10*time.Millisecond)
	w.Stop()
}

// TestWorkerSleepsBeforeReconnectAfterDrop pins the reconnect-delay
// policy for a connection that drops after connecting successfully
// (as opposed to a failed Connect call): the worker must still sleep
// reconnectDelay before dialing again, not spin straight back into
// Connect.
func TestWorkerSleepsBeforeReconnectAfterDrop(t *testing.T) {
	const delay = 200 * time.Millisecond
	ft := &fakeTransport{
		recvQueue: []recvResult{
			{err: transport.ErrClosed},
			{err: transport.ErrTimeout},
		},
	}

	w := New("command", ft, func([]byte) {}, 10*time.Millisecond, delay, 0, klog.Nop(), metrics.Nop())
	w.Start()
	t.Cleanup(w.Stop)

	require.Eventually(t, func() bool {
		return len(ft.connectTimes()) >= 2
	}, 3*time.Second, 10*time.Millisecond)

	times := ft.connectTimes()
	gap := times[1].Sub(times[0])
	require.GreaterOrEqual(t, gap, delay, "worker reconnected without sleeping reconnectDelay after the connection dropped")
}

func TestWorkerStopReturnsPromptly(t *testing.T) {
	ft := &fakeTransport{}
	w := New("reader", ft, func([]byte) {}, 10*time.Millisecond, 0, 0, klog.Nop(), metrics.Nop())
	w.Start()
	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return in time")
	}
}
