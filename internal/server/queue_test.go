package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSend records delivered payloads, optionally failing some.
type captureSend struct {
	mu      sync.Mutex
	got     []string
	failOn  map[string]bool
	explode atomic.Bool
}

func (c *captureSend) send(msg string) error {
	if c.explode.Load() {
		panic("send exploded")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failOn[msg] {
		return errors.New("wire down")
	}
	c.got = append(c.got, msg)
	return nil
}

func (c *captureSend) delivered() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.got))
	copy(out, c.got)
	return out
}

func TestQueueDeliversInOrder(t *testing.T) {
	capture := &captureSend{}
	q := NewPublishQueue(capture.send)
	require.NoError(t, q.Start())
	defer q.Dispose()

	want := []string{"OnClass", "OnBreakingTime", "OnAfterSchool", "CurrentTimeStateChanged"}
	for _, msg := range want {
		q.Enqueue(msg)
	}

	assert.Eventually(t, func() bool { return len(capture.delivered()) == len(want) },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, want, capture.delivered())
}

func TestQueuePreservesPerProducerOrder(t *testing.T) {
	capture := &captureSend{}
	q := NewPublishQueue(capture.send)
	require.NoError(t, q.Start())
	defer q.Dispose()

	const producers, perProducer = 4, 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Enqueue(fmt.Sprintf("p%d-%d", p, i))
			}
		}(p)
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return len(capture.delivered()) == producers*perProducer },
		2*time.Second, 5*time.Millisecond)

	// per-producer order must survive any interleaving
	for p := 0; p < producers; p++ {
		prefix := fmt.Sprintf("p%d-", p)
		next := 0
		for _, msg := range capture.delivered() {
			if strings.HasPrefix(msg, prefix) {
				assert.Equal(t, fmt.Sprintf("p%d-%d", p, next), msg)
				next++
			}
		}
		assert.Equal(t, perProducer, next)
	}
}

func TestQueueSendFailureDoesNotStopLaterSends(t *testing.T) {
	capture := &captureSend{failOn: map[string]bool{"bad": true}}
	q := NewPublishQueue(capture.send)
	require.NoError(t, q.Start())
	defer q.Dispose()

	q.Enqueue("first")
	q.Enqueue("bad")
	q.Enqueue("second")

	assert.Eventually(t, func() bool {
		got := capture.delivered()
		return len(got) == 2 && got[0] == "first" && got[1] == "second"
	}, time.Second, 5*time.Millisecond)
}

func TestQueueSurvivesSendPanic(t *testing.T) {
	capture := &captureSend{}
	capture.explode.Store(true)
	q := NewPublishQueue(capture.send)
	// keep the backoff path fast
	q.ctrl = shortGraces(q.ctrl)
	require.NoError(t, q.Start())
	defer q.Dispose()

	q.Enqueue("boom")
	time.Sleep(50 * time.Millisecond)
	capture.explode.Store(false)
	q.Enqueue("after")

	assert.Eventually(t, func() bool {
		got := capture.delivered()
		return len(got) == 1 && got[0] == "after"
	}, 2*time.Second, 5*time.Millisecond)
}

func TestQueueFlushesBufferedItemsOnStop(t *testing.T) {
	capture := &captureSend{}
	q := NewPublishQueue(capture.send)
	require.NoError(t, q.Start())

	for i := 0; i < 20; i++ {
		q.Enqueue(fmt.Sprintf("e%d", i))
	}
	require.NoError(t, q.Stop())

	got := capture.delivered()
	assert.Len(t, got, 20)
	assert.Equal(t, "e0", got[0])
	assert.Equal(t, "e19", got[19])
	q.Dispose()
}

func TestQueueEnqueueAfterDisposeIsDropped(t *testing.T) {
	capture := &captureSend{}
	q := NewPublishQueue(capture.send)
	require.NoError(t, q.Start())
	q.Dispose()

	// must not panic and must not deliver
	q.Enqueue("late")
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, capture.delivered())
}

func TestQueueStopWithoutStart(t *testing.T) {
	q := NewPublishQueue((&captureSend{}).send)
	require.NoError(t, q.Stop())
	q.Dispose()
	assert.ErrorIs(t, q.Start(), ErrDisposed)
}
