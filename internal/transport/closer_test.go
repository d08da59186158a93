package transport

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseGuardIdleCloseReleasesImmediately(t *testing.T) {
	var released atomic.Int32
	g := NewCloseGuard(func() error {
		released.Add(1)
		return nil
	})

	require.NoError(t, g.Close())
	assert.Equal(t, int32(1), released.Load())
}

func TestCloseGuardCloseIsIdempotent(t *testing.T) {
	var released atomic.Int32
	g := NewCloseGuard(func() error {
		released.Add(1)
		return errors.New("already gone")
	})

	assert.Error(t, g.Close())
	assert.NoError(t, g.Close())
	assert.Equal(t, int32(1), released.Load())
}

func TestCloseGuardDefersReleaseToInFlightOperation(t *testing.T) {
	var released atomic.Int32
	g := NewCloseGuard(func() error {
		released.Add(1)
		return nil
	})

	require.NoError(t, g.Acquire())
	require.NoError(t, g.Close())
	assert.Equal(t, int32(0), released.Load(), "release must wait for the operation to finish")

	require.NoError(t, g.Release())
	assert.Equal(t, int32(1), released.Load())
}

func TestCloseGuardAcquireAfterClose(t *testing.T) {
	g := NewCloseGuard(func() error { return nil })
	require.NoError(t, g.Close())
	assert.ErrorIs(t, g.Acquire(), ErrClosed)
}

func TestCloseGuardConcurrentCloseDuringOperation(t *testing.T) {
	var released atomic.Int32
	g := NewCloseGuard(func() error {
		released.Add(1)
		return nil
	})

	require.NoError(t, g.Acquire())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = g.Close()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close must not block on an in-flight operation")
	}
	require.NoError(t, g.Release())
	assert.Equal(t, int32(1), released.Load())
	assert.ErrorIs(t, g.Acquire(), ErrClosed)
}
