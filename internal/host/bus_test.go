package host

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusSubscribeAndEmit(t *testing.T) {
	bus := NewBus()
	var classStarts, breaks int

	bus.Subscribe(EventClassStart, func() { classStarts++ })
	bus.Subscribe(EventBreakStart, func() { breaks++ })

	bus.Emit(EventClassStart)
	bus.Emit(EventClassStart)
	bus.Emit(EventBreakStart)

	assert.Equal(t, 2, classStarts)
	assert.Equal(t, 1, breaks)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	var calls int
	sub := bus.Subscribe(EventAfterSchool, func() { calls++ })

	bus.Emit(EventAfterSchool)
	bus.Unsubscribe(sub)
	bus.Emit(EventAfterSchool)

	assert.Equal(t, 1, calls)
}

func TestBusMultipleHandlersSameKind(t *testing.T) {
	bus := NewBus()
	var calls int
	bus.Subscribe(EventTimeStateChanged, func() { calls++ })
	bus.Subscribe(EventTimeStateChanged, func() { calls++ })

	bus.Emit(EventTimeStateChanged)
	assert.Equal(t, 2, calls)
}

func TestBusConcurrentEmitters(t *testing.T) {
	bus := NewBus()
	var calls atomic.Int64
	bus.Subscribe(EventClassStart, func() { calls.Add(1) })

	const emitters, perEmitter = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < emitters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perEmitter; j++ {
				bus.Emit(EventClassStart)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(emitters*perEmitter), calls.Load())
}

func TestBusHandlerMayUnsubscribeItself(t *testing.T) {
	bus := NewBus()
	var calls int
	var sub Subscription
	sub = bus.Subscribe(EventClassStart, func() {
		calls++
		bus.Unsubscribe(sub)
	})

	bus.Emit(EventClassStart)
	bus.Emit(EventClassStart)
	assert.Equal(t, 1, calls)
}
