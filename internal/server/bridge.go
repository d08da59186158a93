package server

import (
	"errors"
	"log/slog"
	"sync"

	"classbridge/internal/host"
	"classbridge/internal/messages"
	"classbridge/internal/platform"
)

// hostEvents maps each host lifecycle event to the name broadcast on the
// publish socket.
var hostEvents = []struct {
	kind host.EventKind
	name string
}{
	{host.EventClassStart, messages.EventOnClass},
	{host.EventBreakStart, messages.EventOnBreakingTime},
	{host.EventAfterSchool, messages.EventOnAfterSchool},
	{host.EventTimeStateChanged, messages.EventCurrentTimeStateChanged},
}

// Bridge composes the reply and publish workers and ties them to the host
// event feed. Start order: reply, publish, then event subscriptions;
// Stop reverses it so no event fires into a stopped worker.
type Bridge struct {
	reply   *ReplyServer
	publish *PublishServer
	bus     host.EventBus
	log     *slog.Logger

	mu   sync.Mutex
	subs []host.Subscription
}

func NewBridge(reply *ReplyServer, publish *PublishServer, bus host.EventBus) *Bridge {
	platform.InitMetrics()
	return &Bridge{
		reply:   reply,
		publish: publish,
		bus:     bus,
		log:     slog.Default().With("component", "bridge"),
	}
}

func (b *Bridge) Start() error {
	if err := b.reply.Start(); err != nil {
		return err
	}
	if err := b.publish.Start(); err != nil {
		_ = b.reply.Stop()
		return err
	}
	b.subscribe()
	b.log.Info("bridge started")
	return nil
}

func (b *Bridge) subscribe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ev := range hostEvents {
		name := ev.name
		b.subs = append(b.subs, b.bus.Subscribe(ev.kind, func() {
			b.publish.Publish(name)
		}))
	}
}

func (b *Bridge) unsubscribe() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, sub := range subs {
		b.bus.Unsubscribe(sub)
	}
}

func (b *Bridge) Stop() error {
	b.unsubscribe()
	err := errors.Join(b.reply.Stop(), b.publish.Stop())
	if err == nil {
		b.log.Info("bridge stopped")
	}
	return err
}

// Dispose tears the bridge down permanently. Safe after Stop and safe to
// call repeatedly.
func (b *Bridge) Dispose() {
	b.unsubscribe()
	b.reply.Dispose()
	b.publish.Dispose()
}
