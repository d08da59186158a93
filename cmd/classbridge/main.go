package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"classbridge/internal/commands"
	"classbridge/internal/host"
	"classbridge/internal/messages"
	"classbridge/internal/platform"
	"classbridge/internal/protocol"
	"classbridge/internal/server"
	"classbridge/internal/transport"
	"classbridge/internal/transport/zmqsock"
)

func main() {
	platform.InitMetrics()
	platform.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appCfg := platform.LoadAppConfig()

	// Standalone host collaborators; an embedding application supplies
	// its own implementations instead.
	bus := host.NewBus()
	reg := commands.NewRegistry(commands.Deps{
		Schedule: &host.StaticSchedule{Lesson: messages.LessonSnapshot{State: "idle"}},
		Time:     host.SystemTime{},
		Notifier: &host.LogSink{},
	})

	schemas, err := protocol.NewSchemaRegistry(reg.Schemas())
	if err != nil {
		slog.Error("schema registry build failed", "err", err)
		os.Exit(1)
	}
	codec := protocol.NewCodec(schemas)

	bridgeCfg := appCfg.Bridge
	reply := server.NewReplyServer(func() (transport.ReplySocket, error) {
		return zmqsock.NewReplySocket(bridgeCfg.ReplyAddr, bridgeCfg.RecvTimeout)
	}, codec, reg)
	publish := server.NewPublishServer(func() (transport.Socket, error) {
		return zmqsock.NewPublishSocket(bridgeCfg.PublishAddr)
	})

	bridge := server.NewBridge(reply, publish, bus)
	if err := bridge.Start(); err != nil {
		slog.Error("bridge start failed", "err", err)
		os.Exit(1)
	}
	defer bridge.Dispose()
	slog.Info("bridge up", "reply", bridgeCfg.ReplyAddr, "publish", bridgeCfg.PublishAddr)

	// Standalone runs have no scheduling engine feeding the bus, so a
	// ticker plays through the lifecycle rotation for subscribers.
	go host.RunEventTicker(ctx, bus, bridgeCfg.EventTick)

	var httpErrCh <-chan error
	if appCfg.HTTPSrvCfg.Enabled {
		httpErrCh = platform.RunHTTPServer(ctx, *appCfg.HTTPSrvCfg)
	} else {
		httpErrCh = make(chan error)
	}

	select {
	case <-ctx.Done():
	case err := <-httpErrCh:
		if err != nil && err != context.Canceled {
			slog.Error("ops HTTP server error", "err", err)
		}
	}

	if err := bridge.Stop(); err != nil {
		slog.Error("bridge stop failed", "err", err)
	}
}
