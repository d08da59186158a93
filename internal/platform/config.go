package platform

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// BridgeConfig holds the wire endpoints of the messaging bridge.
type BridgeConfig struct {
	// ReplyAddr is the bound request/reply endpoint.
	ReplyAddr string
	// PublishAddr is the bound publish/subscribe endpoint.
	PublishAddr string
	// RecvTimeout bounds each reply-socket receive so the worker can
	// observe a stop request between frames.
	RecvTimeout time.Duration
	// EventTick drives the standalone lifecycle event rotation; zero
	// disables it.
	EventTick time.Duration
}

// HTTPServerConfig holds ops HTTP server tunables.
type HTTPServerConfig struct {
	Enabled      bool
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AppConfig contains the configuration for the app.
type AppConfig struct {
	Bridge     *BridgeConfig
	HTTPSrvCfg *HTTPServerConfig
}

// LoadAppConfig loads application configuration from the environment
// (plus an optional .env file) and returns an AppConfig.
func LoadAppConfig() *AppConfig {
	_ = godotenv.Load()
	return &AppConfig{
		Bridge:     defaultBridgeCfg(),
		HTTPSrvCfg: defaultHTTPServerCfg(),
	}
}

func defaultBridgeCfg() *BridgeConfig {
	return &BridgeConfig{
		ReplyAddr:   envOr("CLASSBRIDGE_REPLY_ADDR", "tcp://127.0.0.1:5555"),
		PublishAddr: envOr("CLASSBRIDGE_PUBLISH_ADDR", "tcp://127.0.0.1:5556"),
		RecvTimeout: 100 * time.Millisecond,
		EventTick:   time.Duration(envIntOr("CLASSBRIDGE_EVENT_TICK_SECONDS", 30)) * time.Second,
	}
}

func defaultHTTPServerCfg() *HTTPServerConfig {
	return &HTTPServerConfig{
		Enabled:      envOr("CLASSBRIDGE_HTTP_ENABLED", "true") == "true",
		Port:         envIntOr("CLASSBRIDGE_HTTP_PORT", 8080),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  time.Minute,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
