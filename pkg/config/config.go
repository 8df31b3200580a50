package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Realtime RealtimeConfig
	Local    LocalAPIConfig
	Store    StoreConfig
	Redis    RedisConfig
	Session  SessionConfig
	Sync     SyncConfig
	Demo     DemoConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Realtime.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MESA_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"MESA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the client at the delivery platform's REST API.
type BackendConfig struct {
	BaseURL        string        `envconfig:"MESA_BACKEND_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"MESA_BACKEND_REQUEST_TIMEOUT" default:"10s"`
}

func (b BackendConfig) validate() error {
	if !strings.HasPrefix(b.BaseURL, "http://") && !strings.HasPrefix(b.BaseURL, "https://") {
		return fmt.Errorf("%s must be an http(s) url", EnvBackendBaseURL)
	}
	if b.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", EnvBackendRequestTimeout)
	}
	return nil
}

// RealtimeConfig points the client at the backend's websocket event stream.
type RealtimeConfig struct {
	URL          string        `envconfig:"MESA_REALTIME_URL" required:"true"`
	WriteTimeout time.Duration `envconfig:"MESA_REALTIME_WRITE_TIMEOUT" default:"10s"`
	PongTimeout  time.Duration `envconfig:"MESA_REALTIME_PONG_TIMEOUT" default:"60s"`
}

func (r RealtimeConfig) validate() error {
	if !strings.HasPrefix(r.URL, "ws://") && !strings.HasPrefix(r.URL, "wss://") {
		return fmt.Errorf("%s must be a ws(s) url", EnvRealtimeURL)
	}
	return nil
}

// LocalAPIConfig configures the HTTP surface the device UI talks to.
type LocalAPIConfig struct {
	Port string `envconfig:"MESA_LOCAL_PORT" default:"7380"`
}

// StoreConfig configures local sqlite persistence.
type StoreConfig struct {
	Path        string `envconfig:"MESA_STORE_PATH" default:"mesa-client.db"`
	AutoMigrate bool   `envconfig:"MESA_STORE_AUTO_MIGRATE" default:"true"`
}

// RedisConfig configures the optional menu snapshot hot cache. Leaving the URL
// empty disables it; sqlite remains the fallback of record.
type RedisConfig struct {
	URL          string        `envconfig:"MESA_REDIS_URL"`
	PoolSize     int           `envconfig:"MESA_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"MESA_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"MESA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESA_REDIS_WRITE_TIMEOUT" default:"5s"`
	SnapshotTTL  time.Duration `envconfig:"MESA_REDIS_SNAPSHOT_TTL" default:"24h"`
}

// Enabled reports whether the hot cache should be wired at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

// SessionConfig tunes session restore behavior.
type SessionConfig struct {
	ExpiryLeeway time.Duration `envconfig:"MESA_SESSION_EXPIRY_LEEWAY" default:"30s"`
}

// SyncConfig tunes the background menu reconciler.
type SyncConfig struct {
	Interval time.Duration `envconfig:"MESA_SYNC_INTERVAL" default:"45s"`
	Enabled  bool          `envconfig:"MESA_SYNC_ENABLED" default:"true"`
}

// DemoConfig gates the offline demo gateway. Never enable outside demos.
type DemoConfig struct {
	OfflineDemo bool `envconfig:"MESA_OFFLINE_DEMO" default:"false"`
}
