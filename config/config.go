package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

type Server struct {
	ListenAddr     string   `env:"LISTEN_ADDR, default=0.0.0.0:8080"`
	StaticDir      string   `env:"STATIC_DIR, default=./web"`
	OfflinePage    string   `env:"OFFLINE_PAGE, default=offline.html"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS, default=http://localhost:5173,http://localhost:8080"`
	LogLevel       string   `env:"LOG_LEVEL, default=info"`

	// Longest report range accepted, in days.
	MaxRangeDays int `env:"MAX_RANGE_DAYS, default=366"`

	// Enables the reset endpoint.
	Dev bool `env:"DEV, default=false"`
}

type Storage struct {
	Backend     string `env:"BACKEND, default=sqlite"`
	DBPath      string `env:"DB_PATH, default=punchclock.db"`
	DatabaseKey string `env:"DATABASE_KEY, default=punchclock:employees"`
	ActiveKey   string `env:"ACTIVE_KEY, default=punchclock:active"`
}

type Redis struct {
	Addr     string `env:"ADDR, default=localhost:6379"`
	Password string `env:"PASS"`
	DB       int    `env:"DB, default=0"`
	Prefix   string `env:"PREFIX"`
}

func (cfg Redis) ToURL() string {
	u := &url.URL{
		Scheme: "redis",
		Host:   cfg.Addr,
		Path:   fmt.Sprintf("/%d", cfg.DB),
	}

	if cfg.Password != "" {
		u.User = url.UserPassword("", cfg.Password)
	}

	return u.String()
}

type Config struct {
	Server  Server  `env:",prefix=PUNCHCLOCK_SERVER_"`
	Storage Storage `env:",prefix=PUNCHCLOCK_STORAGE_"`
	Redis   Redis   `env:",prefix=PUNCHCLOCK_REDIS_"`
}

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	})
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if c.Server.MaxRangeDays < 1 {
		return fmt.Errorf("max range days must be positive, got %d", c.Server.MaxRangeDays)
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
		return nil
	}
	return fmt.Errorf("unknown storage backend %q (want memory, sqlite or redis)", c.Storage.Backend)
}
