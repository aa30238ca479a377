package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewLoader),
	fx.Provide(func(l *Loader) Config { return l.Config() }),
)

// Config holds all application configuration.
type Config struct {
	AppName     string
	Environment string
	LogLevel    string

	HTTP     HTTPConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Format   FormatConfig
	Tracing  TracingConfig
}

type HTTPConfig struct {
	Port int
}

type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled        bool
	Addr           string
	Password       string
	DB             int
	CustomFieldTTL time.Duration
}

type FormatConfig struct {
	DefaultLocale string
	// ExplicitCurrencySymbol renders US$ / NZ$ style symbols regardless of locale.
	ExplicitCurrencySymbol bool
}

// TracingConfig enables OTLP/HTTP span export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string
	SampleRatio float64
}

var ErrUnsupportedDriver = errors.New("unsupported_database_driver")

// Loader owns the viper instance so config file changes can be observed after start.
type Loader struct {
	v *viper.Viper

	mu  sync.RWMutex
	cfg Config
}

// NewLoader reads .env (if present), the optional CONFIG_FILE and the environment.
// Environment variables take precedence over the file.
func NewLoader() (*Loader, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := strings.TrimSpace(v.GetString("config_file")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return &Loader{v: v, cfg: cfg}, nil
}

func (l *Loader) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// OnChange calls fn with the reloaded config whenever the config file changes.
// It is a no-op when no config file is in use.
func (l *Loader) OnChange(fn func(Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := decode(l.v)
		if err != nil {
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		fn(cfg)
	})
	l.v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "invoicefmt")
	v.SetDefault("app.env", "development")
	v.SetDefault("log.level", "info")

	v.SetDefault("http.port", 8080)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=invoicefmt port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.custom_field_ttl", 5*time.Minute)

	v.SetDefault("format.default_locale", "en-US")
	v.SetDefault("format.explicit_currency_symbol", false)

	v.SetDefault("otel.exporter.otlp.endpoint", "")
	v.SetDefault("otel.traces.sampler.arg", 1.0)
}

func decode(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppName:     v.GetString("app.name"),
		Environment: v.GetString("app.env"),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		HTTP: HTTPConfig{
			Port: v.GetInt("http.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			DSN:             v.GetString("database.dsn"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Enabled:        v.GetBool("redis.enabled"),
			Addr:           v.GetString("redis.addr"),
			Password:       v.GetString("redis.password"),
			DB:             v.GetInt("redis.db"),
			CustomFieldTTL: v.GetDuration("redis.custom_field_ttl"),
		},
		Format: FormatConfig{
			DefaultLocale:          strings.TrimSpace(v.GetString("format.default_locale")),
			ExplicitCurrencySymbol: v.GetBool("format.explicit_currency_symbol"),
		},
		Tracing: TracingConfig{
			Endpoint:    strings.TrimSpace(v.GetString("otel.exporter.otlp.endpoint")),
			SampleRatio: v.GetFloat64("otel.traces.sampler.arg"),
		},
	}

	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Database.Driver)
	}
	return cfg, nil
}
