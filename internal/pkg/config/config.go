package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	pkgvalidator "github.com/statline/nginx-exporter/internal/pkg/validator"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Upstream  UpstreamConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Name        string `validate:"required"`
	Environment string
	Debug       bool
}

type ServerConfig struct {
	Host         string `validate:"required,listenaddr"`
	Port         int    `validate:"required,min=1,max=65535"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UpstreamConfig points at the nginx stub_status endpoint. Immutable for
// the process lifetime.
type UpstreamConfig struct {
	URL     string        `validate:"required,httpurl"`
	Timeout time.Duration `validate:"required,gt=0"`
}

type TelemetryConfig struct {
	Path        string `validate:"required,startswith=/"`
	SelfMetrics bool
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("NGINX_EXPORTER")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config

	// App
	cfg.App.Name = viper.GetString("app.name")
	cfg.App.Environment = viper.GetString("app.environment")
	cfg.App.Debug = viper.GetBool("app.debug")

	// Server
	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.ReadTimeout = viper.GetDuration("server.read_timeout")
	cfg.Server.WriteTimeout = viper.GetDuration("server.write_timeout")
	cfg.Server.IdleTimeout = viper.GetDuration("server.idle_timeout")

	// Upstream
	cfg.Upstream.URL = viper.GetString("upstream.url")
	cfg.Upstream.Timeout = viper.GetDuration("upstream.timeout")

	// Telemetry
	cfg.Telemetry.Path = viper.GetString("telemetry.path")
	cfg.Telemetry.SelfMetrics = viper.GetBool("telemetry.self_metrics")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports invalid configuration. Callers treat failure as a
// fatal startup error; nothing is re-validated at runtime.
func (c *Config) Validate() error {
	if err := pkgvalidator.Validate(c); err != nil {
		details := pkgvalidator.FormatErrors(err)
		if len(details) > 0 {
			return fmt.Errorf("invalid configuration: %s: %s", details[0].Field, details[0].Message)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Server.WriteTimeout > 0 && c.Upstream.Timeout >= c.Server.WriteTimeout {
		return fmt.Errorf("invalid configuration: upstream.timeout (%s) must be below server.write_timeout (%s)",
			c.Upstream.Timeout, c.Server.WriteTimeout)
	}
	return nil
}

func setDefaults() {
	// App defaults
	viper.SetDefault("app.name", "nginx-exporter")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.debug", false)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 9113)
	viper.SetDefault("server.read_timeout", "5s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")

	// Upstream defaults
	viper.SetDefault("upstream.url", "http://127.0.0.1:8080/stub_status")
	viper.SetDefault("upstream.timeout", "5s")

	// Telemetry defaults
	viper.SetDefault("telemetry.path", "/metrics")
	viper.SetDefault("telemetry.self_metrics", true)
}
