package config

import (
	"fmt"
	"time"

	"github.com/arlan-b/fleet-snapshot-system/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		App      AppConfig
		Dispatch DispatchConfig
		Geo      GeoConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Roster   RosterConfig
		Resolver ResolverConfig
		Server   ServerConfig
	}

	AppConfig struct {
		ServiceName string `env:"APP_SERVICE_NAME" default:"fleet-service"`
		LogLevel    string `env:"APP_LOG_LEVEL" default:"DEBUG"`

		// PollInterval drives the background aggregation loop that feeds
		// WebSocket and RabbitMQ consumers. Zero disables the loop; the
		// HTTP API still aggregates per request.
		PollInterval time.Duration `env:"APP_POLL_INTERVAL" default:"30s"`
	}

	DispatchConfig struct {
		BaseURL string   `env:"DISPATCH_BASE_URL" default:"http://localhost:9080"`
		APIKey  string   `env:"DISPATCH_API_KEY"`
		Tenants []string `env:"DISPATCH_TENANTS" default:"primary"`

		CallTimeout  time.Duration `env:"DISPATCH_CALL_TIMEOUT" default:"10s"`  // per (tenant, resource) call
		PassDeadline time.Duration `env:"DISPATCH_PASS_DEADLINE" default:"45s"` // whole aggregation pass
		MaxInFlight  int           `env:"DISPATCH_MAX_IN_FLIGHT" default:"8"`   // concurrent upstream calls
	}

	// GeoConfig is the bounding envelope for GPS validation.
	// Defaults approximate the United Kingdom.
	GeoConfig struct {
		MinLatitude  float64 `env:"GEO_MIN_LATITUDE" default:"49.5"`
		MaxLatitude  float64 `env:"GEO_MAX_LATITUDE" default:"61.0"`
		MinLongitude float64 `env:"GEO_MIN_LONGITUDE" default:"-8.5"`
		MaxLongitude float64 `env:"GEO_MAX_LONGITUDE" default:"2.0"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"fleet_user"`
		Password string `env:"DATABASE_PASSWORD" default:"fleet_pass"`
		Database string `env:"DATABASE_DATABASE" default:"fleet_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED" default:"true"`
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	RosterConfig struct {
		Path  string `env:"ROSTER_PATH" default:"roster.csv"`
		Watch bool   `env:"ROSTER_WATCH" default:"true"` // reload when the file is replaced
	}

	ResolverConfig struct {
		RefreshInterval time.Duration `env:"RESOLVER_REFRESH_INTERVAL" default:"10m"`
		FallbackTimeout time.Duration `env:"RESOLVER_FALLBACK_TIMEOUT" default:"2s"` // per-tenant live lookup

		// OverridesPath points at a JSON file with hand-confirmed
		// id -> callsign pairs consulted before the live fallback.
		OverridesPath string `env:"RESOLVER_OVERRIDES_PATH"`
	}

	ServerConfig struct {
		Port string `env:"SERVER_PORT" default:"3000"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading enviromental variables and parsing to config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
