package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type Config struct {
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"PORT" default:"5001"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
	StoreDriver     string        `envconfig:"STORE_DRIVER" default:"badger"`
	BadgerPath      string        `envconfig:"BADGER_PATH" default:"./data"`
	ClientBuffer    int           `envconfig:"CLIENT_SEND_BUFFER" default:"32"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`

	// Embedded so the variables keep their unprefixed names.
	Postgres
}

type Postgres struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DB       string `envconfig:"POSTGRES_DB"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// .env is optional when variables come from the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings and normalises StoreDriver. Call it again after
// overriding fields from flags.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.ClientBuffer <= 0 {
		return errors.New("config: CLIENT_SEND_BUFFER must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}

	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))
	switch c.StoreDriver {
	case DriverBadger:
	case DriverPostgres:
		if err := c.Postgres.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", DriverBadger, DriverPostgres, c.StoreDriver)
	}
	return nil
}

func (p Postgres) validate() error {
	if strings.TrimSpace(p.User) == "" {
		return errors.New("config: POSTGRES_USER is required")
	}
	if strings.TrimSpace(p.DB) == "" {
		return errors.New("config: POSTGRES_DB is required")
	}
	return nil
}

// DSN builds the lib/pq connection URL.
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     p.DB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}
