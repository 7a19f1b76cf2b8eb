package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/sirupsen/logrus"
)

// Storage backends selectable through DATA_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	DataBackend string   `env:"DATA_BACKEND" envDefault:"postgres"`
	DatabaseURL string   `env:"DATABASE_URL"`
	SQLitePath  string   `env:"SQLITE_PATH" envDefault:"./data/finance.db"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// TrustedProxies lists CIDRs or IPs whose X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Session Session
	Log     Log
	AMQP    AMQP

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"20"`
}

// Session configures token signing and the session cookie.
type Session struct {
	JWTSecret  string `env:"JWT_SECRET"`
	JWTIssuer  string `env:"JWT_ISSUER" envDefault:"finance-be"`
	TTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`
	CookieName string `env:"SESSION_COOKIE" envDefault:"FINANCE_SESSION"`
}

// Log configures logrus.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// AMQP configures domain event publishing. An empty URL disables it.
type AMQP struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE" envDefault:"finance.events"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	c.DataBackend = strings.ToLower(strings.TrimSpace(c.DataBackend))
	c.DatabaseURL = strings.TrimSpace(c.DatabaseURL)
	c.Session.JWTSecret = strings.TrimSpace(c.Session.JWTSecret)

	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSOrigins = origins
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error
	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when DATA_BACKEND=postgres"))
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required when DATA_BACKEND=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendPostgres, BackendSQLite, c.DataBackend))
	}
	if c.Session.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Session.TTLMinutes <= 0 {
		errs = append(errs, errors.New("SESSION_TTL_MINUTES must be positive"))
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		errs = append(errs, errors.New("SESSION_COOKIE must not be empty"))
	}
	if _, err := c.ProxyNetworks(); err != nil {
		errs = append(errs, err)
	}
	if c.LoginRatePerMinute <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE must be positive"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// ProxyNetworks parses TrustedProxies. A bare IP becomes a single-host network.
func (c Config) ProxyNetworks() ([]*net.IPNet, error) {
	var networks []*net.IPNet
	for _, raw := range c.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			ip := net.ParseIP(raw)
			if ip == nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: invalid address %q", raw)
			}
			bits := 128
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 32
			}
			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}

// SessionTTL is the lifetime of a login session.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// ConfigureLogger applies the log level and format to the standard logrus logger.
func (c Config) ConfigureLogger() {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if strings.EqualFold(c.Log.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
