package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

const minSecretLength = 32

// Config is the storefront's runtime configuration. Values come from defaults,
// then an optional YAML file, then the environment.
type Config struct {
	ListenAddr     string        `yaml:"listen_addr"`
	BackendURL     string        `yaml:"backend_url"`
	BackendTimeout time.Duration `yaml:"backend_timeout"`

	SessionStore  string        `yaml:"session_store"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionSecret string        `yaml:"session_secret"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaTopic   string   `yaml:"kafka_topic"`

	SearchDebounce time.Duration `yaml:"search_debounce"`
	AuthRate       float64       `yaml:"auth_rate"`
	AuthBurst      int           `yaml:"auth_burst"`
	// TrustedProxies are the addresses or CIDRs of reverse proxies whose
	// X-Forwarded-For header names the client.
	TrustedProxies []string `yaml:"trusted_proxies"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		ListenAddr:     ":3000",
		BackendURL:     "http://127.0.0.1:8000/api/",
		BackendTimeout: 10 * time.Second,
		SessionStore:   StoreMemory,
		SessionTTL:     24 * time.Hour,
		KafkaTopic:     "storefront-activity",
		SearchDebounce: 500 * time.Millisecond,
		AuthRate:       1,
		AuthBurst:      5,
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load builds the configuration. path may be empty, in which case
// STOREFRONT_CONFIG is consulted; a missing file is only an error when a
// path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("STOREFRONT_CONFIG")
		explicit = path != ""
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.ListenAddr = getEnv("STOREFRONT_LISTEN_ADDR", c.ListenAddr)
	c.BackendURL = getEnv("STOREFRONT_BACKEND_URL", c.BackendURL)
	c.SessionStore = strings.ToLower(getEnv("STOREFRONT_SESSION_STORE", c.SessionStore))
	c.SessionSecret = getEnv("STOREFRONT_SESSION_SECRET", c.SessionSecret)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.KafkaTopic = getEnv("KAFKA_TOPIC", c.KafkaTopic)
	c.LogLevel = getEnv("STOREFRONT_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("STOREFRONT_LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = splitList(v)
	}
	if v := os.Getenv("STOREFRONT_TRUSTED_PROXIES"); v != "" {
		c.TrustedProxies = splitList(v)
	}

	var err error
	if c.BackendTimeout, err = getDuration("STOREFRONT_BACKEND_TIMEOUT", c.BackendTimeout); err != nil {
		return err
	}
	if c.SessionTTL, err = getDuration("STOREFRONT_SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.SearchDebounce, err = getDuration("STOREFRONT_SEARCH_DEBOUNCE", c.SearchDebounce); err != nil {
		return err
	}
	if v := os.Getenv("STOREFRONT_COOKIE_SECURE"); v != "" {
		if c.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("STOREFRONT_COOKIE_SECURE: %w", err)
		}
	}
	if v := os.Getenv("STOREFRONT_AUTH_RATE"); v != "" {
		if c.AuthRate, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("STOREFRONT_AUTH_RATE: %w", err)
		}
	}
	if v := os.Getenv("STOREFRONT_AUTH_BURST"); v != "" {
		if c.AuthBurst, err = strconv.Atoi(v); err != nil {
			return fmt.Errorf("STOREFRONT_AUTH_BURST: %w", err)
		}
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend url %q must be an absolute http(s) url", c.BackendURL)
	}
	if c.BackendTimeout <= 0 {
		return errors.New("backend timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.SearchDebounce < 0 {
		return errors.New("search debounce must not be negative")
	}
	if c.AuthRate <= 0 || c.AuthBurst < 1 {
		return errors.New("auth rate and burst must be positive")
	}
	if _, err := c.ProxyPrefixes(); err != nil {
		return err
	}

	switch c.SessionStore {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres session store")
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	if c.Persistent() && len(c.SessionSecret) < minSecretLength {
		return fmt.Errorf("session secret must be at least %d characters long", minSecretLength)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ProxyPrefixes parses TrustedProxies. A bare address is a single-host prefix.
func (c Config) ProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Persistent reports whether sessions outlive the process.
func (c Config) Persistent() bool {
	return c.SessionStore == StorePostgres || c.SessionStore == StoreRedis
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
