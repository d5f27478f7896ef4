package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"STOREFRONT_CONFIG", "STOREFRONT_LISTEN_ADDR", "STOREFRONT_BACKEND_URL",
		"STOREFRONT_SESSION_STORE", "STOREFRONT_SESSION_SECRET", "STOREFRONT_SESSION_TTL",
		"STOREFRONT_SEARCH_DEBOUNCE", "STOREFRONT_BACKEND_TIMEOUT", "STOREFRONT_COOKIE_SECURE",
		"STOREFRONT_AUTH_RATE", "STOREFRONT_AUTH_BURST", "STOREFRONT_LOG_LEVEL", "STOREFRONT_LOG_FORMAT",
		"STOREFRONT_TRUSTED_PROXIES", "DATABASE_URL", "REDIS_URL", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 500*time.Millisecond, cfg.SearchDebounce)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9000"
backend_url: "https://shop.example.com/api/"
session_store: redis
session_ttl: 2h
redis_url: "redis://localhost:6379/0"
kafka_brokers: ["k1:9092"]
`), 0o600))

	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("STOREFRONT_SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, StoreRedis, cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.Persistent())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_SEARCH_DEBOUNCE", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"relative backend url", func(c *Config) { c.BackendURL = "/api/" }, true},
		{"unknown store", func(c *Config) { c.SessionStore = "etcd" }, true},
		{"postgres without dsn", func(c *Config) { c.SessionStore = StorePostgres; c.SessionSecret = secret }, true},
		{"postgres short secret", func(c *Config) {
			c.SessionStore = StorePostgres
			c.DatabaseURL = "postgres://x"
			c.SessionSecret = "short"
		}, true},
		{"postgres ok", func(c *Config) {
			c.SessionStore = StorePostgres
			c.DatabaseURL = "postgres://x"
			c.SessionSecret = secret
		}, false},
		{"redis without url", func(c *Config) { c.SessionStore = StoreRedis; c.SessionSecret = secret }, true},
		{"zero burst", func(c *Config) { c.AuthBurst = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"bad trusted proxy", func(c *Config) { c.TrustedProxies = []string{"proxy.local"} }, true},
		{"trusted proxies ok", func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.1"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProxyPrefixes(t *testing.T) {
	clearEnv(t)
	t.Setenv("STOREFRONT_TRUSTED_PROXIES", "10.1.2.3/8, 192.0.2.1")

	cfg, err := Load("")
	require.NoError(t, err)
	prefixes, err := cfg.ProxyPrefixes()
	require.NoError(t, err)
	require.Len(t, prefixes, 2)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.0.2.1/32", prefixes[1].String())
}
