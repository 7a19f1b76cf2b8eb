package config

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/finance")
	t.Setenv("JWT_SECRET", " s3cret ")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, BackendPostgres, cfg.DataBackend)
	require.Equal(t, "s3cret", cfg.Session.JWTSecret)
	require.Equal(t, "finance-be", cfg.Session.JWTIssuer)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL())
	require.Equal(t, "FINANCE_SESSION", cfg.Session.CookieName)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, "finance.events", cfg.AMQP.Exchange)
	require.Empty(t, cfg.AMQP.URL)
	require.Equal(t, 20, cfg.LoginRatePerMinute)
	require.Empty(t, cfg.TrustedProxies)
}

func TestProxyNetworks(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://localhost/finance")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10,,2001:db8::1")

	cfg, err := Load()
	require.NoError(t, err)
	networks, err := cfg.ProxyNetworks()
	require.NoError(t, err)
	require.Len(t, networks, 3)
	require.True(t, networks[0].Contains(net.ParseIP("10.1.2.3")))
	require.True(t, networks[1].Contains(net.ParseIP("192.0.2.10")))
	require.False(t, networks[1].Contains(net.ParseIP("192.0.2.11")))
	require.True(t, networks[2].Contains(net.ParseIP("2001:db8::1")))

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/33")
	_, err = Load()
	require.ErrorContains(t, err, "TRUSTED_PROXIES")
}

func TestLoadSQLiteOverrides(t *testing.T) {
	t.Setenv("DATA_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/finance.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.DataBackend)
	require.Equal(t, ":9000", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.SessionTTL())
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadReportsAllProblems(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_TTL_MINUTES", "0")
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET", "SESSION_TTL_MINUTES", "LOG_LEVEL"} {
		require.ErrorContains(t, err, want)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("DATA_BACKEND", "mongo")
	t.Setenv("JWT_SECRET", "s3cret")
	_, err := Load()
	require.ErrorContains(t, err, "DATA_BACKEND")
}
