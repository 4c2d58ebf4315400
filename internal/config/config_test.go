package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "winewindow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg := LoadFile("")

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, time.Second, cfg.Lookup.Pacing)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "wine_cellar.db", cfg.Database.DSN)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
	assert.Empty(t, cfg.Lookup.DisabledSources)
}

func TestLoadFileMergesYAML(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
http:
  userAgent: CellarBot/2.0
  timeout: 10s
lookup:
  pacing: 250ms
  disabledSources: [vivino, wine_com]
database:
  dsn: /var/lib/cellar/wine.db
  limit: 25
scheduler:
  interval: 6h
  timezone: Europe/Paris
metrics:
  addr: ":9102"
`)

	cfg := LoadFile(path)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "CellarBot/2.0", cfg.HTTP.UserAgent)
	assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Lookup.Pacing)
	assert.Equal(t, []string{"vivino", "wine_com"}, cfg.Lookup.DisabledSources)
	assert.Equal(t, "/var/lib/cellar/wine.db", cfg.Database.DSN)
	assert.Equal(t, 25, cfg.Database.Limit)
	assert.Equal(t, 6*time.Hour, cfg.Scheduler.Interval)
	assert.Equal(t, "Europe/Paris", cfg.Scheduler.Location().String())
	assert.Equal(t, ":9102", cfg.Metrics.Addr)
}

func TestLoadFileInvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
lookup:
  pacing: soon
scheduler:
  timezone: Mars/Olympus
`)

	cfg := LoadFile(path)

	assert.Equal(t, time.Second, cfg.Lookup.Pacing)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadFileZeroPacing(t *testing.T) {
	cfg := LoadFile(writeConfig(t, "lookup:\n  pacing: 0s\n"))
	assert.Equal(t, time.Duration(0), cfg.Lookup.Pacing)

	cfg = LoadFile(writeConfig(t, "lookup:\n  pacing: -2s\n"))
	assert.Equal(t, time.Second, cfg.Lookup.Pacing)
}

func TestLoadFileMissingOrBroken(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, "info", cfg.Logging.Level)

	cfg = LoadFile(writeConfig(t, "logging: [unclosed"))
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(logLevelEnv, "warn")
	t.Setenv(databaseDSNEnv, "/tmp/override.db")
	t.Setenv(userAgentEnv, "EnvAgent/1.0")
	t.Setenv(metricsAddrEnv, "127.0.0.1:9000")

	cfg := LoadFile(writeConfig(t, "database:\n  dsn: from-file.db\n"))

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/override.db", cfg.Database.DSN)
	assert.Equal(t, "EnvAgent/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.Addr)
}
