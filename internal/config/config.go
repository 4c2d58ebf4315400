package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	defaultTimeout  = 15 * time.Second
	defaultPacing   = time.Second
	defaultInterval = 24 * time.Hour
	defaultDSN      = "wine_cellar.db"

	configPathEnv  = "WINEWINDOW_CONFIG"
	logLevelEnv    = "WINEWINDOW_LOG_LEVEL"
	databaseDSNEnv = "WINEWINDOW_DATABASE_DSN"
	userAgentEnv   = "WINEWINDOW_USER_AGENT"
	metricsAddrEnv = "WINEWINDOW_METRICS_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	HTTP      HTTPConfig      `yaml:"http"`
	Lookup    LookupConfig    `yaml:"lookup"`
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoggingConfig selects level and handler format ("text" or "json").
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HTTPConfig controls outbound page fetches.
type HTTPConfig struct {
	UserAgent  string        `yaml:"userAgent"`
	Timeout    time.Duration `yaml:"-"`
	RawTimeout string        `yaml:"timeout"`
}

// LookupConfig tunes the source walk.
type LookupConfig struct {
	Pacing          time.Duration `yaml:"-"`
	RawPacing       string        `yaml:"pacing"`
	DisabledSources []string      `yaml:"disabledSources"`
}

// DatabaseConfig points at the cellar's SQLite file.
type DatabaseConfig struct {
	DSN   string `yaml:"dsn"`
	Limit int    `yaml:"limit"`
}

// SchedulerConfig defines how often the backfill runs in watch mode.
type SchedulerConfig struct {
	Interval    time.Duration  `yaml:"-"`
	RawInterval string         `yaml:"interval"`
	Timezone    string         `yaml:"timezone"`
	location    *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads YAML configuration from WINEWINDOW_CONFIG (if set) and applies
// environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile reads YAML configuration from path (if non-empty) and applies
// environment overrides. Unreadable files fall back to defaults.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if fileCfg, err := readFile(path); err != nil {
			log.Printf("config: %v (falling back to defaults)", err)
		} else {
			cfg = mergeConfig(cfg, fileCfg)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindDurations()
	cfg.bindTimezone()

	return cfg
}

func readFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	return fileCfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(userAgentEnv); v != "" {
		c.HTTP.UserAgent = v
	}

	if v := os.Getenv(metricsAddrEnv); v != "" {
		c.Metrics.Addr = v
	}
}

func (c *Config) bindDurations() {
	c.HTTP.Timeout = parseDuration("http.timeout", c.HTTP.RawTimeout, defaultTimeout)
	c.Lookup.Pacing = parseDuration("lookup.pacing", c.Lookup.RawPacing, defaultPacing)
	c.Scheduler.Interval = parseDuration("scheduler.interval", c.Scheduler.RawInterval, defaultInterval)
}

func parseDuration(field, raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Printf("config: invalid %s %q, reverting to %s", field, raw, fallback)
		return fallback
	}
	return d
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.RawTimeout != "" {
		base.HTTP.RawTimeout = override.HTTP.RawTimeout
	}

	if override.Lookup.RawPacing != "" {
		base.Lookup.RawPacing = override.Lookup.RawPacing
	}
	if len(override.Lookup.DisabledSources) > 0 {
		base.Lookup.DisabledSources = override.Lookup.DisabledSources
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Limit > 0 {
		base.Database.Limit = override.Database.Limit
	}

	if override.Scheduler.RawInterval != "" {
		base.Scheduler.RawInterval = override.Scheduler.RawInterval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		HTTP:      HTTPConfig{Timeout: defaultTimeout},
		Lookup:    LookupConfig{Pacing: defaultPacing},
		Database:  DatabaseConfig{DSN: defaultDSN},
		Scheduler: SchedulerConfig{Interval: defaultInterval, Timezone: defaultTimezone, location: tz},
	}
}
