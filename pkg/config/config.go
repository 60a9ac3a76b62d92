// Package config loads the client's explicit configuration: backend location, timeouts,
// logging, analytics identity, and fixture server settings.
package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/nikogura/portfolio-client/pkg/analytics"
	"github.com/nikogura/portfolio-client/pkg/api"
)

// EnvPrefix prefixes every environment override, e.g. PORTFOLIO_LOG_LEVEL.
const EnvPrefix = "PORTFOLIO"

// LegacyBackendEnv is the backend origin variable the browser build used. PORTFOLIO_BACKEND_URL
// wins when both are set.
const LegacyBackendEnv = "REACT_APP_BACKEND_URL"

// Defaults.
const (
	DefaultBackendURL      = "http://localhost:8001"
	DefaultTimeout         = api.DefaultTimeout
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultUserAgent       = api.UserAgent
	DefaultEventsPerSecond = 5.0
	DefaultBurst           = 10
	DefaultServerAddr      = ":8001"
	DefaultDatabase        = "portfolio.db"
)

// Config represents the application configuration.
type Config struct {
	BackendURL string          `json:"backend_url" mapstructure:"backend_url"`
	Timeout    time.Duration   `json:"timeout" mapstructure:"timeout"`
	LogLevel   string          `json:"log_level" mapstructure:"log_level"`
	LogFormat  string          `json:"log_format" mapstructure:"log_format"`
	UserAgent  string          `json:"user_agent" mapstructure:"user_agent"`
	Referrer   string          `json:"referrer,omitempty" mapstructure:"referrer"`
	Analytics  AnalyticsConfig `json:"analytics" mapstructure:"analytics"`
	Server     ServerConfig    `json:"server" mapstructure:"server"`
}

// AnalyticsConfig holds visit tracking settings.
type AnalyticsConfig struct {
	Enabled         bool    `json:"enabled" mapstructure:"enabled"`
	EventsPerSecond float64 `json:"events_per_second" mapstructure:"events_per_second"`
	Burst           int     `json:"burst" mapstructure:"burst"`
}

// ServerConfig holds fixture backend settings.
type ServerConfig struct {
	Addr     string `json:"addr" mapstructure:"addr"`
	Database string `json:"database" mapstructure:"database"`
	SeedFile string `json:"seed_file,omitempty" mapstructure:"seed_file"`
}

// defaults is the single source of default values, used both for viper and for InitConfig.
func defaults() (values map[string]interface{}) {
	values = map[string]interface{}{
		"backend_url":                 DefaultBackendURL,
		"timeout":                     DefaultTimeout.String(),
		"log_level":                   DefaultLogLevel,
		"log_format":                  DefaultLogFormat,
		"user_agent":                  DefaultUserAgent,
		"referrer":                    "",
		"analytics.enabled":           true,
		"analytics.events_per_second": DefaultEventsPerSecond,
		"analytics.burst":             DefaultBurst,
		"server.addr":                 DefaultServerAddr,
		"server.database":             DefaultDatabase,
		"server.seed_file":            "",
	}
	return values
}

// DefaultPath returns $HOME/.portfolio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".portfolio", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides. A .env file in the
// working directory is loaded first. An explicitly named file must exist; a missing default
// file just means defaults plus environment.
func Load(configPath string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		err = errors.Wrap(err, "failed to load .env file")
		return cfg, err
	}
	err = nil

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err = v.BindEnv("backend_url", EnvPrefix+"_BACKEND_URL", LegacyBackendEnv)
	if err != nil {
		err = errors.Wrap(err, "failed to bind backend url environment")
		return cfg, err
	}

	path := configPath
	required := path != ""
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	_, err = os.Stat(path)
	switch {
	case err == nil:
		v.SetConfigFile(path)
		err = v.ReadInConfig()
		if err != nil {
			err = errors.Wrapf(err, "failed to read config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && required:
		err = errors.Errorf("config file not found: %s (run 'portfolio init' to create)", path)
		return cfg, err
	case os.IsNotExist(err):
		err = nil
	default:
		err = errors.Wrapf(err, "failed to stat config file: %s", path)
		return cfg, err
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks the configuration and fills empty fields with defaults.
func (c *Config) Validate() (err error) {
	if c.BackendURL == "" {
		c.BackendURL = DefaultBackendURL
	}

	var u *url.URL
	u, err = url.Parse(c.BackendURL)
	if err != nil {
		err = errors.Wrapf(err, "invalid backend_url: %s", c.BackendURL)
		return err
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		err = errors.Errorf("backend_url must be an absolute http(s) URL, got %q", c.BackendURL)
		return err
	}

	if c.Timeout < 0 {
		err = errors.Errorf("timeout must be positive, got %s", c.Timeout)
		return err
	}

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	if c.Analytics.EventsPerSecond < 0 {
		err = errors.Errorf("analytics.events_per_second must not be negative, got %v", c.Analytics.EventsPerSecond)
		return err
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}

	if c.Server.Database == "" {
		c.Server.Database = DefaultDatabase
	}

	return err
}

// APIConfig returns the API client configuration: the backend origin plus /api.
func (c *Config) APIConfig() (cfg api.Config) {
	cfg = api.Config{
		BaseURL: strings.TrimRight(c.BackendURL, "/") + "/api",
		Timeout: c.Timeout,
	}
	return cfg
}

// AnalyticsConfig returns the tracker configuration.
func (c *Config) AnalyticsConfig() (cfg analytics.Config) {
	cfg = analytics.Config{
		UserAgent:       c.UserAgent,
		Referrer:        c.Referrer,
		Enabled:         c.Analytics.Enabled,
		EventsPerSecond: c.Analytics.EventsPerSecond,
		Burst:           c.Analytics.Burst,
	}
	return cfg
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	doc := map[string]interface{}{}
	for key, value := range defaults() {
		setNested(doc, strings.Split(key, "."), value)
	}

	var data []byte
	data, err = json.MarshalIndent(doc, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}

func setNested(doc map[string]interface{}, keys []string, value interface{}) {
	if len(keys) == 1 {
		doc[keys[0]] = value
		return
	}

	child, ok := doc[keys[0]].(map[string]interface{})
	if !ok {
		child = map[string]interface{}{}
		doc[keys[0]] = child
	}
	setNested(child, keys[1:], value)
}
