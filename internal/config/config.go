package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server        ServerConfig `yaml:"server,omitempty"`
	Log           LogConfig    `yaml:"log,omitempty"`
	DBPath        string       `yaml:"db_path,omitempty"`     // Report archive (fallback: reports.db)
	TariffRate    float64      `yaml:"tariff_rate,omitempty"` // Cost per kWh, 0 disables cost estimates
	Currency      string       `yaml:"currency,omitempty"`    // Symbol printed next to costs (fallback: $)
	MQTT          MQTTConfig   `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig     `yaml:"home_assistant,omitempty"`
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Addr          string        `yaml:"addr,omitempty"`           // e.g., ":3000"
	AnalysisDelay time.Duration `yaml:"analysis_delay,omitempty"` // Pause before returning analysis results
	Debug         bool          `yaml:"debug,omitempty"`
}

// LogConfig holds zap logger settings for the server
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`    // debug, info, warn, error
	Encoding    string `yaml:"encoding,omitempty"` // json or console
	Development bool   `yaml:"development,omitempty"`
}

// MQTTConfig holds MQTT broker settings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // host:port
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: home_load
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.home_daily_load"
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// GetServerAddr returns the listen address with a default of :3000
func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return ":3000"
	}
	return c.Server.Addr
}

// GetDBPath returns the report archive path with a default of reports.db
func (c *Config) GetDBPath() string {
	if c.DBPath == "" {
		return "reports.db"
	}
	return c.DBPath
}

// GetTariffRate returns the cost per kWh, or 0 if not set or negative
func (c *Config) GetTariffRate() float64 {
	if c.TariffRate < 0 {
		return 0
	}
	return c.TariffRate
}

// GetCurrency returns the currency symbol with a default of $
func (c *Config) GetCurrency() string {
	if c.Currency == "" {
		return "$"
	}
	return c.Currency
}

// GetTopicPrefix returns the MQTT topic prefix with a default of home_load
func (m MQTTConfig) GetTopicPrefix() string {
	if m.TopicPrefix == "" {
		return "home_load"
	}
	return m.TopicPrefix
}

// Keys lists the dotted keys accepted by Set
var Keys = []string{
	"server.addr",
	"server.analysis_delay",
	"server.debug",
	"log.level",
	"log.encoding",
	"db_path",
	"tariff_rate",
	"currency",
	"mqtt.enabled",
	"mqtt.broker",
	"mqtt.username",
	"mqtt.password",
	"mqtt.topic_prefix",
	"home_assistant.enabled",
	"home_assistant.url",
	"home_assistant.token",
	"home_assistant.entity_id",
}

// Set updates a single setting by its dotted yaml key, e.g. "server.addr"
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "server.addr":
		c.Server.Addr = value
	case "server.analysis_delay":
		var d time.Duration
		if d, err = time.ParseDuration(value); err == nil {
			if d < 0 {
				err = fmt.Errorf("must not be negative")
			} else {
				c.Server.AnalysisDelay = d
			}
		}
	case "server.debug":
		c.Server.Debug, err = strconv.ParseBool(value)
	case "log.level":
		c.Log.Level = value
	case "log.encoding":
		if value != "json" && value != "console" {
			err = fmt.Errorf("must be json or console")
		} else {
			c.Log.Encoding = value
		}
	case "db_path":
		c.DBPath = value
	case "tariff_rate":
		var rate float64
		if rate, err = strconv.ParseFloat(value, 64); err == nil {
			if rate < 0 {
				err = fmt.Errorf("must not be negative")
			} else {
				c.TariffRate = rate
			}
		}
	case "currency":
		c.Currency = value
	case "mqtt.enabled":
		c.MQTT.Enabled, err = strconv.ParseBool(value)
	case "mqtt.broker":
		c.MQTT.Broker = value
	case "mqtt.username":
		c.MQTT.Username = value
	case "mqtt.password":
		c.MQTT.Password = value
	case "mqtt.topic_prefix":
		c.MQTT.TopicPrefix = value
	case "home_assistant.enabled":
		c.HomeAssistant.Enabled, err = strconv.ParseBool(value)
	case "home_assistant.url":
		c.HomeAssistant.URL = value
	case "home_assistant.token":
		c.HomeAssistant.Token = value
	case "home_assistant.entity_id":
		c.HomeAssistant.EntityID = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}
