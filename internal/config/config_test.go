package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.GetServerAddr())
	assert.Equal(t, "reports.db", cfg.GetDBPath())
	assert.Equal(t, 0.0, cfg.GetTariffRate())
	assert.Equal(t, "$", cfg.GetCurrency())
	assert.Equal(t, "home_load", cfg.MQTT.GetTopicPrefix())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: ":8080"
  analysis_delay: 800ms
log:
  level: debug
  encoding: console
db_path: /tmp/loads.db
tariff_rate: 0.21
currency: "€"
mqtt:
  enabled: true
  broker: localhost:1883
  topic_prefix: house
home_assistant:
  enabled: true
  url: http://ha.local:8123
  token: secret
  entity_id: sensor.daily_load
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, 800*time.Millisecond, cfg.Server.AnalysisDelay)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/loads.db", cfg.GetDBPath())
	assert.Equal(t, 0.21, cfg.GetTariffRate())
	assert.Equal(t, "€", cfg.GetCurrency())
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "house", cfg.MQTT.GetTopicPrefix())
	assert.Equal(t, "sensor.daily_load", cfg.HomeAssistant.EntityID)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config file")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &Config{TariffRate: 0.15, Server: ServerConfig{Addr: ":9000"}}
	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.15, loaded.TariffRate)
	assert.Equal(t, ":9000", loaded.GetServerAddr())
}

func TestSet(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Set("server.addr", ":8080"))
	require.NoError(t, cfg.Set("server.analysis_delay", "800ms"))
	require.NoError(t, cfg.Set("tariff_rate", "0.15"))
	require.NoError(t, cfg.Set("currency", "€"))
	require.NoError(t, cfg.Set("log.encoding", "console"))
	require.NoError(t, cfg.Set("mqtt.enabled", "true"))
	require.NoError(t, cfg.Set("home_assistant.entity_id", "sensor.home_daily_load"))

	assert.Equal(t, ":8080", cfg.GetServerAddr())
	assert.Equal(t, 800*time.Millisecond, cfg.Server.AnalysisDelay)
	assert.Equal(t, 0.15, cfg.GetTariffRate())
	assert.Equal(t, "€", cfg.GetCurrency())
	assert.Equal(t, "console", cfg.Log.Encoding)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "sensor.home_daily_load", cfg.HomeAssistant.EntityID)
}

func TestSet_Errors(t *testing.T) {
	testCases := []struct {
		key, value, wantErr string
	}{
		{key: "cookies", value: "x", wantErr: "unknown config key"},
		{key: "tariff_rate", value: "cheap", wantErr: "invalid value for tariff_rate"},
		{key: "tariff_rate", value: "-1", wantErr: "must not be negative"},
		{key: "server.analysis_delay", value: "soon", wantErr: "invalid value for server.analysis_delay"},
		{key: "log.encoding", value: "xml", wantErr: "must be json or console"},
		{key: "mqtt.enabled", value: "maybe", wantErr: "invalid value for mqtt.enabled"},
	}

	for _, tc := range testCases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			cfg := &Config{TariffRate: 0.2}
			assert.ErrorContains(t, cfg.Set(tc.key, tc.value), tc.wantErr)
			assert.Equal(t, 0.2, cfg.TariffRate)
		})
	}
}

func TestKeys_AllSettable(t *testing.T) {
	for _, key := range Keys {
		err := (&Config{}).Set(key, "")
		if err != nil {
			assert.NotContains(t, err.Error(), "unknown config key", key)
		}
	}
}
