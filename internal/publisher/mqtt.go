package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgoulah/loadanalyzer/internal/config"
	"github.com/jgoulah/loadanalyzer/pkg/models"
)

// ErrNothingEnabled is returned when neither MQTT nor Home Assistant is configured
var ErrNothingEnabled = errors.New("neither MQTT nor Home Assistant publishing is enabled in config")

// Publisher sends analysis reports to Home Assistant and/or an MQTT broker
type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	haConfig    config.HAConfig
	httpClient  *http.Client
	sendMQTT    func(topic string, payload []byte) error
}

// New creates a new publisher (supports both MQTT and HA HTTP API)
func New(mqttCfg config.MQTTConfig, haCfg config.HAConfig) (*Publisher, error) {
	if !mqttCfg.Enabled && !haCfg.Enabled {
		return nil, ErrNothingEnabled
	}

	if haCfg.Enabled {
		if haCfg.URL == "" {
			return nil, fmt.Errorf("Home Assistant URL is required when enabled")
		}
		if haCfg.Token == "" {
			return nil, fmt.Errorf("Home Assistant token is required when enabled")
		}
		if haCfg.EntityID == "" {
			return nil, fmt.Errorf("Home Assistant entity_id is required when enabled")
		}
	}

	p := &Publisher{
		haConfig:   haCfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	if mqttCfg.Enabled {
		if mqttCfg.Broker == "" {
			return nil, fmt.Errorf("MQTT broker address is required when enabled")
		}
		p.topicPrefix = mqttCfg.GetTopicPrefix()

		opts := mqtt.NewClientOptions()
		opts.AddBroker(fmt.Sprintf("tcp://%s", mqttCfg.Broker))
		opts.SetClientID("loadanalyzer")
		opts.SetAutoReconnect(true)
		opts.SetConnectRetry(true)
		opts.SetConnectTimeout(10 * time.Second)

		if mqttCfg.Username != "" {
			opts.SetUsername(mqttCfg.Username)
		}
		if mqttCfg.Password != "" {
			opts.SetPassword(mqttCfg.Password)
		}

		p.client = mqtt.NewClient(opts)
		if token := p.client.Connect(); token.Wait() && token.Error() != nil {
			return nil, fmt.Errorf("connecting to MQTT broker: %w", token.Error())
		}
		p.sendMQTT = p.publishToBroker
	}

	return p, nil
}

// HAState is the body posted to Home Assistant's states endpoint
type HAState struct {
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// MQTTPayload is the JSON message published to <prefix>/daily_load
type MQTTPayload struct {
	TotalKWh    float64 `json:"total_kwh"`
	AverageKWh  float64 `json:"average_kwh"`
	Appliances  int     `json:"appliances"`
	MaxConsumer string  `json:"max_consumer"`
	MaxKWh      float64 `json:"max_kwh"`
	MinConsumer string  `json:"min_consumer"`
	MinKWh      float64 `json:"min_kwh"`
	AnalyzedAt  string  `json:"analyzed_at"`
}

// Publish sends a report to every enabled destination
func (p *Publisher) Publish(ctx context.Context, report models.Report) error {
	if p.haConfig.Enabled {
		if err := p.publishToHA(ctx, report); err != nil {
			return err
		}
	}

	if p.sendMQTT != nil {
		payload, err := json.Marshal(MQTTPayload{
			TotalKWh:    report.TotalEnergyKWh,
			AverageKWh:  report.AverageEnergyKWh,
			Appliances:  report.ApplianceCount,
			MaxConsumer: report.MaxName,
			MaxKWh:      report.MaxEnergyKWh,
			MinConsumer: report.MinName,
			MinKWh:      report.MinEnergyKWh,
			AnalyzedAt:  report.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("encoding MQTT payload: %w", err)
		}
		if err := p.sendMQTT(p.Topic(), payload); err != nil {
			return err
		}
	}

	return nil
}

// Topic returns the MQTT topic reports are published to
func (p *Publisher) Topic() string {
	return p.topicPrefix + "/daily_load"
}

func (p *Publisher) publishToBroker(topic string, payload []byte) error {
	token := p.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publishing to %s: timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) publishToHA(ctx context.Context, report models.Report) error {
	apiURL := fmt.Sprintf("%s/api/states/%s", strings.TrimRight(p.haConfig.URL, "/"), p.haConfig.EntityID)

	body, err := json.Marshal(HAState{
		State: fmt.Sprintf("%.2f", report.TotalEnergyKWh),
		Attributes: map[string]any{
			"unit_of_measurement": "kWh",
			"friendly_name":       "Home daily load",
			"average_kwh":         report.AverageEnergyKWh,
			"appliances":          report.ApplianceCount,
			"max_consumer":        report.MaxName,
			"min_consumer":        report.MinName,
			"analyzed_at":         report.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.haConfig.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	// HA answers 201 for a new entity and 200 for an update
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Close disconnects from the MQTT broker
func (p *Publisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
