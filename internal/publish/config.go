// Package publish implements the config-driven MQTT publishing pipeline:
// configuration loading, topic resolution and the retrying publisher.
package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/umati-tools/machineid-publisher/pkg/mqtt"
)

// ConfigError reports an unreadable or invalid publish configuration
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ConfigError) Unwrap() error { return e.Err }

// BrokerConfig holds the MQTT broker connection settings and the default
// QoS/retain applied to machines without overrides. Key names are a contract
// with operators.
type BrokerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	ClientID  string `json:"client_id,omitempty"`
	Keepalive int    `json:"keepalive,omitempty"`
	QoS       byte   `json:"qos"`
	Retain    bool   `json:"retain"`
}

// MachineBinding maps one machine type to the topic it is published on,
// optionally overriding the broker default QoS and retain flag
type MachineBinding struct {
	Type   string `json:"type"`
	Topic  string `json:"topic"`
	QoS    *byte  `json:"qos,omitempty"`
	Retain *bool  `json:"retain,omitempty"`
}

// EffectiveQoS returns the binding override or the broker default
func (m MachineBinding) EffectiveQoS(def byte) byte {
	if m.QoS != nil {
		return *m.QoS
	}
	return def
}

// EffectiveRetain returns the binding override or the broker default
func (m MachineBinding) EffectiveRetain(def bool) bool {
	if m.Retain != nil {
		return *m.Retain
	}
	return def
}

// GlobalSettings is the publish policy applied to every machine
type GlobalSettings struct {
	PublishTimeout float64 `json:"publish_timeout"`
	RetryAttempts  int     `json:"retry_attempts"`
	RetryDelay     float64 `json:"retry_delay"`
}

// PublishTimeoutDuration returns the per-attempt timeout
func (s GlobalSettings) PublishTimeoutDuration() time.Duration {
	return time.Duration(s.PublishTimeout * float64(time.Second))
}

// RetryDelayDuration returns the wait between failed attempts
func (s GlobalSettings) RetryDelayDuration() time.Duration {
	return time.Duration(s.RetryDelay * float64(time.Second))
}

// Config is a validated publish configuration
type Config struct {
	MQTTBroker     BrokerConfig     `json:"mqtt_broker"`
	Machines       []MachineBinding `json:"machines"`
	GlobalSettings GlobalSettings   `json:"global_settings"`
}

// BrokerOptions converts the broker section into connector options
func (c *Config) BrokerOptions() mqtt.Options {
	return mqtt.Options{
		Host:      c.MQTTBroker.Host,
		Port:      c.MQTTBroker.Port,
		Username:  c.MQTTBroker.Username,
		Password:  c.MQTTBroker.Password,
		ClientID:  c.MQTTBroker.ClientID,
		KeepAlive: time.Duration(c.MQTTBroker.Keepalive) * time.Second,
	}
}

// defaults returns a Config pre-filled with default values; unmarshalling
// the operator's file on top of it leaves unspecified fields at their
// defaults while explicit zeros still take effect
func defaults() Config {
	return Config{
		MQTTBroker: BrokerConfig{
			Port: 1883,
		},
		GlobalSettings: GlobalSettings{
			PublishTimeout: 30,
			RetryAttempts:  3,
			RetryDelay:     1,
		},
	}
}

// Load reads and validates a publish configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("failed to read config file %q", path), Err: err}
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates configuration from byte data
// (useful for testing)
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Reason: "failed to parse config JSON", Err: err}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MQTTBroker.Host == "" {
		return &ConfigError{Reason: "mqtt_broker.host is required"}
	}
	if c.MQTTBroker.Port <= 0 || c.MQTTBroker.Port > 65535 {
		return &ConfigError{Reason: fmt.Sprintf("mqtt_broker.port must be between 1 and 65535, got %d", c.MQTTBroker.Port)}
	}
	if c.MQTTBroker.QoS > 2 {
		return &ConfigError{Reason: fmt.Sprintf("mqtt_broker.qos must be 0, 1 or 2, got %d", c.MQTTBroker.QoS)}
	}

	if len(c.Machines) == 0 {
		return &ConfigError{Reason: "at least one machine is required"}
	}
	for i, m := range c.Machines {
		if m.Type == "" {
			return &ConfigError{Reason: fmt.Sprintf("machine entry %d: type is required", i)}
		}
		if err := mqtt.ValidatePublishTopic(m.Topic); err != nil {
			return &ConfigError{Reason: fmt.Sprintf("machine entry %d (%s)", i, m.Type), Err: err}
		}
		if m.QoS != nil && *m.QoS > 2 {
			return &ConfigError{Reason: fmt.Sprintf("machine entry %d (%s): qos must be 0, 1 or 2, got %d", i, m.Type, *m.QoS)}
		}
	}

	if c.GlobalSettings.RetryAttempts < 0 {
		return &ConfigError{Reason: fmt.Sprintf("global_settings.retry_attempts must not be negative, got %d", c.GlobalSettings.RetryAttempts)}
	}
	if c.GlobalSettings.PublishTimeout <= 0 {
		return &ConfigError{Reason: "global_settings.publish_timeout must be positive"}
	}
	if c.GlobalSettings.RetryDelay < 0 {
		return &ConfigError{Reason: "global_settings.retry_delay must not be negative"}
	}

	return nil
}
