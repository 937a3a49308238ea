// Package mqtt connects the engine to the building's telemetry: it listens
// for sensor readings, feeds them into the rolling history buffer, and
// publishes every completed decision for downstream consumers.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/vesta-ems/vesta/core/forecast"
	"github.com/vesta-ems/vesta/core/model"
	"github.com/vesta-ems/vesta/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// SensorTopic is subscribed for demand readings.
	SensorTopic string `json:"sensor_topic"`
	// DecisionTopic receives one message per completed decision.
	DecisionTopic string `json:"decision_topic"`
	UseTLS        bool   `json:"use_tls"`
	CABundle      string `json:"ca_bundle"`
	QoS           byte   `json:"qos"`
}

// SetDefaults applies the standard topics.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "vesta-engine"
	}
	if c.SensorTopic == "" {
		c.SensorTopic = "vesta/sensors/#"
	}
	if c.DecisionTopic == "" {
		c.DecisionTopic = "vesta/decisions"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// sensorPayload is the wire format published by the site gateway.
type sensorPayload struct {
	Timestamp time.Time `json:"timestamp"`
	DemandKWh float64   `json:"demand_kwh"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Client wraps the Paho client for telemetry ingestion and decision
// publishing.
type Client struct {
	cli    pahoClient
	cfg    Config
	buffer *Buffer
	log    logger.Logger
}

// NewClient connects to the broker and subscribes to the sensor topic,
// feeding readings into the provided buffer.
func NewClient(cfg Config, buffer *Buffer) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New("mqtt_client")
	c := &Client{cfg: cfg, buffer: buffer, log: log}

	opts, err := newClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(pc paho.Client) {
		log.Infof("MQTT connected")
		if token := pc.Subscribe(cfg.SensorTopic, cfg.QoS, c.onSensorMessage); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	c.cli = cli
	return c, nil
}

func newClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
		if cfg.CABundle != "" {
			pem, err := os.ReadFile(cfg.CABundle)
			if err != nil {
				return nil, fmt.Errorf("read ca bundle: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(pem) {
				return nil, fmt.Errorf("invalid ca bundle %s", cfg.CABundle)
			}
			tlsCfg.RootCAs = pool
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// onSensorMessage decodes a sensor payload and buffers it.
func (c *Client) onSensorMessage(_ paho.Client, msg paho.Message) {
	c.HandleSensorPayload(msg.Payload())
}

// HandleSensorPayload parses one sensor message. Malformed payloads are
// dropped with a warning; a missing timestamp defaults to now.
func (c *Client) HandleSensorPayload(payload []byte) {
	var p sensorPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.log.Warnf("bad sensor payload: %v", err)
		return
	}
	if p.DemandKWh < 0 {
		c.log.Warnf("negative demand %v in sensor payload, dropping", p.DemandKWh)
		return
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	c.buffer.Add(forecast.Reading{Timestamp: p.Timestamp, DemandKWh: p.DemandKWh})
}

// PublishDecision sends the record to the decision topic.
func (c *Client) PublishDecision(rec model.DecisionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	token := c.cli.Publish(c.cfg.DecisionTopic, c.cfg.QoS, false, b)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Buffer returns the reading buffer fed by this client.
func (c *Client) Buffer() *Buffer { return c.buffer }

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}
