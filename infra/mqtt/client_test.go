package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/vesta-ems/vesta/core/model"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	connected bool
	published []struct {
		topic   string
		payload []byte
	}
}

func (f *fakeClient) IsConnected() bool { return f.connected }
func (f *fakeClient) Connect() paho.Token {
	f.connected = true
	return fakeToken{}
}
func (f *fakeClient) Disconnect(uint) { f.connected = false }
func (f *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	f.published = append(f.published, struct {
		topic   string
		payload []byte
	}{topic, payload.([]byte)})
	return fakeToken{}
}
func (f *fakeClient) Subscribe(string, byte, paho.MessageHandler) paho.Token {
	return fakeToken{}
}

func newFakeClient(t *testing.T) (*Client, *fakeClient) {
	t.Helper()
	fake := &fakeClient{}
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return fake }
	t.Cleanup(func() { newMQTTClient = orig })

	c, err := NewClient(Config{Broker: "tcp://localhost:1883"}, NewBuffer(4))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return c, fake
}

func TestHandleSensorPayload_BuffersReading(t *testing.T) {
	c, _ := newFakeClient(t)
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.HandleSensorPayload([]byte(`{"timestamp":"` + ts.Format(time.RFC3339) + `","demand_kwh":2.5}`))

	readings := c.Buffer().Readings()
	if len(readings) != 1 {
		t.Fatalf("buffer has %d readings, want 1", len(readings))
	}
	if readings[0].DemandKWh != 2.5 || !readings[0].Timestamp.Equal(ts) {
		t.Errorf("reading = %+v", readings[0])
	}
}

func TestHandleSensorPayload_DropsBadInput(t *testing.T) {
	c, _ := newFakeClient(t)
	c.HandleSensorPayload([]byte(`{broken`))
	c.HandleSensorPayload([]byte(`{"demand_kwh":-1}`))
	if got := c.Buffer().Len(); got != 0 {
		t.Fatalf("buffer has %d readings after bad payloads", got)
	}
}

func TestHandleSensorPayload_DefaultsTimestamp(t *testing.T) {
	c, _ := newFakeClient(t)
	before := time.Now()
	c.HandleSensorPayload([]byte(`{"demand_kwh":1.0}`))
	readings := c.Buffer().Readings()
	if len(readings) != 1 {
		t.Fatalf("buffer has %d readings", len(readings))
	}
	if readings[0].Timestamp.Before(before) {
		t.Errorf("timestamp %v not defaulted to now", readings[0].Timestamp)
	}
}

func TestPublishDecision(t *testing.T) {
	c, fake := newFakeClient(t)
	rec := model.DecisionRecord{ID: "abc", DemandKW: 5.0}
	if err := c.PublishDecision(rec); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fake.published) != 1 {
		t.Fatalf("published %d messages", len(fake.published))
	}
	if fake.published[0].topic != "vesta/decisions" {
		t.Errorf("topic = %q", fake.published[0].topic)
	}
	var got model.DecisionRecord
	if err := json.Unmarshal(fake.published[0].payload, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.ID != "abc" {
		t.Errorf("round-trip ID = %q", got.ID)
	}
}

func TestClose_Disconnects(t *testing.T) {
	c, fake := newFakeClient(t)
	c.Close()
	if fake.connected {
		t.Error("still connected after close")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Broker: "tcp://localhost:1883"}
	cfg.SetDefaults()
	if cfg.ClientID != "vesta-engine" || cfg.SensorTopic != "vesta/sensors/#" || cfg.DecisionTopic != "vesta/decisions" {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := (Config{}).Validate(); err == nil {
		t.Error("empty broker accepted")
	}
}
