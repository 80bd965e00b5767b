// Package sensors subscribes to the wheel sensor MQTT feed and forwards
// decoded samples into the engine. Topic layout:
//
//	<prefix>/trolley/<trolleyId>/wheel/<n>/load
//	<prefix>/trolley/<trolleyId>/wheel/<n>/temperature
//
// with a JSON body {"value": 123.4, "timestamp": "..."}; a bare numeric body
// is accepted too, stamped with the arrival time.
package sensors

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"yardcore/asset"
	"yardcore/config"
)

// Recorder is the slice of the engine the subscriber needs.
type Recorder interface {
	RecordWheelReading(rd asset.WheelReading) error
}

type Subscriber struct {
	cfg      *config.SensorsConfig
	recorder Recorder
	conn     mqtt.Client
	logFn    func(format string, args ...any)
}

func NewSubscriber(cfg *config.SensorsConfig, recorder Recorder) *Subscriber {
	return &Subscriber{
		cfg:      cfg,
		recorder: recorder,
		logFn:    log.Printf,
	}
}

func (s *Subscriber) SetLogFunc(fn func(format string, args ...any)) { s.logFn = fn }

func (s *Subscriber) Start() error {
	broker := fmt.Sprintf("tcp://%s:%d", s.cfg.Broker, s.cfg.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	s.conn = client

	filter := s.cfg.TopicPrefix + "/trolley/+/wheel/+/+"
	token = client.Subscribe(filter, 1, s.handle)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", filter, err)
	}
	s.logFn("sensors: subscribed to %s on %s", filter, broker)
	return nil
}

func (s *Subscriber) Stop() {
	if s.conn != nil && s.conn.IsConnected() {
		s.conn.Disconnect(250)
	}
}

func (s *Subscriber) handle(_ mqtt.Client, msg mqtt.Message) {
	rd, err := DecodeReading(s.cfg.TopicPrefix, msg.Topic(), msg.Payload())
	if err != nil {
		s.logFn("sensors: %s: %v", msg.Topic(), err)
		return
	}
	if err := s.recorder.RecordWheelReading(rd); err != nil {
		s.logFn("sensors: record %s wheel %d: %v", rd.TrolleyID, rd.Wheel, err)
	}
}

type samplePayload struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// DecodeReading parses one sensor message into a wheel reading.
func DecodeReading(prefix, topic string, payload []byte) (asset.WheelReading, error) {
	parts := strings.Split(strings.TrimPrefix(topic, prefix+"/"), "/")
	if len(parts) != 5 || parts[0] != "trolley" || parts[2] != "wheel" {
		return asset.WheelReading{}, fmt.Errorf("unexpected topic shape %q", topic)
	}
	wheel, err := strconv.Atoi(parts[3])
	if err != nil {
		return asset.WheelReading{}, fmt.Errorf("wheel index %q: %w", parts[3], err)
	}
	kind := asset.ReadingKind(parts[4])
	switch kind {
	case asset.ReadingLoad, asset.ReadingTemperature:
	default:
		return asset.WheelReading{}, fmt.Errorf("reading kind %q: %w", parts[4], asset.ErrTypeMismatch)
	}

	var sample samplePayload
	if err := json.Unmarshal(payload, &sample); err != nil {
		// Bare numeric body from simpler sensor firmware.
		v, perr := strconv.ParseFloat(strings.TrimSpace(string(payload)), 64)
		if perr != nil {
			return asset.WheelReading{}, fmt.Errorf("decode payload: %w", err)
		}
		sample = samplePayload{Value: v}
	}

	return asset.WheelReading{
		TrolleyID: parts[1],
		Wheel:     wheel,
		Kind:      kind,
		Value:     sample.Value,
		Timestamp: sample.Timestamp,
	}, nil
}
