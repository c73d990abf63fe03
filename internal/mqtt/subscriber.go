package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"soil_monitor"
	"soil_monitor/internal/logger"
	"soil_monitor/internal/service"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout  = 10 * time.Second
	keepAlive       = 30 * time.Second
	pingTimeout     = 10 * time.Second
	maxConnectWait  = 2 * time.Minute
	subscribeQoS    = 1
	disconnectQuiet = 250 // ms paho waits for in-flight work on Disconnect
)

// Config holds the broker settings; an empty Broker disables the subscriber.
type Config struct {
	Broker   string // e.g. "tcp://localhost:1883"
	ClientID string
	Topic    string // e.g. "soil/moisture"
}

// Subscriber ingests sensor readings published over MQTT. Payloads use the
// same envelope as the HTTP ingest endpoint.
type Subscriber struct {
	cfg    Config
	ingest service.Ingest
	log    *logger.Logger
	client mqtt.Client
}

func NewSubscriber(cfg Config, ingest service.Ingest, log *logger.Logger) *Subscriber {
	return &Subscriber{cfg: cfg, ingest: ingest, log: log}
}

// Start connects (retrying with exponential backoff), subscribes, and blocks
// until ctx is canceled.
func (s *Subscriber) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.Broker).
		SetClientID(s.cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetKeepAlive(keepAlive).
		SetPingTimeout(pingTimeout)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		s.log.Infow("mqtt connected", "broker", s.cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.log.Warnw("mqtt connection lost", "err", err)
	})

	s.client = mqtt.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxConnectWait
	err := backoff.Retry(func() error {
		token := s.client.Connect()
		if !token.WaitTimeout(connectTimeout) {
			return context.DeadlineExceeded
		}
		return token.Error()
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return err
	}

	if token := s.client.Subscribe(s.cfg.Topic, subscribeQoS, s.handleMessage(ctx)); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	s.log.Infow("mqtt subscribed", "topic", s.cfg.Topic)

	<-ctx.Done()
	s.client.Disconnect(disconnectQuiet)
	return nil
}

// handleMessage parses a published reading and records it. Malformed
// payloads are logged and dropped; the subscription stays up.
func (s *Subscriber) handleMessage(ctx context.Context) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		var req soil_monitor.IngestRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil || req.Moisture == nil {
			s.log.Warnw("mqtt payload rejected", "topic", msg.Topic(), "err", err)
			return
		}

		if _, err := s.ingest.Record(ctx, service.RecordParams{
			Moisture: *req.Moisture,
			Status:   req.Status,
			DataType: req.DataType,
			Source:   service.SourceMQTT,
		}); err != nil {
			s.log.Errorw("mqtt ingest failed", "err", err, "moisture", *req.Moisture)
		}
	}
}
