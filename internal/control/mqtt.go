package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttTimeout = 5 * time.Second

// Options locate the broker and the command topic. Responses go to Topic + "/ack".
type Options struct {
	Broker   string // tcp://host:1883
	Topic    string
	ClientID string
}

// Subscriber feeds MQTT messages into a Handler.
type Subscriber struct {
	opts   Options
	client mqtt.Client
	log    *slog.Logger
}

// Connect opens the broker connection. The client reconnects on its own
// and resubscribes on every connect.
func Connect(ctx context.Context, o Options, target Target, log *slog.Logger) (*Subscriber, *Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Subscriber{opts: o, log: log}
	h := NewHandler(target, s.publish, log)

	co := mqtt.NewClientOptions()
	co.AddBroker(o.Broker)
	co.SetClientID(o.ClientID)
	co.SetAutoReconnect(true)
	co.SetConnectRetry(true)
	co.SetConnectRetryInterval(2 * time.Second)
	co.SetMaxReconnectInterval(30 * time.Second)
	co.OnConnect = func(c mqtt.Client) {
		log.Info("mqtt connection established", "broker", o.Broker, "client_id", o.ClientID)
		token := c.Subscribe(o.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
			h.Enqueue(msg.Payload())
		})
		if !token.WaitTimeout(mqttTimeout) {
			log.Error("control plane subscription timeout", "topic", o.Topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Error("control plane subscription failed", "topic", o.Topic, "error", err)
			return
		}
		log.Info("subscribed to control plane", "topic", o.Topic)
	}
	co.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost, will auto-reconnect", "broker", o.Broker, "error", err)
	}

	s.client = mqtt.NewClient(co)
	token := s.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		s.client.Disconnect(0)
		return nil, nil, ctx.Err()
	case <-time.After(mqttTimeout):
		s.client.Disconnect(0)
		return nil, nil, fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt connection failed: %w", err)
	}
	return s, h, nil
}

func (s *Subscriber) publish(resp Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}
	token := s.client.Publish(s.opts.Topic+"/ack", 0, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		s.log.Error("response publish timeout")
		return
	}
	if err := token.Error(); err != nil {
		s.log.Error("failed to publish response", "error", err)
		return
	}
	s.log.Debug("response sent", "command_ack", resp.CommandAck, "status", resp.Status)
}

// Close unsubscribes and disconnects.
func (s *Subscriber) Close() {
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.opts.Topic).WaitTimeout(mqttTimeout)
	}
	s.client.Disconnect(250)
	s.log.Info("control plane stopped")
}
