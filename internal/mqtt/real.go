package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/greenhouse/internal/state"
)

// outboxCapacity bounds how many messages are held across a broker outage.
const outboxCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Telemetry produced
// while the broker is unreachable is held in a bounded outbox and
// replayed on reconnect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	box *outbox
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{box: newOutbox(outboxCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c paho.Client) {
			p.drainOutbox(c)
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p.client = client
	return p, nil
}

// PublishTelemetry sends a snapshot (QoS 0, not retained). While
// disconnected the snapshot is buffered instead.
func (p *RealPublisher) PublishTelemetry(t Telemetry) error {
	payload, err := FormatTelemetry(t)
	if err != nil {
		return fmt.Errorf("format telemetry: %w", err)
	}
	return p.publish(TopicTelemetry, 0, false, payload)
}

// PublishAlarm sends an alarm transition (QoS 1).
func (p *RealPublisher) PublishAlarm(a AlarmEvent) error {
	payload, err := FormatAlarm(a)
	if err != nil {
		return fmt.Errorf("format alarm: %w", err)
	}
	return p.publish(TopicAlarms, 1, false, payload)
}

// PublishSystem sends a lifecycle event (QoS 1) — we want delivery for
// shutdown events.
func (p *RealPublisher) PublishSystem(e SystemEvent) error {
	payload, err := FormatSystem(e)
	if err != nil {
		return fmt.Errorf("format system: %w", err)
	}
	return p.publish(TopicSystem, 1, e.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.box.push(pendingMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// drainOutbox replays buffered messages after a (re)connect.
func (p *RealPublisher) drainOutbox(c paho.Client) {
	p.mu.Lock()
	msgs := p.box.drain()
	p.mu.Unlock()
	if len(msgs) == 0 {
		return
	}

	log.Printf("mqtt: reconnected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := c.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay error on %s: %v", m.topic, err)
			return
		}
	}
}

// SubscribeCommands delivers inbound sparse command documents to fn.
// Malformed documents are logged and dropped.
func (p *RealPublisher) SubscribeCommands(fn func(state.Command)) error {
	token := p.client.Subscribe(TopicCommand, 1, func(_ paho.Client, msg paho.Message) {
		cmd, err := state.DecodeCommand(msg.Payload())
		if err != nil {
			log.Printf("mqtt: ignoring malformed command: %v", err)
			return
		}
		fn(cmd)
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicCommand, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
