package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"sentinel/internal/config"
	"sentinel/internal/fleet"
)

// detection topic space subscribed on every session; cameras publish
// analytics under vendor-specific subtopics.
const detectionTopicFilter = "#"

const subscribeTimeout = 5 * time.Second

var errHandshakeTimeout = errors.New("session handshake timed out")

// MQTTDialer opens detection sessions over the camera's MQTT event
// channel. Auto-reconnect is disabled; retry belongs to the supervisor.
type MQTTDialer struct {
	cfg config.Supervisor
}

// NewMQTTDialer builds the production dialer.
func NewMQTTDialer(cfg config.Supervisor) *MQTTDialer {
	return &MQTTDialer{cfg: cfg}
}

// Dial connects to the camera's broker, authenticates with the camera
// credentials, and subscribes to the detection topic space.
func (d *MQTTDialer) Dial(ctx context.Context, cam fleet.Camera, handlers Handlers) (Session, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cam.EventAddress(d.cfg.EventPort)).
		SetClientID(fmt.Sprintf("sentinel-%s-%s", cam.ID, uuid.NewString()[:8])).
		SetUsername(cam.Username).
		SetPassword(cam.Password).
		SetConnectTimeout(d.cfg.ConnectTimeoutDuration()).
		SetAutoReconnect(false).
		SetCleanSession(true).
		SetKeepAlive(30 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			if handlers.OnClose != nil {
				handlers.OnClose(err)
			}
		})

	client := mqtt.NewClient(opts)
	connect := client.Connect()
	if !connect.WaitTimeout(d.cfg.ConnectTimeoutDuration()) {
		client.Disconnect(0)
		return nil, errHandshakeTimeout
	}
	if err := connect.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cam.ID, err)
	}
	if err := ctx.Err(); err != nil {
		client.Disconnect(0)
		return nil, err
	}

	sub := client.Subscribe(detectionTopicFilter, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if handlers.OnMessage != nil {
			handlers.OnMessage(msg.Topic(), msg.Payload())
		}
	})
	if !sub.WaitTimeout(subscribeTimeout) {
		client.Disconnect(0)
		return nil, errHandshakeTimeout
	}
	if err := sub.Error(); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("subscribe %s: %w", cam.ID, err)
	}

	return &mqttSession{client: client}, nil
}

type mqttSession struct {
	client mqtt.Client
}

func (s *mqttSession) Close() error {
	s.client.Disconnect(250)
	return nil
}
