package supervisor

import (
	"context"

	"sentinel/internal/fleet"
)

// Handlers receives events from an open detection session. OnMessage is
// called once per decoded message; OnClose is called at most once when
// the session drops.
type Handlers struct {
	OnMessage func(topic string, payload []byte)
	OnClose   func(err error)
}

// Session is an established detection channel to one camera.
type Session interface {
	Close() error
}

// Dialer opens detection sessions. The production implementation speaks
// MQTT; tests substitute fakes.
type Dialer interface {
	Dial(ctx context.Context, cam fleet.Camera, handlers Handlers) (Session, error)
}

// MessageHandler consumes decoded detection messages.
type MessageHandler interface {
	HandleMessage(ctx context.Context, cam fleet.Camera, topic string, payload []byte)
}
