package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"beerchek/webapp-svc/internal/domain"
)

var ErrBridgeUnavailable = errors.New("host bridge unavailable")

// Bridge is the host's messaging channel as seen by one session.
type Bridge interface {
	Available() bool
	Ready(ctx context.Context) error
	User() *domain.HostUser
	SendData(ctx context.Context, data []byte) error
}

// Transport moves envelopes from the page to the host side.
type Transport interface {
	Publish(ctx context.Context, envelope domain.BridgeEnvelope) error
}

// For returns the bridge for a session. Sessions that were not opened inside
// the host, or a server without a transport, get Unavailable.
func For(transport Transport, user *domain.HostUser) Bridge {
	if transport == nil || user == nil {
		return Unavailable{}
	}
	return &hostBridge{transport: transport, user: *user, now: time.Now}
}

type Unavailable struct{}

func (Unavailable) Available() bool { return false }
func (Unavailable) Ready(context.Context) error { return nil }
func (Unavailable) User() *domain.HostUser { return nil }
func (Unavailable) SendData(context.Context, []byte) error { return ErrBridgeUnavailable }

type hostBridge struct {
	transport Transport
	user      domain.HostUser
	now       func() time.Time
}

func (b *hostBridge) Available() bool { return true }

// Ready has nothing to hand-shake server side; the page calls the host's
// ready() itself.
func (b *hostBridge) Ready(ctx context.Context) error {
	log.Printf("[BRIDGE] session ready for user %d", b.user.ID)
	return nil
}

func (b *hostBridge) User() *domain.HostUser {
	u := b.user
	return &u
}

func (b *hostBridge) SendData(ctx context.Context, data []byte) error {
	if err := b.transport.Publish(ctx, domain.BridgeEnvelope{
		UserID: b.user.ID,
		Data:   string(data),
		SentAt: b.now().UTC(),
	}); err != nil {
		return fmt.Errorf("failed to send bridge data: %w", err)
	}
	return nil
}

// Send encodes msg and sends it through b.
func Send(ctx context.Context, b Bridge, msg domain.BridgeMessage) error {
	if !b.Available() {
		return ErrBridgeUnavailable
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode bridge message: %w", err)
	}
	return b.SendData(ctx, payload)
}
