// Package memnet is an in-memory gateway.Network used by tests and the
// demo CLI: three helpers wired directly together by Go channels, with no
// serialization boundary beyond what the gateway itself applies.
package memnet

import (
	"context"

	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/party"
)

// Ring is a loopback network connecting exactly three helpers (§6: the
// core is fixed at three parties).
type Ring struct {
	inboxes [3]chan gateway.IncomingMessage
}

// NewRing builds a Ring with a bounded inbox per helper. depth bounds how
// far a sender can run ahead of a slow receiver before Send blocks.
func NewRing(depth int) *Ring {
	r := &Ring{}
	for i := range r.inboxes {
		r.inboxes[i] = make(chan gateway.IncomingMessage, depth)
	}
	return r
}

// For returns the Network view of the ring as seen by the given helper:
// Send delivers into a peer's inbox, Messages reads this helper's own.
func (r *Ring) For(self party.Role) gateway.Network {
	return &endpoint{ring: r, self: self}
}

// Close shuts down every inbox; must be called after all Sends have
// stopped, or it panics on a closed channel.
func (r *Ring) Close() {
	for _, inbox := range r.inboxes {
		close(inbox)
	}
}

type endpoint struct {
	ring *Ring
	self party.Role
}

func (e *endpoint) Send(ctx context.Context, dest party.Role, ch gateway.ChannelID, env gateway.MessageEnvelope) error {
	im := gateway.IncomingMessage{Channel: gateway.ChannelID{Peer: e.self, Step: ch.Step}, Envelope: env}
	select {
	case e.ring.inboxes[dest.Index()] <- im:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *endpoint) Messages() <-chan gateway.IncomingMessage {
	return e.ring.inboxes[e.self.Index()]
}
