package gateway

import (
	"context"

	"github.com/fxamacker/cbor/v2"

	"github.com/velamesh/ipa-core/pkg/party"
)

// Mesh is the per-step handle protocol code uses to exchange messages with
// its peers (§4.5 ctx.mesh(step), §4.6). It is a thin, stateless view over
// the owning Gateway: all state lives in the gateway's event loop.
type Mesh struct {
	gateway *Gateway
	step    string
}

// channelTo returns the ChannelID for traffic this helper sends to peer on
// this mesh's step. Per §3, a channel is scoped to (peer, step); the
// Network re-tags it with the sender as Peer on the receiving side.
func (m *Mesh) channelTo(peer party.Role) ChannelID {
	return ChannelID{Peer: peer, Step: m.step}
}

// Send serializes v with CBOR (§6 "wire payloads are CBOR-encoded") and
// hands it to the network for delivery to dest on this mesh's step, tagged
// with record so the peer can rendezvous on the matching Receive call.
func Send[T any](ctx context.Context, m *Mesh, dest party.Role, record RecordID, v T) error {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return &Error{Kind: KindSerialization, Channel: m.channelTo(dest), Record: record, Err: err}
	}
	env := MessageEnvelope{RecordID: record, Payload: payload}
	return m.gateway.send(ctx, dest, m.channelTo(dest), env)
}

// Receive blocks until the message from source for this mesh's step and
// record has arrived (possibly already buffered by the event loop), then
// decodes it into a T. Each (channel, record) pair may be received exactly
// once (§4.6). A second call while the first is still pending makes the
// gateway's event loop shut down with an InvariantViolation, and Receive
// returns an error. A call for a record whose message has already been
// delivered is not detected: it waits for a new message for that record.
func Receive[T any](ctx context.Context, m *Mesh, source party.Role, record RecordID) (T, error) {
	var zero T
	payload, err := m.gateway.requestReceive(ctx, ChannelID{Peer: source, Step: m.step}, record)
	if err != nil {
		return zero, err
	}
	var v T
	if err := cbor.Unmarshal(payload, &v); err != nil {
		return zero, &Error{Kind: KindSerialization, Channel: ChannelID{Peer: source, Step: m.step}, Record: record, Err: err}
	}
	return v, nil
}

// Step returns the step path this mesh is scoped to.
func (m *Mesh) Step() string {
	return m.step
}
