package gateway

import (
	"fmt"

	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/prss"
)

// RecordID indexes a single invocation of a primitive within a channel
// (§3). It reuses prss.RecordID so the same coordinate scopes both PRSS
// output and message rendezvous, as §4.5/§4.6 require.
type RecordID = prss.RecordID

// ChannelID identifies a logical FIFO of envelopes between this helper and
// one peer, scoped to a single step (§3). Equality and hashing use
// structural equality of both fields, which Go's comparable struct already
// gives us for free when ChannelID is used as a map key.
type ChannelID struct {
	Peer party.Role
	Step string
}

func (c ChannelID) String() string {
	return fmt.Sprintf("channel(peer=%s, step=%s)", c.Peer, c.Step)
}

// MessageEnvelope is the unit the external Network transports (§6):
// a record id paired with an opaque, already-serialized payload.
type MessageEnvelope struct {
	RecordID RecordID
	Payload  []byte
}

// IncomingMessage is an envelope tagged with the channel it arrived on,
// the shape Network implementations push onto their message stream.
type IncomingMessage struct {
	Channel  ChannelID
	Envelope MessageEnvelope
}
