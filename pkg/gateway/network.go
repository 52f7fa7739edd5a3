package gateway

import (
	"context"

	"github.com/velamesh/ipa-core/pkg/party"
)

// Network is the external collaborator the core assumes but deliberately
// does not implement (§1 Non-goals): a transport that guarantees
// confidentiality, authenticity, and FIFO delivery of envelopes sent on the
// same (dest, step) channel (§5 "Ordering guarantees"). TCP/HTTP bindings
// and the wire codec live outside this module; internal/memnet provides an
// in-memory implementation for tests and the demo CLI.
type Network interface {
	// Send hands an envelope to the transport for delivery to dest on the
	// channel identified by ch. It must not return until the transport has
	// accepted the envelope; it does not wait for the peer to process it.
	Send(ctx context.Context, dest party.Role, ch ChannelID, env MessageEnvelope) error

	// Messages returns the stream of envelopes arriving from peers,
	// regardless of which channel they belong to; the Gateway event loop
	// demultiplexes by ChannelID. The channel is closed when the transport
	// shuts down.
	Messages() <-chan IncomingMessage
}
