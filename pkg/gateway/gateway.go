package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/velamesh/ipa-core/pkg/party"
)

// Logger is the minimal seam the gateway logs through (§A of SPEC_FULL):
// one method, so callers can plug in zap/zerolog/etc. without this module
// importing a specific logging library. A *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

// defaultQueueDepth is the default bound on the receive-request and
// cancel-request queues between protocol code and the gateway event loop
// (§9 open question). The queue between the network layer and the event
// loop is owned and bounded by the Network implementation.
const defaultQueueDepth = 16

type receiveRequest struct {
	channel ChannelID
	record  RecordID
	sink    chan []byte
}

// Gateway owns the rendezvous buffer for a single helper process (§4.6). It
// runs one dedicated event-loop goroutine that races incoming receive
// requests from local protocol code against incoming messages from the
// network, so the buffer is never contended (§5).
type Gateway struct {
	role    party.Role
	network Network
	logger  Logger

	receiveRequests chan receiveRequest
	cancelRequests  chan cancelRequest

	done     chan struct{}
	fatalErr chan error // receives at most one fatal error, then closes `done`
}

type cancelRequest struct {
	channel ChannelID
	record  RecordID
}

// Option configures a Gateway at construction time.
type Option func(*Gateway)

// WithQueueDepth overrides the default bound on the receive-request queue
// between protocol code and the event loop (§5 back-pressure).
func WithQueueDepth(depth int) Option {
	return func(g *Gateway) {
		g.receiveRequests = make(chan receiveRequest, depth)
	}
}

// WithLogger overrides the default stdlib logger.
func WithLogger(l Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// NewGateway constructs a Gateway for the given helper identity and starts
// its event loop. The helper identity is immutable for the Gateway's
// lifetime (§6).
func NewGateway(role party.Role, network Network, opts ...Option) *Gateway {
	g := &Gateway{
		role:            role,
		network:         network,
		logger:          log.Default(),
		receiveRequests: make(chan receiveRequest, defaultQueueDepth),
		cancelRequests:  make(chan cancelRequest, defaultQueueDepth),
		done:            make(chan struct{}),
		fatalErr:        make(chan error, 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	go g.run()
	return g
}

// Mesh returns a per-step handle through which protocol code sends and
// receives messages (§4.5 ctx.mesh(), §4.6).
func (g *Gateway) Mesh(step string) *Mesh {
	return &Mesh{gateway: g, step: step}
}

// Done returns a channel that is closed once the gateway has hit a fatal
// error and shut down its event loop.
func (g *Gateway) Done() <-chan struct{} {
	return g.done
}

// Err returns the fatal error that shut the gateway down, if any.
func (g *Gateway) Err() error {
	select {
	case err := <-g.fatalErr:
		g.fatalErr <- err // put it back so repeated calls see it
		return err
	default:
		return nil
	}
}

// run is the single dedicated task that owns the buffer map (§5). Every
// mutation goes through this loop reading from the two bounded channels
// described in §5: receiveRequests and the network's message stream.
func (g *Gateway) run() {
	buf := newBuffer()
	messages := g.network.Messages()

	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("gateway: %v", r)
			}
			if iv, isInvariant := r.(InvariantViolation); isInvariant {
				err = &Error{Kind: KindInvariant, Channel: iv.Channel, Record: iv.Record, Err: iv}
			}
			g.fatalErr <- err
		}
		close(g.done)
	}()

	for {
		select {
		case req, ok := <-g.receiveRequests:
			if !ok {
				return
			}
			if payload := buf.onReceiveRequest(req.channel, req.record, req.sink); payload != nil {
				deliver(req.sink, payload, g.logger)
			}

		case cr := <-g.cancelRequests:
			buf.discard(cr.channel, cr.record)

		case im, ok := <-messages:
			if !ok {
				return
			}
			if sink := buf.onMessage(im.Channel, im.Envelope.RecordID, im.Envelope.Payload); sink != nil {
				deliver(sink, im.Envelope.Payload, g.logger)
			}
		}
	}
}

// deliver sends a payload to a one-shot sink without blocking forever if
// the receiving side has already given up (§4.6 "if the sink has been
// dropped, log and discard").
func deliver(sink chan<- []byte, payload []byte, logger Logger) {
	select {
	case sink <- payload:
	default:
		logger.Printf("gateway: no listener for message, discarding")
	}
}

// send pushes an envelope out through the network, tagging transport
// failures with the peer identity (§7 point 2).
func (g *Gateway) send(ctx context.Context, dest party.Role, ch ChannelID, env MessageEnvelope) error {
	if err := g.network.Send(ctx, dest, ch, env); err != nil {
		return &Error{Kind: KindTransport, Channel: ch, Record: env.RecordID, Peer: dest.String(), Err: err}
	}
	return nil
}

// requestReceive submits a receive request to the event loop and blocks
// (respecting ctx) until the event loop delivers a payload. Cancellation
// drops the delivery sink cooperatively (§5): the event loop discards the
// pending slot. A message for that record that arrives afterwards is not
// recognized as orphaned: it is buffered as Received like any first
// message and stays in the buffer until a new receive for the record is
// issued.
func (g *Gateway) requestReceive(ctx context.Context, ch ChannelID, record RecordID) ([]byte, error) {
	sink := make(chan []byte, 1)
	req := receiveRequest{channel: ch, record: record, sink: sink}

	select {
	case g.receiveRequests <- req:
	case <-g.done:
		return nil, &Error{Kind: KindTransport, Channel: ch, Record: record, Err: g.Err()}
	case <-ctx.Done():
		return nil, &Error{Kind: KindCancellation, Channel: ch, Record: record, Err: ctx.Err()}
	}

	select {
	case payload := <-sink:
		return payload, nil
	case <-g.done:
		return nil, &Error{Kind: KindTransport, Channel: ch, Record: record, Err: g.Err()}
	case <-ctx.Done():
		select {
		case g.cancelRequests <- cancelRequest{channel: ch, record: record}:
		case <-g.done:
		}
		return nil, &Error{Kind: KindCancellation, Channel: ch, Record: record, Err: ctx.Err()}
	}
}
