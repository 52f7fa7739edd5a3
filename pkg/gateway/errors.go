package gateway

import "fmt"

// ErrorKind classifies gateway-level failures per §7.
type ErrorKind int

const (
	// KindSerialization: a message could not be encoded or decoded.
	KindSerialization ErrorKind = iota
	// KindTransport: the network layer reported a send/receive failure.
	KindTransport
	// KindInvariant: a protocol invariant was violated (duplicate receive,
	// duplicate message, mismatched lengths). Fatal: indicates a bug.
	KindInvariant
	// KindCancellation: the operation was cancelled by its caller's context.
	KindCancellation
)

func (k ErrorKind) String() string {
	switch k {
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindInvariant:
		return "invariant"
	case KindCancellation:
		return "cancellation"
	default:
		return "unknown"
	}
}

// Error is the gateway's structured error type, tagging failures with the
// (channel, record) or peer they concern so callers can log actionable
// context (§7).
type Error struct {
	Kind    ErrorKind
	Channel ChannelID
	Record  RecordID
	Peer    string
	Err     error
}

func (e *Error) Error() string {
	if e.Peer != "" {
		return fmt.Sprintf("gateway: %s error with peer %s: %v", e.Kind, e.Peer, e.Err)
	}
	return fmt.Sprintf("gateway: %s error on %s record %d: %v", e.Kind, e.Channel, e.Record, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InvariantViolation is panicked (and recovered once, at the event loop
// boundary) when the buffer state machine sees a transition §4.6 marks
// FATAL: a duplicate receive request or a duplicate incoming message for
// the same (channel, record). It is not corrected at runtime because, per
// §7, these indicate a bug rather than an attack to defend against.
type InvariantViolation struct {
	Channel ChannelID
	Record  RecordID
	Reason  string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("gateway: invariant violation on %s record %d: %s", e.Channel, e.Record, e.Reason)
}
