package gateway

// bufItem is the two-state tagged value described in §3 "Buffer item":
// either Requested (a delivery sink awaiting a payload) or Received (a
// payload awaiting a caller). The zero value represents neither state;
// existence in the owning map is what signals "absent" vs. one of the two.
type bufItem struct {
	sink     chan<- []byte // non-nil when Requested
	payload  []byte        // non-nil when Received
	received bool
}

// buffer holds the per-(channel, record) rendezvous slots for every channel
// this gateway has seen traffic on. It has a single owner, the gateway's
// event-loop goroutine (§4.6, §5 "the gateway buffer is single-owner");
// nothing else may touch it directly.
type buffer struct {
	channels map[ChannelID]map[RecordID]bufItem
}

func newBuffer() *buffer {
	return &buffer{channels: make(map[ChannelID]map[RecordID]bufItem)}
}

func (b *buffer) slotsFor(ch ChannelID) map[RecordID]bufItem {
	slots, ok := b.channels[ch]
	if !ok {
		slots = make(map[RecordID]bufItem)
		b.channels[ch] = slots
	}
	return slots
}

// onReceiveRequest implements the left column of the §4.6 state table.
// It returns a payload to deliver immediately (non-nil) if the message had
// already arrived, or panics with InvariantViolation on a duplicate
// request.
func (b *buffer) onReceiveRequest(ch ChannelID, record RecordID, sink chan<- []byte) []byte {
	slots := b.slotsFor(ch)
	item, exists := slots[record]
	switch {
	case !exists:
		slots[record] = bufItem{sink: sink}
		return nil
	case item.received:
		delete(slots, record)
		return item.payload
	default:
		panic(InvariantViolation{Channel: ch, Record: record, Reason: "duplicate receive request for the same (channel, record)"})
	}
}

// onMessage implements the right column of the §4.6 state table. It
// returns the sink to deliver the payload to (non-nil) if a request was
// already outstanding, or panics with InvariantViolation on a duplicate
// message.
func (b *buffer) onMessage(ch ChannelID, record RecordID, payload []byte) chan<- []byte {
	slots := b.slotsFor(ch)
	item, exists := slots[record]
	switch {
	case !exists:
		slots[record] = bufItem{payload: payload, received: true}
		return nil
	case !item.received:
		delete(slots, record)
		return item.sink
	default:
		panic(InvariantViolation{Channel: ch, Record: record, Reason: "duplicate message for the same (channel, record)"})
	}
}

// discard drops an outstanding request slot, used when a receive is
// cancelled (§5 "Cancellation of a pending receive drops the delivery
// sink"). If the message has already been handed to the sink by the time
// cancellation is processed, the slot is already gone and this is a no-op;
// the payload is left unread in the abandoned sink.
func (b *buffer) discard(ch ChannelID, record RecordID) {
	slots, ok := b.channels[ch]
	if !ok {
		return
	}
	delete(slots, record)
}

// isEmpty reports whether every channel's slot map is empty, used by tests
// to assert quiescence (§8 "At quiescence, the buffer is empty").
func (b *buffer) isEmpty() bool {
	for _, slots := range b.channels {
		if len(slots) > 0 {
			return false
		}
	}
	return true
}
