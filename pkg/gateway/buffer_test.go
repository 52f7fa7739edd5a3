package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velamesh/ipa-core/pkg/party"
)

func testChannel() ChannelID {
	return ChannelID{Peer: party.H2, Step: "test/buffer"}
}

func TestRequestThenMessageDelivers(t *testing.T) {
	b := newBuffer()
	ch := testChannel()
	sink := make(chan []byte, 1)

	require.Nil(t, b.onReceiveRequest(ch, 0, sink))
	delivered := b.onMessage(ch, 0, []byte("payload"))
	require.NotNil(t, delivered)
	assert.True(t, b.isEmpty())
}

func TestMessageThenRequestDelivers(t *testing.T) {
	b := newBuffer()
	ch := testChannel()

	require.Nil(t, b.onMessage(ch, 1, []byte("payload")))
	payload := b.onReceiveRequest(ch, 1, make(chan []byte, 1))
	assert.Equal(t, []byte("payload"), payload)
	assert.True(t, b.isEmpty())
}

func TestDuplicateReceiveRequestPanics(t *testing.T) {
	b := newBuffer()
	ch := testChannel()
	b.onReceiveRequest(ch, 2, make(chan []byte, 1))

	assert.PanicsWithValue(t, InvariantViolation{Channel: ch, Record: 2, Reason: "duplicate receive request for the same (channel, record)"}, func() {
		b.onReceiveRequest(ch, 2, make(chan []byte, 1))
	})
}

func TestDuplicateMessagePanics(t *testing.T) {
	b := newBuffer()
	ch := testChannel()
	b.onMessage(ch, 3, []byte("first"))

	assert.PanicsWithValue(t, InvariantViolation{Channel: ch, Record: 3, Reason: "duplicate message for the same (channel, record)"}, func() {
		b.onMessage(ch, 3, []byte("second"))
	})
}

func TestDiscardClearsPendingRequest(t *testing.T) {
	b := newBuffer()
	ch := testChannel()
	b.onReceiveRequest(ch, 4, make(chan []byte, 1))
	b.discard(ch, 4)
	assert.True(t, b.isEmpty())

	// A late message for a discarded slot is buffered as Received, not
	// matched against the cancelled request.
	delivered := b.onMessage(ch, 4, []byte("late"))
	assert.Nil(t, delivered)
	assert.False(t, b.isEmpty())
}

func TestDistinctRecordsAreIndependent(t *testing.T) {
	b := newBuffer()
	ch := testChannel()
	b.onReceiveRequest(ch, 5, make(chan []byte, 1))
	b.onMessage(ch, 6, []byte("other"))
	assert.False(t, b.isEmpty())
}
