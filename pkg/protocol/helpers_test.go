package protocol_test

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/velamesh/ipa-core/internal/memnet"
	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/mpc"
	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/step"
)

// testSteps is a small, self-contained steps file covering every narrow
// the protocol package's tests exercise: per-bit steps for BitwiseAND, and
// the two reshare sub-steps for ReshareMalicious.
const testSteps = `s::Protocol
s::Protocol/s::bit-0
s::Protocol/s::bit-1
s::Protocol/s::bit-2
s::Protocol/s::reshare-x
s::Protocol/s::reshare-rx
`

func buildTestTree(t *testing.T) *step.Tree {
	t.Helper()
	tree, err := step.BuildTree(strings.NewReader(testSteps))
	require.NoError(t, err)
	return tree
}

// trio wires three helpers together over an in-memory ring, each with
// their own Context narrowed to the "Protocol" step.
type trio struct {
	ctx   [3]mpc.Context
	ring  *memnet.Ring
	close func()
}

func newTrio(t *testing.T) *trio {
	t.Helper()
	tree := buildTestTree(t)

	var root [32]byte
	_, err := rand.Read(root[:])
	require.NoError(t, err)

	ring := memnet.NewRing(16)
	tr := &trio{ring: ring}
	roles := party.All()
	for i, role := range roles {
		gw := gateway.NewGateway(role, ring.For(role))
		endpoint := prss.NewEndpoint(root, role)
		c := mpc.New(role, tree, endpoint, gw)
		protoCtx, err := c.Narrow("Protocol")
		require.NoError(t, err)
		tr.ctx[i] = protoCtx
	}
	tr.close = ring.Close
	return tr
}

func fp31Field() field.Fp31Field {
	return field.Fp31Field{}
}
