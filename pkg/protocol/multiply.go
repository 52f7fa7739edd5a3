// Package protocol implements the interactive building blocks that run on
// top of a Context: replicated multiplication, reshare, and bitwise AND
// over bit-decomposed vectors (§4.2, §4.5, §4.7).
package protocol

import (
	"context"
	"fmt"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/mpc"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

// Multiply computes ⟨a⟩·⟨b⟩, the standard GW-style product protocol (§4.2):
// helper i computes d_i = a_i·b_i + a_i·b_{i+1} + a_{i+1}·b_i + z_i, where
// z_i is this helper's component of a PRSS zero-share; it then sends d_i to
// its left neighbor and receives d_{i+1} from its right neighbor so both
// coordinates of the new replicated share are known locally. One round of
// interaction per call.
func Multiply[E field.Element[E]](ctx context.Context, c mpc.Context, f field.Field[E], record prss.RecordID, a, b sharing.Replicated[E]) (sharing.Replicated[E], error) {
	z := mpc.ZeroShare[E](c, f, record)

	d := a.Left.Mul(b.Left)
	d = d.Add(a.Left.Mul(b.Right))
	d = d.Add(a.Right.Mul(b.Left))
	d = d.Add(z)

	mesh := c.Mesh()
	left := c.Role().Prev()
	right := c.Role().Next()

	errCh := make(chan error, 1)
	go func() {
		errCh <- gateway.Send(ctx, mesh, left, record, d)
	}()

	dNext, err := gateway.Receive[E](ctx, mesh, right, record)
	if err != nil {
		return sharing.Replicated[E]{}, fmt.Errorf("protocol: multiply receive from %s: %w", right, err)
	}
	if sendErr := <-errCh; sendErr != nil {
		return sharing.Replicated[E]{}, fmt.Errorf("protocol: multiply send to %s: %w", left, sendErr)
	}

	return sharing.New(d, dNext), nil
}
