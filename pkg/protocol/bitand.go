package protocol

import (
	"context"
	"fmt"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/mpc"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

// MaxBits is the upper bound on bit-decomposed vector length accepted by
// BitwiseAND (§4.7): small enough to keep static step-tree generation
// compact, large enough to cover an 8-bit trigger value or feature weight.
const MaxBits = 8

// BitwiseAND computes the bitwise AND of two aligned bit-decomposed vectors
// by narrowing to a per-bit child step and running one replicated
// multiplication per bit (§4.7). The narrows give every bit index its own
// PRSS domain and message channel, so the n multiplications need no
// coordination with each other and can run concurrently.
func BitwiseAND[E field.Element[E]](ctx context.Context, c mpc.Context, f field.Field[E], record prss.RecordID, a, b []sharing.Replicated[E]) ([]sharing.Replicated[E], error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("protocol: bitwise AND operands have different lengths: %d vs %d", len(a), len(b))
	}
	if len(a) > MaxBits {
		return nil, fmt.Errorf("protocol: bitwise AND supports up to %d bits, got %d", MaxBits, len(a))
	}

	fns := make([]func(context.Context) (sharing.Replicated[E], error), len(a))
	for i := range a {
		i := i
		fns[i] = func(gctx context.Context) (sharing.Replicated[E], error) {
			bitCtx, err := c.Narrow(fmt.Sprintf("bit-%d", i))
			if err != nil {
				return sharing.Replicated[E]{}, fmt.Errorf("protocol: bitwise AND bit %d: %w", i, err)
			}
			return Multiply[E](gctx, bitCtx, f, record, a[i], b[i])
		}
	}
	return mpc.ParallelJoin[sharing.Replicated[E]](ctx, fns...)
}
