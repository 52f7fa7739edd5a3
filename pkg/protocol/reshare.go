package protocol

import (
	"context"
	"fmt"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/malicious"
	"github.com/velamesh/ipa-core/pkg/mpc"
	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

// Reshare re-randomizes a replicated share toward toHelper by one
// interactive round (§4.5). A replicated sharing of x is three edge
// values e_PT, e_TN, e_NP (the coordinate each adjacent pair of helpers
// holds in common) summing to x; this protocol refreshes the two edges
// touching toHelper and leaves the third untouched:
//
//   - toHelper's left-neighbor P adds a PRSS mask z to its shared-with-
//     toHelper coordinate and sends the masked value to toHelper.
//   - toHelper's right-neighbor N subtracts the same mask z from its
//     shared-with-toHelper coordinate and sends the masked value to
//     toHelper.
//   - toHelper simply adopts the two masked values as its new pair.
//
// z is never sent: P and N derive it independently from PRSS, because
// P's left-pairwise key and N's right-pairwise key are the same key by
// construction (the edge between P and N is also a PRSS-correlated pair,
// exactly as in prss.ZeroShare). The value is preserved because +z and -z
// cancel in the sum of the three edges; only P and N's own pair (the
// third, untouched edge) carries no new randomness, which is why toHelper
// must be the caller's focus for any single round of this protocol.
func Reshare[E field.Element[E]](ctx context.Context, c mpc.Context, f field.Field[E], record prss.RecordID, share sharing.Replicated[E], toHelper party.Role) (sharing.Replicated[E], error) {
	mesh := c.Mesh()

	switch c.Role() {
	case toHelper:
		fromPrev, err := gateway.Receive[E](ctx, mesh, toHelper.Prev(), record)
		if err != nil {
			return sharing.Replicated[E]{}, fmt.Errorf("protocol: reshare receive from %s: %w", toHelper.Prev(), err)
		}
		fromNext, err := gateway.Receive[E](ctx, mesh, toHelper.Next(), record)
		if err != nil {
			return sharing.Replicated[E]{}, fmt.Errorf("protocol: reshare receive from %s: %w", toHelper.Next(), err)
		}
		return sharing.New(fromPrev, fromNext), nil

	case toHelper.Prev():
		mask, _ := mpc.PRSS[E](c, f, record)
		masked := share.Right.Add(mask)
		if err := gateway.Send(ctx, mesh, toHelper, record, masked); err != nil {
			return sharing.Replicated[E]{}, fmt.Errorf("protocol: reshare send to %s: %w", toHelper, err)
		}
		return sharing.New(share.Left, masked), nil

	case toHelper.Next():
		_, mask := mpc.PRSS[E](c, f, record)
		masked := share.Left.Sub(mask)
		if err := gateway.Send(ctx, mesh, toHelper, record, masked); err != nil {
			return sharing.Replicated[E]{}, fmt.Errorf("protocol: reshare send to %s: %w", toHelper, err)
		}
		return sharing.New(masked, share.Right), nil

	default:
		return sharing.Replicated[E]{}, fmt.Errorf("protocol: reshare target %s is not a valid role relative to %s", toHelper, c.Role())
	}
}

// ReshareMalicious applies Reshare to both components of a malicious share
// independently, each under its own narrowed step so the two PRSS domains
// never collide (§4.3 "transferring the r-component consistently"). The
// value x and its companion r*x are each exactly preserved by Reshare, so
// the malicious invariant (RX tracks r times the plaintext of X) survives
// the re-randomization.
func ReshareMalicious[E field.Element[E]](ctx context.Context, c mpc.Context, f field.Field[E], record prss.RecordID, share malicious.Share[E], toHelper party.Role) (malicious.Share[E], error) {
	xCtx, err := c.Narrow("reshare-x")
	if err != nil {
		return malicious.Share[E]{}, fmt.Errorf("protocol: reshare malicious: %w", err)
	}
	rxCtx, err := c.Narrow("reshare-rx")
	if err != nil {
		return malicious.Share[E]{}, fmt.Errorf("protocol: reshare malicious: %w", err)
	}

	newX, err := Reshare[E](ctx, xCtx, f, record, share.X, toHelper)
	if err != nil {
		return malicious.Share[E]{}, fmt.Errorf("protocol: reshare malicious x-component: %w", err)
	}
	newRX, err := Reshare[E](ctx, rxCtx, f, record, share.RX, toHelper)
	if err != nil {
		return malicious.Share[E]{}, fmt.Errorf("protocol: reshare malicious rx-component: %w", err)
	}
	return malicious.New(newX, newRX), nil
}
