// Package sharing implements the 2-of-3 replicated additive secret sharing
// scheme (§3, §4.2): local add/sub/neg/scalar-mul that preserve the sharing
// invariant without interaction, plus the test-only share/reconstruct
// helpers used to validate it (§8).
package sharing

import (
	"fmt"
	"io"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/party"
)

// Replicated is helper i's view of a replicated share of x: the ordered
// pair (a_i, a_{i+1}) such that a_1 + a_2 + a_3 = x. Adjacent helpers share
// one coordinate (§3).
type Replicated[E field.Element[E]] struct {
	Left  E // a_i, the coordinate indexed by this helper's own role
	Right E // a_{i+1}, the coordinate shared with the next helper in the ring
}

// New constructs a replicated share from its two coordinates.
func New[E field.Element[E]](left, right E) Replicated[E] {
	return Replicated[E]{Left: left, Right: right}
}

// Add returns the coordinate-wise sum of two shares held by the same
// helper. No interaction required.
func (s Replicated[E]) Add(other Replicated[E]) Replicated[E] {
	return Replicated[E]{Left: s.Left.Add(other.Left), Right: s.Right.Add(other.Right)}
}

// Sub returns the coordinate-wise difference of two shares held by the
// same helper. No interaction required.
func (s Replicated[E]) Sub(other Replicated[E]) Replicated[E] {
	return Replicated[E]{Left: s.Left.Sub(other.Left), Right: s.Right.Sub(other.Right)}
}

// Neg returns the coordinate-wise negation of the share. No interaction
// required.
func (s Replicated[E]) Neg() Replicated[E] {
	return Replicated[E]{Left: s.Left.Neg(), Right: s.Right.Neg()}
}

// ScalarMul returns the share multiplied coordinate-wise by a public
// constant k. No interaction required.
func (s Replicated[E]) ScalarMul(k E) Replicated[E] {
	return Replicated[E]{Left: s.Left.Mul(k), Right: s.Right.Mul(k)}
}

// One returns the replicated share of the constant 1 held by the helper
// with the given role: (1,0) for H1, (0,0) for H2, (0,1) for H3, so that the
// three helpers together hold a valid replicated sharing of 1 (§4.2).
func One[E field.Element[E]](f field.Field[E], role party.Role) Replicated[E] {
	zero, one := f.Zero(), f.One()
	switch role {
	case party.H1:
		return Replicated[E]{Left: one, Right: zero}
	case party.H2:
		return Replicated[E]{Left: zero, Right: zero}
	case party.H3:
		return Replicated[E]{Left: zero, Right: one}
	default:
		panic(fmt.Sprintf("sharing: invalid role %v", role))
	}
}

// Share splits x into three replicated shares, one per helper, using src as
// the source of randomness. It is a test/simulation fixture (§8 "Sharing
// laws"), not used by the interactive protocols themselves.
func Share[E field.Element[E]](f field.Field[E], x E, src io.Reader) ([3]Replicated[E], error) {
	x1, err := f.Sample(src)
	if err != nil {
		return [3]Replicated[E]{}, fmt.Errorf("sharing: sample x1: %w", err)
	}
	x2, err := f.Sample(src)
	if err != nil {
		return [3]Replicated[E]{}, fmt.Errorf("sharing: sample x2: %w", err)
	}
	x3 := x.Sub(x1.Add(x2))

	return [3]Replicated[E]{
		{Left: x1, Right: x2},
		{Left: x2, Right: x3},
		{Left: x3, Right: x1},
	}, nil
}

// Reconstruct validates that the three per-helper shares form a valid
// replicated sharing (adjacent helpers agree on one coordinate) and returns
// the plaintext. Panics if the shares are inconsistent, matching the
// reference implementation's reconstruction assertion (§8).
func Reconstruct[E field.Element[E]](h1, h2, h3 Replicated[E]) E {
	if !h1.Right.Sub(h2.Left).IsZero() || !h2.Right.Sub(h3.Left).IsZero() || !h3.Right.Sub(h1.Left).IsZero() {
		panic("sharing: inconsistent replicated shares, adjacent helpers disagree on their common coordinate")
	}
	return h1.Left.Add(h2.Left).Add(h3.Left)
}
