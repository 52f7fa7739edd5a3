// Package malicious implements malicious-secure shares (§3, §4.3): a pair of
// replicated shares (⟨x⟩, ⟨r·x⟩) where r is a global secret randomization
// scalar, plus the downgrade discipline that keeps plaintext extraction
// confined to authorized sites.
package malicious

import (
	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

// Share is a malicious-secure share of x: the x-component and its
// r-multiple, both as ordinary replicated shares. The invariant (§3) is
// that RX always equals R times X under reconstruction; multiplication by
// another malicious share is a protocol-level operation (pkg/protocol), not
// local algebra, because it requires two parallel replicated
// multiplications.
type Share[E field.Element[E]] struct {
	X  sharing.Replicated[E]
	RX sharing.Replicated[E]
}

// New pairs a replicated share of x with a replicated share of r*x.
func New[E field.Element[E]](x, rx sharing.Replicated[E]) Share[E] {
	return Share[E]{X: x, RX: rx}
}

// Add lifts replicated addition pointwise across both components. No
// interaction required.
func (m Share[E]) Add(other Share[E]) Share[E] {
	return Share[E]{X: m.X.Add(other.X), RX: m.RX.Add(other.RX)}
}

// Sub lifts replicated subtraction pointwise across both components. No
// interaction required.
func (m Share[E]) Sub(other Share[E]) Share[E] {
	return Share[E]{X: m.X.Sub(other.X), RX: m.RX.Sub(other.RX)}
}

// Neg lifts replicated negation pointwise across both components. No
// interaction required.
func (m Share[E]) Neg() Share[E] {
	return Share[E]{X: m.X.Neg(), RX: m.RX.Neg()}
}

// ScalarMul lifts replicated scalar multiplication by a public field
// element k pointwise across both components. No interaction required.
func (m Share[E]) ScalarMul(k E) Share[E] {
	return Share[E]{X: m.X.ScalarMul(k), RX: m.RX.ScalarMul(k)}
}

// One constructs the malicious share of the constant 1 for the given
// helper role, without interaction: the x-component is the canonical
// replicated share of 1 tied to the role (sharing.One), and the rx
// component is the caller-supplied replicated share of the global r (§4.3).
func One[E field.Element[E]](f field.Field[E], role party.Role, rShare sharing.Replicated[E]) Share[E] {
	return Share[E]{X: sharing.One[E](f, role), RX: rShare}
}
