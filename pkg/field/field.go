// Package field implements the prime-field algebra (§4.1) underlying
// replicated secret sharing: a capability interface shared by every field
// instantiation, plus the two concrete fields the core requires, Fp31 and
// Fp25519.
package field

import "io"

// Element is the capability interface every field value satisfies. It is
// parameterized over the concrete element type so that generic protocol code
// (pkg/sharing, pkg/malicious, pkg/protocol) can be written once and
// instantiated against either Fp31 or Fp25519 without runtime dispatch on the
// hot path.
type Element[E any] interface {
	// Add returns the field sum of the receiver and other.
	Add(other E) E
	// Sub returns the field difference of the receiver and other.
	Sub(other E) E
	// Neg returns the additive inverse of the receiver.
	Neg() E
	// Mul returns the field product of the receiver and other.
	Mul(other E) E
	// Invert returns the multiplicative inverse of the receiver.
	// Panics if the receiver is zero.
	Invert() E
	// IsZero reports whether the receiver is the additive identity.
	IsZero() bool
	// Bytes returns the fixed-width little-endian encoding of the receiver.
	Bytes() []byte
}

// Field bundles the constructors that cannot be expressed as methods on an
// element value: identities, sampling, and deserialization. Each concrete
// field (Fp31Field, Fp25519Field) implements this for its Element type E.
type Field[E Element[E]] interface {
	// Name identifies the field, e.g. "Fp31" or "Fp25519".
	Name() string
	// Size is the fixed serialized width in bytes.
	Size() int
	// Zero returns the additive identity.
	Zero() E
	// One returns the multiplicative identity.
	One() E
	// Sample draws a uniformly random element from src.
	Sample(src io.Reader) (E, error)
	// Deserialize reduces a fixed-width little-endian byte slice modulo p.
	// Deserialization is infallible for a correctly sized buffer; an error
	// is only returned if buf has the wrong length.
	Deserialize(buf []byte) (E, error)
	// FromRandom bridges two 128-bit PRSS outputs into a deterministic field
	// element: the words are concatenated little-endian and reduced modulo p.
	FromRandom(lo, hi [16]byte) E
}
