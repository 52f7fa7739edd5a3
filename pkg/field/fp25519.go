package field

import (
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

// Fp25519 is the Curve25519 scalar field (order close to 2^252), required by
// §3/§4.1. It wraps filippo.io/edwards25519's constant-time Scalar type,
// which already performs reduction modulo the group order on every
// construction path used below.
type Fp25519 struct {
	s edwards25519.Scalar
}

func fp25519FromScalar(s *edwards25519.Scalar) Fp25519 {
	var out Fp25519
	out.s.Set(s)
	return out
}

// Fp25519Zero is the additive identity.
var Fp25519Zero = fp25519FromScalar(edwards25519.NewScalar())

// Fp25519One is the multiplicative identity.
var Fp25519One = fp25519FromScalar(func() *edwards25519.Scalar {
	// 1, encoded little-endian, zero-extended to the 32-byte canonical width.
	var one [32]byte
	one[0] = 1
	s, err := edwards25519.NewScalar().SetCanonicalBytes(one[:])
	if err != nil {
		panic(fmt.Sprintf("field: failed to construct Fp25519 one: %v", err))
	}
	return s
}())

func (a Fp25519) Add(b Fp25519) Fp25519 {
	var out edwards25519.Scalar
	out.Add(&a.s, &b.s)
	return fp25519FromScalar(&out)
}

func (a Fp25519) Sub(b Fp25519) Fp25519 {
	var out edwards25519.Scalar
	out.Subtract(&a.s, &b.s)
	return fp25519FromScalar(&out)
}

func (a Fp25519) Neg() Fp25519 {
	var out edwards25519.Scalar
	out.Negate(&a.s)
	return fp25519FromScalar(&out)
}

func (a Fp25519) Mul(b Fp25519) Fp25519 {
	var out edwards25519.Scalar
	out.Multiply(&a.s, &b.s)
	return fp25519FromScalar(&out)
}

// Invert returns a^-1 mod the Curve25519 group order.
// Panics if a is zero.
func (a Fp25519) Invert() Fp25519 {
	if a.IsZero() {
		panic("field: inversion of zero element")
	}
	var out edwards25519.Scalar
	out.Invert(&a.s)
	return fp25519FromScalar(&out)
}

func (a Fp25519) IsZero() bool {
	return a.s.Equal(&Fp25519Zero.s) == 1
}

// Bytes returns the 32-byte canonical little-endian encoding of a.
func (a Fp25519) Bytes() []byte {
	return a.s.Bytes()
}

func (a Fp25519) String() string {
	return fmt.Sprintf("Fp25519(%x)", a.Bytes())
}

// MarshalBinary implements encoding.BinaryMarshaler so Fp25519 round-trips
// through CBOR as its 32-byte canonical encoding rather than as a struct
// with unexported fields.
func (a Fp25519) MarshalBinary() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The bytes produced
// by MarshalBinary are always canonical, so SetCanonicalBytes round-trips
// exactly rather than reducing.
func (a *Fp25519) UnmarshalBinary(data []byte) error {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(data)
	if err != nil {
		return fmt.Errorf("field: Fp25519 unmarshal: %w", err)
	}
	a.s.Set(s)
	return nil
}

// uniformBytesFromFixedWidth zero-extends a fixed-width little-endian buffer
// to the 64 bytes edwards25519.SetUniformBytes requires, then reduces modulo
// the group order. Zero-extending before reduction is equivalent to reducing
// the original (shorter) integer directly, since the high-order bytes
// contribute zero.
func uniformBytesFromFixedWidth(buf []byte) (Fp25519, error) {
	var wide [64]byte
	copy(wide[:], buf)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return Fp25519{}, fmt.Errorf("field: reduce Fp25519: %w", err)
	}
	return fp25519FromScalar(s), nil
}

// Fp25519Field implements Field[Fp25519].
type Fp25519Field struct{}

func (Fp25519Field) Name() string { return "Fp25519" }

func (Fp25519Field) Size() int { return 32 }

func (Fp25519Field) Zero() Fp25519 { return Fp25519Zero }

func (Fp25519Field) One() Fp25519 { return Fp25519One }

// Sample fills a 32-byte buffer with fresh randomness and reduces modulo the
// group order. Because the order is just above 2^252, the result's
// statistical distance from uniform is below 2^-127.
func (Fp25519Field) Sample(src io.Reader) (Fp25519, error) {
	var buf [32]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return Fp25519{}, fmt.Errorf("field: sample Fp25519: %w", err)
	}
	return uniformBytesFromFixedWidth(buf[:])
}

// Deserialize reduces an arbitrary 32-byte buffer modulo the group order.
// Infallible for a correctly sized input.
func (Fp25519Field) Deserialize(buf []byte) (Fp25519, error) {
	if len(buf) != 32 {
		return Fp25519{}, fmt.Errorf("field: Fp25519 deserialize expects 32 bytes, got %d", len(buf))
	}
	return uniformBytesFromFixedWidth(buf)
}

// FromRandom concatenates two 128-bit PRSS outputs little-endian and reduces
// modulo the group order, bridging PRSS into deterministic per-(step,record)
// field values (§4.1).
func (Fp25519Field) FromRandom(lo, hi [16]byte) Fp25519 {
	var buf [32]byte
	copy(buf[0:16], lo[:])
	copy(buf[16:32], hi[:])
	out, err := uniformBytesFromFixedWidth(buf[:])
	if err != nil {
		// Reduction of a fixed-width buffer can never fail; SetUniformBytes
		// only rejects buffers that are not exactly 64 bytes wide.
		panic(fmt.Sprintf("field: unreachable FromRandom failure: %v", err))
	}
	return out
}
