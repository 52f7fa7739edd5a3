package field

import (
	"fmt"
	"io"
)

const fp31Modulus = 31

// Fp31 is an element of the prime field modulo 31, used for testing and
// low-rate protocols (§3, §4.1).
type Fp31 struct {
	v uint8
}

// Fp31Zero is the additive identity of Fp31.
var Fp31Zero = Fp31{0}

// Fp31One is the multiplicative identity of Fp31.
var Fp31One = Fp31{1}

// NewFp31 reduces x modulo 31 and returns the resulting element.
func NewFp31(x uint8) Fp31 {
	return Fp31{x % fp31Modulus}
}

func (a Fp31) Add(b Fp31) Fp31 {
	return Fp31{(a.v + b.v) % fp31Modulus}
}

func (a Fp31) Sub(b Fp31) Fp31 {
	return Fp31{(a.v + fp31Modulus - b.v) % fp31Modulus}
}

func (a Fp31) Neg() Fp31 {
	if a.v == 0 {
		return a
	}
	return Fp31{fp31Modulus - a.v}
}

func (a Fp31) Mul(b Fp31) Fp31 {
	return Fp31{uint8((uint16(a.v) * uint16(b.v)) % fp31Modulus)}
}

// Invert returns a^-1 mod 31 via Fermat's little theorem (a^(p-2)).
// Panics if a is zero.
func (a Fp31) Invert() Fp31 {
	if a.v == 0 {
		panic("field: inversion of zero element")
	}
	result := uint16(1)
	base := uint16(a.v)
	exp := uint8(fp31Modulus - 2)
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % fp31Modulus
		}
		base = (base * base) % fp31Modulus
		exp >>= 1
	}
	return Fp31{uint8(result)}
}

func (a Fp31) IsZero() bool {
	return a.v == 0
}

// Bytes returns the single-byte little-endian encoding of a.
func (a Fp31) Bytes() []byte {
	return []byte{a.v}
}

func (a Fp31) String() string {
	return fmt.Sprintf("Fp31(%d)", a.v)
}

// Uint8 returns the raw residue, mostly useful for tests and demos.
func (a Fp31) Uint8() uint8 {
	return a.v
}

// MarshalBinary implements encoding.BinaryMarshaler so Fp31 round-trips
// through CBOR (and any other encoding.BinaryMarshaler-aware codec) as the
// same single-byte wire representation as Bytes.
func (a Fp31) MarshalBinary() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, the inverse of
// MarshalBinary.
func (a *Fp31) UnmarshalBinary(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("field: Fp31 unmarshal expects 1 byte, got %d", len(data))
	}
	a.v = data[0] % fp31Modulus
	return nil
}

// Fp31Field implements Field[Fp31].
type Fp31Field struct{}

func (Fp31Field) Name() string { return "Fp31" }

func (Fp31Field) Size() int { return 1 }

func (Fp31Field) Zero() Fp31 { return Fp31Zero }

func (Fp31Field) One() Fp31 { return Fp31One }

func (Fp31Field) Sample(src io.Reader) (Fp31, error) {
	var buf [1]byte
	for {
		if _, err := io.ReadFull(src, buf[:]); err != nil {
			return Fp31{}, fmt.Errorf("field: sample Fp31: %w", err)
		}
		// Reject bytes >= 248 (8*31) so every residue has exactly 8 preimages.
		if buf[0] < 8*fp31Modulus {
			return NewFp31(buf[0]), nil
		}
	}
}

func (Fp31Field) Deserialize(buf []byte) (Fp31, error) {
	if len(buf) != 1 {
		return Fp31{}, fmt.Errorf("field: Fp31 deserialize expects 1 byte, got %d", len(buf))
	}
	return NewFp31(buf[0]), nil
}

// FromRandom treats lo||hi as a 32-byte little-endian integer and reduces it
// modulo 31, matching the bridging construction used for Fp25519. Processing
// runs most-significant byte first (hi[15] down to lo[0]) so each step's
// multiply-by-256 (256 mod 31 == 8) folds in the next less significant byte.
func (Fp31Field) FromRandom(lo, hi [16]byte) Fp31 {
	var acc uint16
	for i := 15; i >= 0; i-- {
		acc = (acc*8 + uint16(hi[i])) % fp31Modulus
	}
	for i := 15; i >= 0; i-- {
		acc = (acc*8 + uint16(lo[i])) % fp31Modulus
	}
	return Fp31{uint8(acc)}
}
