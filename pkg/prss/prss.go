// Package prss implements Pseudo-Random Secret Sharing: deterministic,
// pairwise-correlated (or zero-summing) randomness derived from a process
// root key and indexed by a (step, record) coordinate (§4.1 from_random,
// §4.5 Context.prss, §5 "no two concurrent tasks may request the same
// (step, record) PRSS output").
package prss

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/party"
)

// RecordID is a monotonically assigned per-protocol index used both as a
// rendezvous key inside a channel (pkg/gateway) and as a PRSS coordinate.
type RecordID uint32

// Endpoint produces PRSS output for a single helper. It is built once from
// a 32-byte process-wide root key (the only other piece of process-wide
// state besides the step tree, per §9) and is safe for concurrent use.
type Endpoint struct {
	role     party.Role
	leftKey  [32]byte // shared with Prev(role)
	rightKey [32]byte // shared with Next(role)

	mu   sync.Mutex
	seen map[seenKey]struct{} // debug-mode double-request guard, §5
}

type seenKey struct {
	step   string
	record RecordID
}

// NewEndpoint derives this helper's two pairwise keys from the shared root
// key: one with its ring predecessor, one with its successor. Every helper
// that derives from the same root key agrees on the same pairwise key for a
// given (role, role) pair, which is what makes the left/right outputs
// correlated across helpers without any interaction.
func NewEndpoint(root [32]byte, role party.Role) *Endpoint {
	return &Endpoint{
		role:     role,
		leftKey:  pairKey(root, role.Prev(), role),
		rightKey: pairKey(root, role, role.Next()),
		seen:     make(map[seenKey]struct{}),
	}
}

// pairKey derives the key shared by the two helpers a and b (order
// independent) from the root key, using blake3's key-derivation mode in the
// same way FROST session hash keys are derived per round.
func pairKey(root [32]byte, a, b party.Role) [32]byte {
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	context := fmt.Sprintf("velamesh/ipa-core prss pair %s-%s", lo, hi)
	var out [32]byte
	blake3.DeriveKey(context, root[:], out[:])
	return out
}

// checkUnique panics in the pattern of a debug assertion (§5) if the same
// (step, record) PRSS coordinate is requested twice; legitimate protocols
// never need to, since each multiplication/reshare narrows into its own
// step before calling into PRSS.
func (e *Endpoint) checkUnique(stepPath string, record RecordID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := seenKey{step: stepPath, record: record}
	if _, ok := e.seen[k]; ok {
		panic(fmt.Sprintf("prss: (step=%q, record=%d) requested more than once on this endpoint", stepPath, record))
	}
	e.seen[k] = struct{}{}
}

// expand runs HKDF-SHA256 over the pairwise key, with the (step, record)
// coordinate as the info parameter, and reads n bytes. This is the key
// schedule mentioned in SPEC_FULL's domain stack, bridging a coarse-grained
// pairwise key into fine-grained per-(step,record) randomness.
func expand(key [32]byte, stepPath string, record RecordID, n int) []byte {
	info := make([]byte, len(stepPath)+4)
	copy(info, stepPath)
	binary.LittleEndian.PutUint32(info[len(stepPath):], uint32(record))

	r := hkdf.New(sha256.New, key[:], nil, info)
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		// hkdf.New's reader only fails once its output is exhausted
		// (255 * hash size); n is always a small constant here.
		panic(fmt.Sprintf("prss: hkdf expansion failed: %v", err))
	}
	return out
}

// Pair returns this helper's (left, right) correlated field elements for
// the given step and record: left is correlated with the predecessor in
// the ring, right with the successor (§4.5 "pair of field elements
// correlated with left/right neighbor"). A well-formed caller narrows into
// a fresh step for every invocation, so the same (step, record) coordinate
// is requested at most once per endpoint (enforced by checkUnique).
func Pair[E field.Element[E]](e *Endpoint, f field.Field[E], stepPath string, record RecordID) (left, right E) {
	e.checkUnique(stepPath, record)
	leftBytes := expand(e.leftKey, stepPath, record, 32)
	rightBytes := expand(e.rightKey, stepPath, record, 32)
	return fromRandomBytes(f, leftBytes), fromRandomBytes(f, rightBytes)
}

// ZeroShare returns this helper's share z_i of a value that sums to zero
// across all three helpers without interaction: z_i = left_i - right_i,
// where right_i for helper i equals left_{i+1} for helper i+1 because they
// derive the same pairwise key, so the telescoping sum z_1+z_2+z_3 is
// exactly zero (§4.2's "z_i sampled pairwise from PRSS such that z_1 + z_2
// + z_3 = 0").
func ZeroShare[E field.Element[E]](e *Endpoint, f field.Field[E], stepPath string, record RecordID) E {
	left, right := Pair(e, f, stepPath, record)
	return left.Sub(right)
}

func fromRandomBytes[E field.Element[E]](f field.Field[E], b []byte) E {
	var lo, hi [16]byte
	copy(lo[:], b[0:16])
	copy(hi[:], b[16:32])
	return f.FromRandom(lo, hi)
}
