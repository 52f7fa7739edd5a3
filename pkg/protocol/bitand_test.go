package protocol_test

import (
	"context"
	"crypto/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/protocol"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

func TestBitwiseANDMatchesPlaintext(t *testing.T) {
	f := fp31Field()
	tr := newTrio(t)
	defer tr.close()

	aBits := []uint8{1, 0, 1}
	bBits := []uint8{1, 1, 0}
	wantBits := []uint8{1, 0, 0}

	aShares := make([][3]sharing.Replicated[field.Fp31], len(aBits))
	bShares := make([][3]sharing.Replicated[field.Fp31], len(bBits))
	for i, bit := range aBits {
		s, err := sharing.Share[field.Fp31](f, field.NewFp31(bit), rand.Reader)
		require.NoError(t, err)
		aShares[i] = s
	}
	for i, bit := range bBits {
		s, err := sharing.Share[field.Fp31](f, field.NewFp31(bit), rand.Reader)
		require.NoError(t, err)
		bShares[i] = s
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([][]sharing.Replicated[field.Fp31], 3)
	errs := make([]error, 3)
	for h := 0; h < 3; h++ {
		h := h
		a := make([]sharing.Replicated[field.Fp31], len(aBits))
		b := make([]sharing.Replicated[field.Fp31], len(bBits))
		for i := range aBits {
			a[i] = aShares[i][h]
			b[i] = bShares[i][h]
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[h], errs[h] = protocol.BitwiseAND[field.Fp31](ctx, tr.ctx[h], f, prss.RecordID(0), a, b)
		}()
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		require.NoError(t, errs[i])
	}

	for i, want := range wantBits {
		got := sharing.Reconstruct[field.Fp31](results[0][i], results[1][i], results[2][i])
		assert.Equal(t, field.NewFp31(want), got)
	}
}

func TestBitwiseANDRejectsLengthMismatch(t *testing.T) {
	f := fp31Field()
	tr := newTrio(t)
	defer tr.close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	a := []sharing.Replicated[field.Fp31]{sharing.New(field.Fp31Zero, field.Fp31Zero)}
	b := []sharing.Replicated[field.Fp31]{}

	_, err := protocol.BitwiseAND[field.Fp31](ctx, tr.ctx[0], f, prss.RecordID(0), a, b)
	assert.Error(t, err)
}

func TestBitwiseANDRejectsTooManyBits(t *testing.T) {
	f := fp31Field()
	tr := newTrio(t)
	defer tr.close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	wide := make([]sharing.Replicated[field.Fp31], protocol.MaxBits+1)
	for i := range wide {
		wide[i] = sharing.New(field.Fp31Zero, field.Fp31Zero)
	}

	_, err := protocol.BitwiseAND[field.Fp31](ctx, tr.ctx[0], f, prss.RecordID(0), wide, wide)
	assert.Error(t, err)
}
