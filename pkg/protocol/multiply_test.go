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

func shareFp31(t *testing.T, f field.Fp31Field, x field.Fp31) [3]sharing.Replicated[field.Fp31] {
	t.Helper()
	shares, err := sharing.Share[field.Fp31](f, x, rand.Reader)
	require.NoError(t, err)
	return shares
}

// TestMultiplyComputesProduct checks a replicated multiplication scenario:
// x=7, y=11 in Fp31, product mod 31 is 77 mod 31 = 15.
func TestMultiplyComputesProduct(t *testing.T) {
	f := fp31Field()
	tr := newTrio(t)
	defer tr.close()

	x := field.NewFp31(7)
	y := field.NewFp31(11)
	xShares := shareFp31(t, f, x)
	yShares := shareFp31(t, f, y)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make([]sharing.Replicated[field.Fp31], 3)
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = protocol.Multiply[field.Fp31](ctx, tr.ctx[i], f, prss.RecordID(0), xShares[i], yShares[i])
		}()
	}
	wg.Wait()

	for i := 0; i < 3; i++ {
		require.NoError(t, errs[i])
	}

	product := sharing.Reconstruct[field.Fp31](results[0], results[1], results[2])
	assert.Equal(t, field.NewFp31(15), product)
}

func TestMultiplyIsBilinear(t *testing.T) {
	f := fp31Field()
	tr := newTrio(t)
	defer tr.close()

	x := field.NewFp31(3)
	y := field.NewFp31(4)
	z := field.NewFp31(9)
	xShares := shareFp31(t, f, x)
	yShares := shareFp31(t, f, y)
	zShares := shareFp31(t, f, z)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	sum := [3]sharing.Replicated[field.Fp31]{
		yShares[0].Add(zShares[0]),
		yShares[1].Add(zShares[1]),
		yShares[2].Add(zShares[2]),
	}

	var wg sync.WaitGroup
	results := make([]sharing.Replicated[field.Fp31], 3)
	for i := 0; i < 3; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := protocol.Multiply[field.Fp31](ctx, tr.ctx[i], f, prss.RecordID(1), xShares[i], sum[i])
			require.NoError(t, err)
			results[i] = r
		}()
	}
	wg.Wait()

	got := sharing.Reconstruct[field.Fp31](results[0], results[1], results[2])
	want := x.Mul(y.Add(z))
	assert.Equal(t, want, got)
}
