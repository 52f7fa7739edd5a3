// Command mpc-demo runs a three-helper loopback demonstration of the
// replicated multiplication, reshare, and bitwise-AND protocols over an
// in-memory network, for manual inspection and smoke testing.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/velamesh/ipa-core/internal/memnet"
	"github.com/velamesh/ipa-core/internal/steps"
	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/mpc"
	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/protocol"
	"github.com/velamesh/ipa-core/pkg/sharing"
)

var (
	timeout time.Duration

	rootCmd = &cobra.Command{
		Use:   "mpc-demo",
		Short: "Loopback demo of the replicated three-party MPC core",
	}

	multiplyCmd = &cobra.Command{
		Use:   "multiply [x] [y]",
		Short: "Secret-share x and y in Fp31, multiply them, and print the reconstructed product",
		Args:  cobra.ExactArgs(2),
		RunE:  runMultiply,
	}

	bitAndCmd = &cobra.Command{
		Use:   "bitand [a-bits] [b-bits]",
		Short: "Bitwise AND two equal-length bit strings (e.g. 1011 1101) through the MPC core",
		Args:  cobra.ExactArgs(2),
		RunE:  runBitAnd,
	}

	reshareCmd = &cobra.Command{
		Use:   "reshare [x] [to]",
		Short: "Secret-share x in Fp31 and reshare it toward helper to (H1, H2, or H3)",
		Args:  cobra.ExactArgs(2),
		RunE:  runReshare,
	}
)

func init() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "overall deadline for the demo run")
	rootCmd.AddCommand(multiplyCmd, bitAndCmd, reshareCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// helperRing wires three mpc.Context values together over an in-memory
// network built from the embedded default step tree and a fresh PRSS root
// key, mirroring how a real process would wire a Gateway at startup.
type helperRing struct {
	ctx   [3]mpc.Context
	ring  *memnet.Ring
	close func()
}

func newHelperRing() (*helperRing, error) {
	tree, err := steps.BuildDefault()
	if err != nil {
		return nil, fmt.Errorf("mpc-demo: build step tree: %w", err)
	}

	var root [32]byte
	if _, err := rand.Read(root[:]); err != nil {
		return nil, fmt.Errorf("mpc-demo: generate PRSS root key: %w", err)
	}

	ring := memnet.NewRing(16)
	hr := &helperRing{ring: ring, close: ring.Close}
	for i, role := range party.All() {
		gw := gateway.NewGateway(role, ring.For(role))
		endpoint := prss.NewEndpoint(root, role)
		hr.ctx[i] = mpc.New(role, tree, endpoint, gw)
	}
	return hr, nil
}

func runMultiply(cmd *cobra.Command, args []string) error {
	x, err := parseFp31(args[0])
	if err != nil {
		return err
	}
	y, err := parseFp31(args[1])
	if err != nil {
		return err
	}

	hr, err := newHelperRing()
	if err != nil {
		return err
	}
	defer hr.close()

	f := field.Fp31Field{}
	xShares, err := sharing.Share[field.Fp31](f, x, rand.Reader)
	if err != nil {
		return err
	}
	yShares, err := sharing.Share[field.Fp31](f, y, rand.Reader)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results := make([]sharing.Replicated[field.Fp31], 3)
	errs := make([]error, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		i := i
		helperCtx := hr.ctx[i].MustNarrow("Multiply")
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = protocol.Multiply[field.Fp31](ctx, helperCtx, f, prss.RecordID(0), xShares[i], yShares[i])
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	product := sharing.Reconstruct[field.Fp31](results[0], results[1], results[2])
	fmt.Printf("%d * %d = %d (mod 31)\n", x.Uint8(), y.Uint8(), product.Uint8())
	return nil
}

func runBitAnd(cmd *cobra.Command, args []string) error {
	aBits, err := parseBits(args[0])
	if err != nil {
		return err
	}
	bBits, err := parseBits(args[1])
	if err != nil {
		return err
	}
	if len(aBits) != len(bBits) {
		return fmt.Errorf("mpc-demo: bit strings must be the same length, got %d and %d", len(aBits), len(bBits))
	}

	hr, err := newHelperRing()
	if err != nil {
		return err
	}
	defer hr.close()

	f := field.Fp31Field{}
	aShares := make([][3]sharing.Replicated[field.Fp31], len(aBits))
	bShares := make([][3]sharing.Replicated[field.Fp31], len(bBits))
	for i, bit := range aBits {
		s, err := sharing.Share[field.Fp31](f, field.NewFp31(bit), rand.Reader)
		if err != nil {
			return err
		}
		aShares[i] = s
	}
	for i, bit := range bBits {
		s, err := sharing.Share[field.Fp31](f, field.NewFp31(bit), rand.Reader)
		if err != nil {
			return err
		}
		bShares[i] = s
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results := make([][]sharing.Replicated[field.Fp31], 3)
	errs := make([]error, 3)
	var wg sync.WaitGroup
	for h := 0; h < 3; h++ {
		h := h
		a := make([]sharing.Replicated[field.Fp31], len(aBits))
		b := make([]sharing.Replicated[field.Fp31], len(bBits))
		for i := range aBits {
			a[i] = aShares[i][h]
			b[i] = bShares[i][h]
		}
		helperCtx := hr.ctx[h].MustNarrow("BitwiseAnd")
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[h], errs[h] = protocol.BitwiseAND[field.Fp31](ctx, helperCtx, f, prss.RecordID(0), a, b)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	out := make([]byte, len(aBits))
	for i := range out {
		v := sharing.Reconstruct[field.Fp31](results[0][i], results[1][i], results[2][i])
		out[i] = '0' + v.Uint8()
	}
	fmt.Printf("%s & %s = %s\n", args[0], args[1], out)
	return nil
}

func runReshare(cmd *cobra.Command, args []string) error {
	x, err := parseFp31(args[0])
	if err != nil {
		return err
	}
	target, err := parseRole(args[1])
	if err != nil {
		return err
	}

	hr, err := newHelperRing()
	if err != nil {
		return err
	}
	defer hr.close()

	f := field.Fp31Field{}
	shares, err := sharing.Share[field.Fp31](f, x, rand.Reader)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	results := make([]sharing.Replicated[field.Fp31], 3)
	errs := make([]error, 3)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		i := i
		helperCtx := hr.ctx[i].MustNarrow("Reshare")
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = protocol.Reshare[field.Fp31](ctx, helperCtx, f, prss.RecordID(0), shares[i], target)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	got := sharing.Reconstruct[field.Fp31](results[0], results[1], results[2])
	fmt.Printf("reshare(%d) toward %s reconstructs to %d\n", x.Uint8(), target, got.Uint8())
	return nil
}

func parseFp31(s string) (field.Fp31, error) {
	var v uint8
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return field.Fp31{}, fmt.Errorf("mpc-demo: %q is not a valid Fp31 element: %w", s, err)
	}
	return field.NewFp31(v), nil
}

func parseBits(s string) ([]uint8, error) {
	bits := make([]uint8, len(s))
	for i, r := range s {
		switch r {
		case '0':
			bits[i] = 0
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("mpc-demo: %q is not a binary string", s)
		}
	}
	return bits, nil
}

func parseRole(s string) (party.Role, error) {
	switch s {
	case "H1":
		return party.H1, nil
	case "H2":
		return party.H2, nil
	case "H3":
		return party.H3, nil
	default:
		return 0, fmt.Errorf("mpc-demo: %q is not a valid helper (want H1, H2, or H3)", s)
	}
}
