// Package mpc provides the Context abstraction that protocol code runs
// under (§4.5): the bundle of helper identity, step-tree cursor, PRSS
// endpoint, and gateway handle that every protocol primitive needs. The
// package is named mpc rather than context to avoid shadowing the standard
// library's context package, which every blocking Context method still
// takes and respects.
package mpc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/velamesh/ipa-core/pkg/field"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/party"
	"github.com/velamesh/ipa-core/pkg/prss"
	"github.com/velamesh/ipa-core/pkg/step"
)

// Context bundles everything a protocol primitive needs to run at a single
// node of the step tree (§4.5). Values are immutable; Narrow returns a new
// Context rather than mutating the receiver, so sibling sub-protocols
// sharing a parent never observe each other's cursor.
type Context struct {
	role    party.Role
	tree    *step.Tree
	cursor  *step.Descriptor
	prss    *prss.Endpoint
	gateway *gateway.Gateway
}

// New constructs the root Context for a helper process. The step tree and
// PRSS endpoint are the two pieces of process-wide state besides the
// gateway itself (§9).
func New(role party.Role, tree *step.Tree, prssEndpoint *prss.Endpoint, gw *gateway.Gateway) Context {
	return Context{
		role:    role,
		tree:    tree,
		cursor:  tree.Root(),
		prss:    prssEndpoint,
		gateway: gw,
	}
}

// Role returns the helper identity this context runs as.
func (c Context) Role() party.Role {
	return c.role
}

// Step returns the step path of the context's current cursor.
func (c Context) Step() string {
	return c.cursor.Path
}

// Narrow derives a child context for the named child step (§4.4). The
// child must already exist in the step tree built at startup; narrowing
// does not create nodes.
func (c Context) Narrow(childName string) (Context, error) {
	child, err := c.tree.Narrow(c.cursor, childName)
	if err != nil {
		return Context{}, fmt.Errorf("mpc: narrow from %q to %q: %w", c.cursor.Path, childName, err)
	}
	next := c
	next.cursor = child
	return next, nil
}

// MustNarrow is Narrow for call sites that treat a missing child as a
// programming error (a step file that doesn't match the protocol code).
func (c Context) MustNarrow(childName string) Context {
	next, err := c.Narrow(childName)
	if err != nil {
		panic(err)
	}
	return next
}

// Mesh returns the message channel handle for the context's current step
// (§4.5 ctx.mesh()).
func (c Context) Mesh() *gateway.Mesh {
	return c.gateway.Mesh(c.cursor.Path)
}

// PRSS returns the pairwise-correlated field values for this context's
// (step, record) coordinate (§4.5 ctx.prss(record_id), one of its three
// output modes).
func PRSS[E field.Element[E]](c Context, f field.Field[E], record prss.RecordID) (left, right E) {
	return prss.Pair[E](c.prss, f, c.cursor.Path, record)
}

// ZeroShare returns this helper's component of a three-way sum that
// telescopes to zero, without interaction (§4.5, second prss output mode).
func ZeroShare[E field.Element[E]](c Context, f field.Field[E], record prss.RecordID) E {
	return prss.ZeroShare[E](c.prss, f, c.cursor.Path, record)
}

// ParallelJoin awaits an ordered collection of concurrent sub-protocols,
// returning their results in input order. It fails with the first error
// observed and cancels the remaining goroutines via the shared
// errgroup.Context (§4.5 ctx.parallel_join).
func ParallelJoin[T any](ctx context.Context, fns ...func(context.Context) (T, error)) ([]T, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]T, len(fns))
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			v, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
