package step_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velamesh/ipa-core/pkg/step"
)

const sampleSteps = `s::S::A
s::S::A/t::T::B
s::S::A/t::T::C
s::S::D
`

// TestBuildTreeScenario reproduces §8 scenario 5.
func TestBuildTreeScenario(t *testing.T) {
	tree, err := step.BuildTree(strings.NewReader(sampleSteps))
	require.NoError(t, err)

	assert.Equal(t, 4, tree.Len(), "4 non-root nodes, 5 total with the synthetic root")

	a, ok := tree.ByPath("A")
	require.True(t, ok)
	d, ok := tree.ByPath("D")
	require.True(t, ok)
	assert.Equal(t, tree.Root(), a.Parent())
	assert.Equal(t, tree.Root(), d.Parent())
	assert.ElementsMatch(t, []*step.Descriptor{a, d}, tree.Root().Children())

	b, ok := tree.ByPath("A/B")
	require.True(t, ok)
	c, ok := tree.ByPath("A/C")
	require.True(t, ok)
	assert.Equal(t, a, b.Parent())
	assert.Equal(t, a, c.Parent())
	assert.ElementsMatch(t, []*step.Descriptor{b, c}, a.Children())
}

// TestBuildTreeInvariants reproduces §8's general step-tree properties for
// any valid steps file.
func TestBuildTreeInvariants(t *testing.T) {
	tree, err := step.BuildTree(strings.NewReader(sampleSteps))
	require.NoError(t, err)

	seen := make(map[uint16]bool)
	for id := uint16(1); id <= uint16(tree.Len()); id++ {
		node, ok := tree.ByID(id)
		require.True(t, ok, "id %d should appear exactly once", id)
		assert.False(t, seen[id])
		seen[id] = true

		if node.Parent() != nil {
			assert.Equal(t, node.Parent().Depth+1, node.Depth)
		}
	}
}

func TestBuildTreeRejectsEmptyLines(t *testing.T) {
	_, err := step.BuildTree(strings.NewReader("s::S::A\n\ns::S::B\n"))
	assert.Error(t, err)
}

func TestNarrowIsDeterministic(t *testing.T) {
	tree, err := step.BuildTree(strings.NewReader(sampleSteps))
	require.NoError(t, err)

	first, err := tree.Narrow(tree.Root(), "A")
	require.NoError(t, err)
	second, err := tree.Narrow(tree.Root(), "A")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = tree.Narrow(tree.Root(), "nonexistent")
	assert.Error(t, err)
}

func TestGroupByModulePartitionsWholeTree(t *testing.T) {
	tree, err := step.BuildTree(strings.NewReader(sampleSteps))
	require.NoError(t, err)

	groups := step.GroupByModule(tree)

	total := 0
	seen := make(map[string]bool)
	for _, nodes := range groups {
		for _, n := range nodes {
			require.False(t, seen[n.Path], "node %q must appear in exactly one bucket", n.Path)
			seen[n.Path] = true
			total++
		}
	}
	assert.Equal(t, tree.Len(), total)
}
