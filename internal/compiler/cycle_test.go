package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(nodes []string, edges map[string][]string) *typeGraph {
	g := newTypeGraph()
	for _, n := range nodes {
		g.addNode(n)
	}
	for _, n := range nodes {
		for _, to := range edges[n] {
			g.addEdge(n, to)
		}
	}
	return g
}

func TestAnalyzeCyclesDAG(t *testing.T) {
	g := graphOf([]string{"A.X", "A.Y", "A.Z"}, map[string][]string{
		"A.X": {"A.Y"},
		"A.Y": {"A.Z"},
	})

	comps, cycles := analyzeCycles(g)
	assert.Empty(t, cycles)
	assert.Empty(t, comps)
	assert.False(t, comps.sameCycle("A.X", "A.Y"))
}

func TestAnalyzeCyclesSelfLoop(t *testing.T) {
	g := graphOf([]string{"DOM.Node"}, map[string][]string{
		"DOM.Node": {"DOM.Node"},
	})

	comps, cycles := analyzeCycles(g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"DOM.Node", "DOM.Node"}, cycles[0].Path)
	assert.Contains(t, cycles[0].Message, "self-referential")
	assert.True(t, comps.sameCycle("DOM.Node", "DOM.Node"))
}

func TestAnalyzeCyclesMultiNode(t *testing.T) {
	g := graphOf([]string{"A.X", "A.Y", "B.Z", "B.W"}, map[string][]string{
		"A.X": {"A.Y"},
		"A.Y": {"B.Z"},
		"B.Z": {"A.X"},
		"B.W": {"A.X"},
	})

	comps, cycles := analyzeCycles(g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"A.X", "A.Y", "B.Z", "A.X"}, cycles[0].Path)
	assert.True(t, comps.sameCycle("B.Z", "A.X"))
	assert.False(t, comps.sameCycle("B.W", "A.X"), "edge into a cycle is not on it")
}

func TestAnalyzeCyclesTwoSeparate(t *testing.T) {
	g := graphOf([]string{"A.X", "A.Y", "B.P", "B.Q"}, map[string][]string{
		"A.X": {"A.Y"},
		"A.Y": {"A.X"},
		"B.P": {"B.Q"},
		"B.Q": {"B.P"},
	})

	comps, cycles := analyzeCycles(g)
	require.Len(t, cycles, 2)
	assert.True(t, comps.sameCycle("A.X", "A.Y"))
	assert.True(t, comps.sameCycle("B.P", "B.Q"))
	assert.False(t, comps.sameCycle("A.X", "B.P"))
}

func TestAnalyzeCyclesDeterministic(t *testing.T) {
	build := func() []Cycle {
		g := graphOf([]string{"A.X", "A.Y", "A.Z"}, map[string][]string{
			"A.X": {"A.Y", "A.Z"},
			"A.Y": {"A.X"},
			"A.Z": {"A.Z"},
		})
		_, cycles := analyzeCycles(g)
		return cycles
	}

	first := build()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build())
	}
}

func TestReconstructCyclePathEmpty(t *testing.T) {
	assert.Equal(t, []string{}, reconstructCyclePath(nil, newTypeGraph()))
}
