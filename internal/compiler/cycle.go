package compiler

import (
	"fmt"
	"strings"
)

// Cycle is a strongly connected group of types that reach themselves
// through object properties or array items.
type Cycle struct {
	Path    []string `json:"path"`    // Cycle path: ["DOM.Node", "DOM.Node"]
	Message string   `json:"message"` // Human-readable description
}

// typeGraph is the type reference graph: qualified type → referenced types.
// nodes keeps load order so traversal, and therefore reporting, is stable.
type typeGraph struct {
	nodes []string
	edges map[string][]string
}

func newTypeGraph() *typeGraph {
	return &typeGraph{edges: make(map[string][]string)}
}

func (g *typeGraph) addNode(n string) {
	if _, ok := g.edges[n]; ok {
		return
	}
	g.nodes = append(g.nodes, n)
	g.edges[n] = []string{}
}

func (g *typeGraph) addEdge(from, to string) {
	g.addNode(from)
	g.edges[from] = append(g.edges[from], to)
}

// components assigns every node on a cycle to its SCC index.
// Nodes that are not on any cycle are absent from the result.
type components map[string]int

// sameCycle reports whether the edge from → to lies on a cycle.
func (c components) sameCycle(from, to string) bool {
	a, ok := c[from]
	if !ok {
		return false
	}
	b, ok := c[to]
	return ok && a == b
}

// analyzeCycles runs Tarjan's algorithm and keeps only the SCCs that are
// real cycles: more than one node, or a single node with a self-loop.
func analyzeCycles(g *typeGraph) (components, []Cycle) {
	comps := make(components)
	var cycles []Cycle

	for _, scc := range tarjanSCC(g) {
		if len(scc) == 1 && !hasSelfLoop(scc[0], g) {
			continue
		}
		id := len(cycles)
		for _, n := range scc {
			comps[n] = id
		}
		cycles = append(cycles, cycleOf(scc, g))
	}

	return comps, cycles
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node string, g *typeGraph) bool {
	for _, neighbor := range g.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Returns a list of SCCs, where each SCC is a list of qualified type names.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(g *typeGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

func cycleOf(scc []string, g *typeGraph) Cycle {
	if len(scc) == 1 {
		return Cycle{
			Path:    []string{scc[0], scc[0]},
			Message: fmt.Sprintf("self-referential type: %s → %s", scc[0], scc[0]),
		}
	}

	path := reconstructCyclePath(scc, g)
	return Cycle{
		Path:    path,
		Message: fmt.Sprintf("recursive types: %s", strings.Join(path, " → ")),
	}
}

// reconstructCyclePath builds a cycle path from an SCC.
//
// Start at the first node in load order, follow edges to other SCC members,
// continue until we return to the start node.
func reconstructCyclePath(scc []string, g *typeGraph) []string {
	if len(scc) == 0 {
		return []string{}
	}

	sccSet := make(map[string]bool)
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	for _, n := range g.nodes {
		if sccSet[n] {
			start = n
			break
		}
	}

	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range g.edges[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}

		if next == "" {
			break
		}

		path = append(path, next)

		if next == start {
			break
		}

		current = next
	}

	return path
}
