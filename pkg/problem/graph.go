package problem

import "sort"

// depGraph is the variable dependency graph: an edge input → target for
// every equation. It backs the solver's diagnostics — when relaxation
// stalls, walking the parents of a blocked variable finds the root
// unknowns that starve its equations.
type depGraph struct {
	nodes   map[string]struct{}
	edges   map[string][]string // input -> targets that consume it
	parents map[string][]string // target -> inputs it needs
}

func newDepGraph() *depGraph {
	return &depGraph{
		nodes:   make(map[string]struct{}),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

func (g *depGraph) addNode(id string) {
	g.nodes[id] = struct{}{}
}

func (g *depGraph) addEdge(input, target string) {
	g.addNode(input)
	g.addNode(target)
	if !contains(g.edges[input], target) {
		g.edges[input] = append(g.edges[input], target)
	}
	if !contains(g.parents[target], input) {
		g.parents[target] = append(g.parents[target], input)
	}
}

// inputs returns the direct inputs of a target, sorted.
func (g *depGraph) inputs(target string) []string {
	out := append([]string(nil), g.parents[target]...)
	sort.Strings(out)
	return out
}

// rootBlockers walks upward from an undetermined variable through its
// undetermined inputs and returns the roots of the blockage: undetermined
// variables that no equation targets. When a cycle of equations starves
// itself (a depends on b, b on a), the cycle members are reported as
// their own roots. isBlocked reports whether a variable is still
// undetermined.
func (g *depGraph) rootBlockers(symbol string, isBlocked func(string) bool) []string {
	visited := make(map[string]bool)
	rootSet := make(map[string]struct{})

	var walk func(string)
	walk = func(sym string) {
		if visited[sym] {
			return
		}
		visited[sym] = true

		if len(g.parents[sym]) == 0 {
			// Nothing targets this variable; it is a root of the blockage.
			rootSet[sym] = struct{}{}
			return
		}
		progressed := false
		for _, in := range g.parents[sym] {
			if isBlocked(in) {
				progressed = true
				walk(in)
			}
		}
		if !progressed {
			// All inputs are known yet the variable stayed undetermined;
			// report it directly (covers self-starving cycles).
			rootSet[sym] = struct{}{}
		}
	}
	walk(symbol)

	if len(rootSet) == 0 {
		// Pure cycle: every member waits on another. Report the whole
		// strongly blocked set so the cycle is visible in diagnostics.
		for sym := range visited {
			if isBlocked(sym) {
				rootSet[sym] = struct{}{}
			}
		}
	}

	roots := make([]string, 0, len(rootSet))
	for r := range rootSet {
		roots = append(roots, r)
	}
	sort.Strings(roots)
	return roots
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
