// Package selector finds the most valuable buyer-to-seller path in a bid
// chain.
//
// [AllSimplePaths] is a general depth-first enumeration of simple paths, so
// the selector keeps working if the builder grows richer topologies (for
// example reseller layers between intermediaries and the publisher).
// [SelectOptimal] scores every DSP → Publisher path by the sum of its edge
// amounts and keeps the first path with the strictly greatest total.
package selector

import (
	"iter"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/errors"
)

// AllSimplePaths yields every simple path from source to target.
//
// Outgoing edges are followed in insertion order, so the enumeration order
// is stable for a given graph. A node already on the current path is never
// revisited. Parallel edges between the same pair produce distinct paths.
// Nothing is yielded when either endpoint is missing or source == target.
func AllSimplePaths(g *dag.DAG, source, target string) iter.Seq[Path] {
	return func(yield func(Path) bool) {
		if g == nil || source == target || !g.HasNode(source) || !g.HasNode(target) {
			return
		}

		onPath := map[string]bool{source: true}
		var stack []dag.Edge

		var walk func(id string) bool
		walk = func(id string) bool {
			for _, e := range g.Out(id) {
				if onPath[e.To] {
					continue
				}
				stack = append(stack, e)
				if e.To == target {
					if !yield(newPath(stack)) {
						return false
					}
				} else {
					onPath[e.To] = true
					if !walk(e.To) {
						return false
					}
					delete(onPath, e.To)
				}
				stack = stack[:len(stack)-1]
			}
			return true
		}
		walk(source)
	}
}

// SelectOptimal returns the DSP → Publisher path with the greatest total
// amount. Ties go to the path enumerated first.
//
// Returns an ErrCodeNoPathFound error when the graph has no such path.
func SelectOptimal(g *dag.DAG) (Path, error) {
	return SelectOptimalBetween(g, dag.DSPID, dag.PublisherID)
}

// SelectOptimalBetween is SelectOptimal for arbitrary endpoints.
func SelectOptimalBetween(g *dag.DAG, source, target string) (Path, error) {
	var (
		best  Path
		found bool
	)
	for p := range AllSimplePaths(g, source, target) {
		if !found || p.Total.GreaterThan(best.Total) {
			best, found = p, true
		}
	}
	if !found {
		return Path{}, errors.New(errors.ErrCodeNoPathFound, "no path from %s to %s", source, target)
	}
	return best, nil
}

// Ranked returns every source → target path in enumeration order together
// with the index of the optimal one. It is meant for presentation layers
// that list the alternatives next to the winner.
func Ranked(g *dag.DAG) ([]Path, int, error) {
	var paths []Path
	best := -1
	for p := range AllSimplePaths(g, dag.DSPID, dag.PublisherID) {
		if best < 0 || p.Total.GreaterThan(paths[best].Total) {
			best = len(paths)
		}
		paths = append(paths, p)
	}
	if best < 0 {
		return nil, -1, errors.New(errors.ErrCodeNoPathFound, "no path from %s to %s", dag.DSPID, dag.PublisherID)
	}
	return paths, best, nil
}
