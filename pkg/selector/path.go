package selector

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/bidchain/pkg/dag"
)

// Path is an ordered sequence of edges from a source to a target.
type Path struct {
	Edges []dag.Edge
	Total decimal.Decimal
}

func newPath(edges []dag.Edge) Path {
	total := decimal.Zero
	for _, e := range edges {
		total = total.Add(e.Amount)
	}
	return Path{Edges: slices.Clone(edges), Total: total}
}

// Len returns the number of hops in the path.
func (p Path) Len() int { return len(p.Edges) }

// Empty reports whether the path has no edges.
func (p Path) Empty() bool { return len(p.Edges) == 0 }

// NodeIDs returns the visited node IDs, source first.
func (p Path) NodeIDs() []string {
	if len(p.Edges) == 0 {
		return nil
	}
	ids := make([]string, 0, len(p.Edges)+1)
	ids = append(ids, p.Edges[0].From)
	for _, e := range p.Edges {
		ids = append(ids, e.To)
	}
	return ids
}

// Contains reports whether the path traverses the hop from→to.
func (p Path) Contains(from, to string) bool {
	for _, e := range p.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Equal reports whether both paths traverse the same hops with the same
// amounts.
func (p Path) Equal(o Path) bool {
	return slices.EqualFunc(p.Edges, o.Edges, func(a, b dag.Edge) bool {
		return a.From == b.From && a.To == b.To && a.Role == b.Role && a.Amount.Equal(b.Amount)
	})
}

// String renders the path as "DSP → SSP_2 → Publisher".
func (p Path) String() string {
	return strings.Join(p.NodeIDs(), " → ")
}
