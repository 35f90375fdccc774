package graph

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// Node kinds as they appear on the wire.
const (
	KindDSP       = "dsp"
	KindSSP       = "ssp"
	KindPublisher = "publisher"
)

// =============================================================================
// Graph - Bid Chain Serialization
// =============================================================================

// Graph is the canonical serialization format for an evaluated bid chain.
// It carries everything a renderer needs: node positions, edge amounts and
// labels, and an optimal flag on each edge of the selected path.
type Graph struct {
	Policy  string   `json:"policy,omitempty"`
	Seed    *uint64  `json:"seed,omitempty"`
	Nodes   []Node   `json:"nodes"`
	Edges   []Edge   `json:"edges"`
	Optimal *Optimal `json:"optimal,omitempty"`
}

// Node is a positioned participant.
//
// X and Y follow the reference plot: the Publisher sits at (-1, 0), the DSP
// at (1, 0) and intermediaries are stacked vertically around y = 0 at x = 0.
type Node struct {
	ID    string         `json:"id"`
	Label string         `json:"label,omitempty"`
	Kind  string         `json:"kind"`
	Row   int            `json:"row"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// Edge is a directed monetary flow.
type Edge struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Role    string          `json:"role"`
	Amount  decimal.Decimal `json:"amount"`
	Label   string          `json:"label"`
	Optimal bool            `json:"optimal,omitempty"`
}

// Optimal summarizes the selected path.
type Optimal struct {
	Nodes []string        `json:"nodes"`
	Total decimal.Decimal `json:"total"`
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// FromDAG converts a DAG and its selected path to the serialization format.
// Nodes and edges keep the DAG's insertion order. An empty path leaves every
// edge unflagged and Optimal nil.
func FromDAG(g *dag.DAG, best selector.Path) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	if p, ok := g.Meta()["policy"].(string); ok {
		out.Policy = p
	}

	pos := Positions(g)
	for _, n := range g.Nodes() {
		p := pos[n.ID]
		out.Nodes = append(out.Nodes, Node{
			ID:    n.ID,
			Label: n.Label,
			Kind:  kindToString(n.Kind),
			Row:   n.Row,
			X:     p.X,
			Y:     p.Y,
			Meta:  copyMeta(n.Meta),
		})
	}

	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{
			From:    e.From,
			To:      e.To,
			Role:    string(e.Role),
			Amount:  e.Amount,
			Label:   e.Label,
			Optimal: best.Contains(e.From, e.To),
		})
	}

	if !best.Empty() {
		out.Optimal = &Optimal{Nodes: best.NodeIDs(), Total: best.Total}
	}
	return out
}

// ToDAG converts a Graph back to a DAG. Positions and optimal flags are
// presentation data and are dropped; re-run the selector to recover the path.
func ToDAG(gj Graph) (*dag.DAG, error) {
	meta := dag.Metadata{}
	if gj.Policy != "" {
		meta["policy"] = gj.Policy
	}
	d := dag.New(meta)

	for _, nj := range gj.Nodes {
		kind, err := stringToKind(nj.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", nj.ID, err)
		}
		n := dag.Node{
			ID:    nj.ID,
			Label: nj.Label,
			Kind:  kind,
			Row:   nj.Row,
			Meta:  copyMeta(nj.Meta),
		}
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", nj.ID, err)
		}
	}

	for _, ej := range gj.Edges {
		e := dag.Edge{
			From:   ej.From,
			To:     ej.To,
			Role:   dag.EdgeRole(ej.Role),
			Amount: ej.Amount,
			Label:  ej.Label,
		}
		if err := d.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", ej.From, ej.To, err)
		}
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// UnmarshalGraph parses JSON bytes into a Graph without building a DAG.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return g, nil
}

// =============================================================================
// Layout
// =============================================================================

// Point is a 2D position in plot units.
type Point struct {
	X, Y float64
}

// Positions assigns plot coordinates to every node. Rows map to columns from
// right (row 0, the DSP) to left (row 2, the Publisher); nodes sharing a row
// are centered on y = 0 one unit apart, in insertion order.
func Positions(g *dag.DAG) map[string]Point {
	pos := make(map[string]Point, g.NodeCount())
	for _, row := range g.RowIDs() {
		nodes := g.NodesInRow(row)
		mid := float64(len(nodes)-1) / 2
		for i, n := range nodes {
			pos[n.ID] = Point{X: float64(1 - row), Y: float64(i) - mid}
		}
	}
	return pos
}

// =============================================================================
// Internal Helpers
// =============================================================================

func copyMeta(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return maps.Clone(m)
}

func kindToString(k dag.NodeKind) string {
	switch k {
	case dag.KindDSP:
		return KindDSP
	case dag.KindSSP:
		return KindSSP
	case dag.KindPublisher:
		return KindPublisher
	default:
		return ""
	}
}

func stringToKind(s string) (dag.NodeKind, error) {
	switch s {
	case KindDSP:
		return dag.KindDSP, nil
	case KindSSP:
		return dag.KindSSP, nil
	case KindPublisher:
		return dag.KindPublisher, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}
