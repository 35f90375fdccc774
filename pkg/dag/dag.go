package dag

import (
	"errors"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNegativeAmount is returned by [DAG.AddEdge] and [DAG.Validate] when
	// an edge carries a monetary amount below zero.
	ErrNegativeAmount = errors.New("edge amount must not be negative")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNonConsecutiveRows is returned by [DAG.Validate] when an edge
	// connects nodes that are not in adjacent rows (From.Row+1 != To.Row).
	ErrNonConsecutiveRows = errors.New("edges must connect consecutive rows")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Well-known node identifiers of a bid chain.
const (
	DSPID       = "DSP"
	PublisherID = "Publisher"
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// Metadata maps are never nil once a node has been added to a DAG.
type Metadata map[string]any

// NodeKind is the role a participant plays in the bid chain.
type NodeKind int

const (
	// KindDSP is the buyer, the source of every bid.
	KindDSP NodeKind = iota
	// KindSSP is an intermediary sitting between the buyer and the seller.
	KindSSP
	// KindPublisher is the seller, the sink of every path.
	KindPublisher
)

// String returns the display label for the kind.
func (k NodeKind) String() string {
	switch k {
	case KindDSP:
		return "DSP"
	case KindSSP:
		return "SSP"
	case KindPublisher:
		return "Publisher"
	default:
		return "unknown"
	}
}

// Node is a participant in the chain. Nodes are immutable once added: the
// DAG keeps its own copy of Meta and hands out copies.
//
// Row places the node in a layer: the DSP sits in row 0, intermediaries in
// row 1 and the Publisher in row 2.
type Node struct {
	ID    string   // Unique identifier (DSP, SSP_1, ..., Publisher)
	Label string   // Display label; defaults to Kind.String()
	Kind  NodeKind // Role in the chain
	Row   int      // Layer assignment (0 = buyer side)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// EdgeRole tags what an edge's amount represents.
type EdgeRole string

const (
	RoleBid  EdgeRole = "Bid"
	RoleSale EdgeRole = "Sale"
)

// Edge is a directed monetary flow between two nodes.
//
// Amount is the authoritative value. Label is a display string built from
// Role and Amount and is never parsed back.
type Edge struct {
	From   string
	To     string
	Role   EdgeRole
	Amount decimal.Decimal
	Label  string
}

// FormatLabel renders the conventional "Role: $X.XX" edge label.
func FormatLabel(role EdgeRole, amount decimal.Decimal) string {
	return string(role) + ": $" + amount.StringFixed(2)
}

// DAG is a directed acyclic graph whose nodes are organized into rows.
//
// Unlike a plain map-backed graph, a DAG remembers insertion order: Nodes,
// Edges and Out all enumerate in the order elements were added. Path
// enumeration relies on that order for deterministic tie-breaking.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
type DAG struct {
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	outgoing map[string][]int // nodeID -> indices into edges
	incoming map[string][]int
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if the ID is
// empty or ErrDuplicateNodeID if it is already taken. An empty Label is
// filled in from the node's Kind.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	n.Meta = maps.Clone(n.Meta)
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	if n.Label == "" {
		n.Label = n.Kind.String()
	}
	d.nodes[n.ID] = &n
	d.order = append(d.order, n.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. An empty Label is
// derived from Role and Amount with [FormatLabel].
//
// Multiple edges between the same ordered pair are allowed; each one is a
// distinct hop for path enumeration.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if e.Label == "" {
		e.Label = FormatLabel(e.Role, e.Amount)
	}
	idx := len(d.edges)
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], idx)
	d.incoming[e.To] = append(d.incoming[e.To], idx)
	return nil
}

// Node returns a copy of the node with the given ID. The copy owns its
// metadata map.
func (d *DAG) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

func (n *Node) clone() Node {
	c := *n
	c.Meta = maps.Clone(n.Meta)
	return c
}

// HasNode reports whether id is part of the graph.
func (d *DAG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (d *DAG) Nodes() []Node {
	out := make([]Node, len(d.order))
	for i, id := range d.order {
		out[i] = d.nodes[id].clone()
	}
	return out
}

// NodesOfKind returns the nodes with the given kind in insertion order.
func (d *DAG) NodesOfKind(k NodeKind) []Node {
	var out []Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Kind == k {
			out = append(out, n.clone())
		}
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// Out returns the outgoing edges of id in insertion order.
func (d *DAG) Out(id string) []Edge {
	return d.collect(d.outgoing[id])
}

// In returns the incoming edges of id in insertion order.
func (d *DAG) In(id string) []Edge {
	return d.collect(d.incoming[id])
}

func (d *DAG) collect(idx []int) []Edge {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Edge, len(idx))
	for i, j := range idx {
		out[i] = d.edges[j]
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// RowIDs returns all row indices in ascending order.
func (d *DAG) RowIDs() []int {
	rows := make(map[int]struct{})
	for _, n := range d.nodes {
		rows[n.Row] = struct{}{}
	}
	return slices.Sorted(maps.Keys(rows))
}

// NodesInRow returns the nodes assigned to row in insertion order.
func (d *DAG) NodesInRow(row int) []Node {
	var out []Node
	for _, id := range d.order {
		if n := d.nodes[id]; n.Row == row {
			out = append(out, n.clone())
		}
	}
	return out
}

// Validate checks graph integrity and returns nil if valid.
//
//  1. All edges connect existing nodes in consecutive rows
//  2. Every edge amount is non-negative
//  3. The graph is acyclic
func (d *DAG) Validate() error {
	if err := d.validateEdgeConsistency(); err != nil {
		return err
	}
	return d.detectCycles()
}

func (d *DAG) validateEdgeConsistency() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if dst.Row != src.Row+1 {
			return ErrNonConsecutiveRows
		}
		if e.Amount.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, idx := range d.outgoing[id] {
			child := d.edges[idx].To
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
