// Package dag provides the ordered, row-layered directed graph that models a
// bid chain.
//
// # Overview
//
// A bid chain has three layers: the buyer (DSP) in row 0, the intermediaries
// (SSPs) in row 1 and the seller (Publisher) in row 2. Every edge connects
// consecutive rows and carries a monetary [Edge.Amount] held as a
// [github.com/shopspring/decimal.Decimal]; the [Edge.Label] is purely a
// display string.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: dag.DSPID, Kind: dag.KindDSP, Row: 0})
//	g.AddNode(dag.Node{ID: "SSP_1", Kind: dag.KindSSP, Row: 1})
//	g.AddEdge(dag.Edge{From: dag.DSPID, To: "SSP_1", Role: dag.RoleBid, Amount: decimal.NewFromInt(4)})
//
// # Ordering
//
// Nodes, edges and per-node adjacency are all kept in insertion order. Path
// enumeration in pkg/selector walks [DAG.Out] in that order, so ties between
// equally valued paths always resolve to the path whose intermediary was
// added first.
package dag
