// Package graph provides the serialization format for evaluated bid chains.
//
// This is the boundary between the core (pkg/dag, pkg/chain, pkg/selector)
// and any external renderer. A serialized [Graph] is a node-link document in
// which every edge carries its numeric amount, its display label and a
// boolean optimal flag:
//
//	{
//	  "policy": "conversion",
//	  "nodes": [{"id": "DSP", "label": "DSP", "kind": "dsp", "row": 0, "x": 1, "y": 0}],
//	  "edges": [{"from": "DSP", "to": "SSP_1", "role": "Bid", "amount": "4", "label": "Bid: $4.00", "optimal": true}],
//	  "optimal": {"nodes": ["DSP", "SSP_1", "Publisher"], "total": "24"}
//	}
//
// Amounts are encoded as decimal strings so no precision is lost.
//
// Common operations:
//
//	data, _ := graph.Marshal(g, best)      // DAG + path → []byte
//	graph.WriteFile(g, best, "chain.json") // DAG + path → file
//	g, _ := graph.ReadFile("chain.json")   // file → DAG
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
