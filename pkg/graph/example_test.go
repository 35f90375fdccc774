package graph_test

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/graph"
	"github.com/matzehuels/bidchain/pkg/selector"
)

func ExampleWrite() {
	g, _ := chain.Build(1, 4.0, chain.ConversionPolicy, chain.NewRand(1))
	best, _ := selector.SelectOptimal(g)

	var buf bytes.Buffer
	if err := graph.Write(g, best, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	parsed, _ := graph.UnmarshalGraph(buf.Bytes())
	fmt.Println("Policy:", parsed.Policy)
	fmt.Println("Nodes:", len(parsed.Nodes))
	fmt.Println("Optimal:", parsed.Optimal.Nodes)
	// Output:
	// Policy: conversion
	// Nodes: 3
	// Optimal: [DSP SSP_1 Publisher]
}
