// Package nodelink renders bid chains as node-link diagrams.
//
// # Overview
//
// This package produces Graphviz diagrams in which the optimal
// DSP → Publisher path is visually distinguished: its edges are drawn in
// [HighlightColor] at double width, every other edge is black. Edge labels
// show the role and amount ("Bid: $4.00", "Sale: $20.00").
//
// # Usage
//
//	dot := nodelink.ToDOT(g, best, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
