package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/errors"
	"github.com/matzehuels/bidchain/pkg/graph"
	"github.com/matzehuels/bidchain/pkg/render/nodelink"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// Render generates output artifacts in the requested formats. The DOT
// source is produced once and shared by the image formats.
func Render(ctx context.Context, g *dag.DAG, best selector.Path, seed *uint64, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	if len(opts.Formats) == 0 {
		return artifacts, nil
	}

	dot := nodelink.ToDOT(g, best, nodelink.Options{Detailed: opts.Detailed})

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = marshalResult(g, best, seed)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderGraph renders a chain that was loaded from disk rather than built.
// The optimal path is re-selected since the wire form does not carry it
// authoritatively. The JSON artifact records opts.Seed when set.
func RenderGraph(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	best, err := selector.SelectOptimal(g)
	if err != nil {
		return nil, err
	}
	return Render(ctx, g, best, opts.Seed, opts)
}

func marshalResult(g *dag.DAG, best selector.Path, seed *uint64) ([]byte, error) {
	gj := graph.FromDAG(g, best)
	gj.Seed = seed
	return graph.MarshalGraph(gj)
}
