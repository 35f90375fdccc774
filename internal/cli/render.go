package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bidchain/pkg/errors"
	"github.com/matzehuels/bidchain/pkg/graph"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  string // comma-separated output formats
	detailed bool   // show node metadata
}

// renderCommand re-renders a chain saved with `eval -f json`. The optimal
// path is selected again from the stored amounts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file.json]",
		Short: "Render a saved bid chain",
		Example: `  bidchain render chain.json
  bidchain render chain.json -f svg,pdf -o out/chain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := c.Config.Render.Formats
			if opts.formats != "" {
				parsed, err := pipeline.ParseFormats(opts.formats)
				if err != nil {
					return err
				}
				formats = parsed
			}
			detailed := c.Config.Render.Detailed
			if cmd.Flags().Changed("detailed") {
				detailed = opts.detailed
			}
			return runRender(cmd.Context(), args[0], basePath(opts.output, args[0]), pipeline.Options{
				Formats:  formats,
				Detailed: detailed,
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node metadata")

	return cmd
}

func runRender(ctx context.Context, input, base string, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	for _, f := range opts.Formats {
		if filepath.Clean(base+"."+f) == filepath.Clean(input) {
			return errors.New(errors.ErrCodeInvalidParameter, "output %s would overwrite the input; pass --output", input)
		}
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded chain", "file", input, "nodes", g.NodeCount(), "edges", g.EdgeCount())

	artifacts, err := pipeline.RenderGraph(ctx, g, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes one file per format as base.<format> and returns
// the written paths in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
