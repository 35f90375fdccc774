package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/errors"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

// chainFlags holds the evaluation inputs shared by eval, tui and serve.
// Only flags the user actually set override the configuration.
type chainFlags struct {
	ssps   int
	bid    float64
	policy string
	seed   uint64
}

func (f *chainFlags) register(cmd *cobra.Command, defaults pipeline.Options) {
	cmd.Flags().IntVarP(&f.ssps, "ssps", "n", defaults.SSPs, "number of SSP intermediaries")
	cmd.Flags().Float64VarP(&f.bid, "bid", "b", defaults.Bid, "DSP bid in dollars")
	cmd.Flags().StringVarP(&f.policy, "policy", "p", defaults.Policy, "fee policy: conversion, cheapest")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "random seed (default: fresh seed per evaluation)")

	_ = cmd.RegisterFlagCompletionFunc("policy", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, 2)
		for _, p := range chain.Policies() {
			names = append(names, p.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply overrides opts with every flag changed on cmd. Explicit zero or
// negative values are rejected here since pipeline defaults would mask them.
func (f *chainFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	flags := cmd.Flags()
	if flags.Changed("ssps") {
		if err := errors.ValidateSSPCount(f.ssps, 1, 0); err != nil {
			return err
		}
		opts.SSPs = f.ssps
	}
	if flags.Changed("bid") {
		if err := errors.ValidateBid(f.bid, 0); err != nil {
			return err
		}
		opts.Bid = f.bid
	}
	if flags.Changed("policy") {
		opts.Policy = f.policy
	}
	if flags.Changed("seed") {
		seed := f.seed
		opts.Seed = &seed
	}
	return nil
}

// evalOpts holds the command-line flags for the eval command.
type evalOpts struct {
	chain    chainFlags
	output   string
	formats  string
	detailed bool
	quiet    bool
}

// evalCommand creates the eval command: build, select, print, and
// optionally write artifacts.
func (c *CLI) evalCommand() *cobra.Command {
	var opts evalOpts
	defaults := pipeline.Options{}
	defaults.SetDefaults()

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Build a bid chain and select the optimal path",
		Long: `Build a bid chain with the given number of SSPs, bid and fee policy, then
list every DSP → Publisher path with its total and mark the optimal one.

With --format the chain is also written to disk (json, dot, svg, png, pdf).`,
		Example: `  bidchain eval
  bidchain eval --ssps 3 --bid 2.5 --policy cheapest --seed 42
  bidchain eval -f svg,json -o chain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeOpts, err := c.evalOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runEval(cmd.Context(), pipeOpts, &opts)
		},
	}

	opts.chain.register(cmd, defaults)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json, dot, svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node metadata in rendered graphs")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the path table")

	return cmd
}

// evalOptions merges configuration and flags into pipeline options.
// Formats are only rendered when requested with --format or --output.
func (c *CLI) evalOptions(cmd *cobra.Command, opts *evalOpts) (pipeline.Options, error) {
	pipeOpts := pipeline.OptionsFromConfig(c.Config)
	if err := opts.chain.apply(cmd, &pipeOpts); err != nil {
		return pipeOpts, err
	}
	pipeOpts.Formats = nil

	switch {
	case opts.formats != "":
		formats, err := pipeline.ParseFormats(opts.formats)
		if err != nil {
			return pipeOpts, err
		}
		pipeOpts.Formats = formats
	case opts.output != "":
		pipeOpts.Formats = c.Config.Render.Formats
	}

	pipeOpts.Detailed = c.Config.Render.Detailed
	if cmd.Flags().Changed("detailed") {
		pipeOpts.Detailed = opts.detailed
	}
	return pipeOpts, nil
}

func (c *CLI) runEval(ctx context.Context, pipeOpts pipeline.Options, opts *evalOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	res, err := c.newRunner().Evaluate(ctx, pipeOpts)
	if err != nil {
		return err
	}

	if !opts.quiet {
		fmt.Println(StyleTitle.Render("Bid chain"))
		printSummary(res, pipeOpts.Bid)
		fmt.Println()
		fmt.Println(pathTable(res.Paths, res.Best))
	}

	if len(res.Artifacts) == 0 {
		return nil
	}
	base := basePath(opts.output, appName)
	paths, err := writeArtifacts(res.Artifacts, pipeOpts.Formats, base)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
