package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/observability"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// Runner executes evaluations.
//
// The Runner is stateless except for the logger - it doesn't store
// results or share a random generator between calls. Multiple goroutines
// can safely use the same Runner.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Evaluate runs the complete build → select → render pipeline.
func (r *Runner) Evaluate(ctx context.Context, opts Options) (*Result, error) {
	opts.SetDefaults()
	policy, err := opts.Validate()
	if err != nil {
		return nil, err
	}

	seed := chain.RandomSeed()
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	result := &Result{
		ID:     uuid.New(),
		Seed:   seed,
		Policy: policy.String(),
	}
	logger := r.Logger.With("evaluation", result.ID.String())
	hooks := observability.Evaluation()

	// Stage 1: Build
	buildStart := time.Now()
	hooks.OnBuildStart(ctx, result.Policy, opts.SSPs)
	g, err := r.Build(opts.SSPs, opts.Bid, policy, seed)
	result.Stats.BuildTime = time.Since(buildStart)
	nodeCount := 0
	if g != nil {
		nodeCount = g.NodeCount()
	}
	hooks.OnBuildComplete(ctx, result.Policy, nodeCount, result.Stats.BuildTime, err)
	if err != nil {
		return nil, wrapStage("build", err)
	}
	result.Graph = g
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	logger.Debug("built chain",
		"policy", result.Policy,
		"ssps", opts.SSPs,
		"seed", seed,
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 2: Select
	selectStart := time.Now()
	paths, best, err := selector.Ranked(g)
	result.Stats.SelectTime = time.Since(selectStart)
	if err != nil {
		hooks.OnSelectComplete(ctx, "", "", result.Stats.SelectTime, err)
		return nil, wrapStage("select", err)
	}
	result.Paths = paths
	result.Best = best
	result.Path = paths[best]
	result.Stats.PathCount = len(paths)
	hooks.OnSelectComplete(ctx, result.Path.String(), result.Path.Total.StringFixed(2), result.Stats.SelectTime, nil)

	logger.Debug("selected path",
		"path", result.Path.String(),
		"total", result.Path.Total.StringFixed(2),
		"candidates", len(paths),
		"duration", result.Stats.SelectTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, g, result.Path, &seed, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, wrapStage("render", err)
	}
	result.Artifacts = artifacts

	if len(opts.Formats) > 0 {
		logger.Debug("rendered outputs",
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}
	return result, nil
}

// Build generates a chain with a generator seeded from seed.
func (r *Runner) Build(n int, bid float64, policy chain.Policy, seed uint64) (*dag.DAG, error) {
	return chain.Build(n, bid, policy, chain.NewRand(seed))
}
