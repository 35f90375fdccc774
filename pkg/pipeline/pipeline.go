// Package pipeline runs a complete bid-chain evaluation.
//
// This package implements the build → select → render pipeline shared by
// the CLI, the TUI and the HTTP server. Centralizing it keeps defaults,
// validation and seeding identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: generate the chain for the requested policy ([chain.Build])
//  2. Select: pick the optimal buyer-to-seller path ([selector.Ranked])
//  3. Render: produce artifacts in the requested formats (JSON, DOT, SVG, PNG, PDF)
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Evaluate(ctx, pipeline.Options{
//	    SSPs:    6,
//	    Bid:     4.0,
//	    Policy:  "conversion",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Each evaluation owns its random generator. When Options.Seed is nil a
// fresh seed is drawn and recorded in [Result.Seed], so any evaluation can
// be replayed exactly.
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/config"
	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/errors"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI, and Server
// =============================================================================

const (
	// DefaultSSPs is the number of intermediaries when none is requested.
	DefaultSSPs = 6

	// DefaultBid is the base bid in dollars.
	DefaultBid = 4.0

	// DefaultPolicy is the fee policy used when none is requested.
	DefaultPolicy = chain.PolicyNameConversion

	// DefaultPNGScale renders PNGs at 2x for high-DPI displays.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Formats lists the supported formats in display order.
func Formats() []string {
	return []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF}
}

// =============================================================================
// Options - Evaluation Configuration
// =============================================================================

// Options contains all inputs of one evaluation.
// This struct supports JSON serialization for API requests.
type Options struct {
	SSPs   int     `json:"ssps"`
	Bid    float64 `json:"bid"`
	Policy string  `json:"policy,omitempty"`
	Seed   *uint64 `json:"seed,omitempty"`

	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Limits bounds SSPs and Bid. The zero value applies config.Default().Limits.
	Limits config.Limits `json:"-"`
}

// OptionsFromConfig seeds Options from a loaded configuration.
func OptionsFromConfig(cfg config.Config) Options {
	opts := Options{
		SSPs:     cfg.Chain.SSPs,
		Bid:      cfg.Chain.Bid,
		Policy:   cfg.Chain.Policy,
		Formats:  slices.Clone(cfg.Render.Formats),
		Detailed: cfg.Render.Detailed,
		Limits:   cfg.Limits,
	}
	if cfg.Chain.Seed != nil {
		seed := *cfg.Chain.Seed
		opts.Seed = &seed
	}
	return opts
}

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.SSPs == 0 {
		o.SSPs = DefaultSSPs
	}
	if o.Bid == 0 {
		o.Bid = DefaultBid
	}
	if o.Policy == "" {
		o.Policy = DefaultPolicy
	}
	if o.Limits == (config.Limits{}) {
		o.Limits = config.Default().Limits
	}
}

// Validate checks the options against their limits and returns the parsed
// policy. Call SetDefaults first.
func (o *Options) Validate() (chain.Policy, error) {
	if err := errors.ValidateSSPCount(o.SSPs, o.Limits.MinSSPs, o.Limits.MaxSSPs); err != nil {
		return 0, err
	}
	if err := errors.ValidateBid(o.Bid, o.Limits.MinBid); err != nil {
		return 0, err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return 0, err
	}
	return chain.ParsePolicy(o.Policy)
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of one evaluation.
type Result struct {
	// ID uniquely identifies this evaluation in logs and HTTP responses.
	ID uuid.UUID

	// Seed reproduces this evaluation when passed back in Options.Seed.
	Seed uint64

	// Policy is the canonical policy name.
	Policy string

	// Graph is the generated bid chain.
	Graph *dag.DAG

	// Path is the optimal buyer-to-seller path.
	Path selector.Path

	// Paths holds every enumerated path; Paths[Best] equals Path.
	Paths []selector.Path
	Best  int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains evaluation statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	PathCount  int
	BuildTime  time.Duration
	SelectTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming and lowercasing each
// entry, and validates the result. Duplicates are dropped.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapStage(stage string, err error) error {
	if errors.GetCode(err) != "" {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", stage)
}
