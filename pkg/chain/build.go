package chain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/errors"
)

// Fee bounds for the two policies.
const (
	// MinConversionFee and MaxConversionFee bound the winner's integer multiplier.
	MinConversionFee = 1
	MaxConversionFee = 9

	// MinMarkdown is inclusive, MaxMarkdown exclusive.
	MinMarkdown = 0.025
	MaxMarkdown = 0.25
)

// Metadata keys set on SSP nodes.
const (
	MetaFee   = "fee"   // int multiplier (conversion) or float64 fraction (cheapest)
	MetaIndex = "index" // 1-based position among intermediaries
)

// Graph-level metadata keys.
const (
	MetaPolicy  = "policy"
	MetaBaseBid = "base_bid"
)

// SSPID returns the identifier of the i-th intermediary (1-based).
func SSPID(i int) string {
	return fmt.Sprintf("SSP_%d", i)
}

// Build constructs the bid chain for n intermediaries.
//
// Returns an ErrCodeInvalidParameter error when n < 1, baseBid is not a
// finite positive number, the policy is unknown, or rng is nil.
func Build(n int, baseBid float64, policy Policy, rng Rand) (*dag.DAG, error) {
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "ssp count must be at least 1, got %d", n)
	}
	if math.IsNaN(baseBid) || math.IsInf(baseBid, 0) || baseBid <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "base bid must be a finite positive number, got %g", baseBid)
	}
	if !policy.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unknown policy %d", int(policy))
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "random source must not be nil")
	}

	bid := decimal.NewFromFloat(baseBid)
	g := dag.New(dag.Metadata{MetaPolicy: policy.String(), MetaBaseBid: baseBid})

	if err := g.AddNode(dag.Node{ID: dag.PublisherID, Kind: dag.KindPublisher, Row: 2}); err != nil {
		return nil, err
	}
	if err := g.AddNode(dag.Node{ID: dag.DSPID, Kind: dag.KindDSP, Row: 0}); err != nil {
		return nil, err
	}

	var fees feeFunc
	switch policy {
	case ConversionPolicy:
		fees = conversionFees(n, bid, rng)
	case CheapestPolicy:
		fees = cheapestFees(bid, rng)
	}

	for i := 1; i <= n; i++ {
		id := SSPID(i)
		role, amount, fee := fees(i)
		node := dag.Node{
			ID:   id,
			Kind: dag.KindSSP,
			Row:  1,
			Meta: dag.Metadata{MetaFee: fee, MetaIndex: i},
		}
		if err := g.AddNode(node); err != nil {
			return nil, fmt.Errorf("add %s: %w", id, err)
		}
		if err := g.AddEdge(dag.Edge{From: dag.DSPID, To: id, Role: dag.RoleBid, Amount: bid}); err != nil {
			return nil, fmt.Errorf("add bid edge %s: %w", id, err)
		}
		if err := g.AddEdge(dag.Edge{From: id, To: dag.PublisherID, Role: role, Amount: amount}); err != nil {
			return nil, fmt.Errorf("add outbound edge %s: %w", id, err)
		}
	}
	return g, nil
}

// feeFunc returns the outbound edge for the i-th intermediary (1-based)
// together with the fee recorded on the node.
type feeFunc func(i int) (dag.EdgeRole, decimal.Decimal, any)

// conversionFees draws the winner first and its multiplier second.
func conversionFees(n int, bid decimal.Decimal, rng Rand) feeFunc {
	winner := rng.IntN(n) + 1
	fee := MinConversionFee + rng.IntN(MaxConversionFee-MinConversionFee+1)
	return func(i int) (dag.EdgeRole, decimal.Decimal, any) {
		if i != winner {
			return dag.RoleSale, decimal.Zero, 0
		}
		return dag.RoleSale, bid.Mul(decimal.NewFromInt(int64(fee))), fee
	}
}

// cheapestFees draws one markdown per intermediary, in intermediary order.
func cheapestFees(bid decimal.Decimal, rng Rand) feeFunc {
	one := decimal.NewFromInt(1)
	return func(int) (dag.EdgeRole, decimal.Decimal, any) {
		frac := MinMarkdown + rng.Float64()*(MaxMarkdown-MinMarkdown)
		return dag.RoleBid, bid.Mul(one.Sub(decimal.NewFromFloat(frac))), frac
	}
}
