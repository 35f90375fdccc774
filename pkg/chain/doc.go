// Package chain builds bid-chain graphs.
//
// A bid chain is a DSP buyer, n intermediary SSPs and a Publisher. [Build]
// wires every SSP to the DSP with a "Bid" edge carrying the unmodified base
// bid and to the Publisher with an edge whose value depends on the [Policy]:
//
//   - [ConversionPolicy]: one SSP, chosen uniformly, draws an integer fee
//     f in [1, 9] and sells for baseBid × f. The multiplier is applied
//     as-is, not divided by 100, so the sale can exceed the bid. Every other
//     SSP sells for $0.00.
//   - [CheapestPolicy]: every SSP draws a fee fraction in [0.025, 0.25) and
//     forwards baseBid × (1 − fraction).
//
// Randomness comes only from the [Rand] passed in, so a seeded generator
// (see [NewRand]) reproduces a graph exactly.
//
//	g, err := chain.Build(6, 4.0, chain.ConversionPolicy, chain.NewRand(42))
package chain
