package selector_test

import (
	"fmt"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/selector"
)

func ExampleSelectOptimal() {
	g, err := chain.Build(1, 5.0, chain.ConversionPolicy, chain.NewRand(1))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	best, err := selector.SelectOptimal(g)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println(best)
	fmt.Println("Hops:", best.Len())
	// Output:
	// DSP → SSP_1 → Publisher
	// Hops: 2
}
