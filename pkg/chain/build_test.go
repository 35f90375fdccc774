package chain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/errors"
)

// scriptedRand replays fixed draws so tests can force fee outcomes.
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (r *scriptedRand) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func TestBuildInvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		bid    float64
		policy Policy
		rng    Rand
	}{
		{"zero ssps", 0, 4, ConversionPolicy, NewRand(1)},
		{"negative ssps", -2, 4, ConversionPolicy, NewRand(1)},
		{"zero bid", 3, 0, CheapestPolicy, NewRand(1)},
		{"negative bid", 3, -1, CheapestPolicy, NewRand(1)},
		{"NaN bid", 3, math.NaN(), CheapestPolicy, NewRand(1)},
		{"unknown policy", 3, 4, Policy(7), NewRand(1)},
		{"nil rng", 3, 4, ConversionPolicy, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.n, tt.bid, tt.policy, tt.rng)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidParameter), "code = %v", errors.GetCode(err))
		})
	}
}

func TestBuildTopology(t *testing.T) {
	for _, policy := range Policies() {
		for n := 1; n <= 10; n++ {
			g, err := Build(n, 4.0, policy, NewRand(uint64(n)))
			require.NoError(t, err)
			require.NoError(t, g.Validate())

			assert.Equal(t, n+2, g.NodeCount(), "%s n=%d", policy, n)
			assert.Equal(t, 2*n, g.EdgeCount(), "%s n=%d", policy, n)

			ssps := g.NodesOfKind(dag.KindSSP)
			require.Len(t, ssps, n)
			for i, ssp := range ssps {
				assert.Equal(t, SSPID(i+1), ssp.ID)
				assert.Equal(t, "SSP", ssp.Label)

				in := g.In(ssp.ID)
				out := g.Out(ssp.ID)
				require.Len(t, in, 1)
				require.Len(t, out, 1)
				assert.Equal(t, dag.DSPID, in[0].From)
				assert.Equal(t, dag.PublisherID, out[0].To)
				assert.Equal(t, dag.RoleBid, in[0].Role)
				assert.True(t, in[0].Amount.Equal(decimal.NewFromFloat(4.0)), "inbound amount %s", in[0].Amount)
				assert.False(t, out[0].Amount.IsNegative())
			}
		}
	}
}

func TestBuildConversionProperty(t *testing.T) {
	bids := []float64{1.0, 4.0, 7.3, 12.5}
	for seed := uint64(0); seed < 50; seed++ {
		for _, bid := range bids {
			n := int(seed%10) + 1
			g, err := Build(n, bid, ConversionPolicy, NewRand(seed))
			require.NoError(t, err)

			base := decimal.NewFromFloat(bid)
			winners := 0
			for _, ssp := range g.NodesOfKind(dag.KindSSP) {
				out := g.Out(ssp.ID)[0]
				assert.Equal(t, dag.RoleSale, out.Role)

				f := out.Amount.Div(base)
				assert.True(t, f.IsInteger(), "multiplier %s is not an integer", f)
				assert.True(t, f.GreaterThanOrEqual(decimal.Zero) && f.LessThanOrEqual(decimal.NewFromInt(9)), "multiplier %s out of range", f)
				if f.GreaterThanOrEqual(decimal.NewFromInt(1)) {
					winners++
					assert.Equal(t, int(f.IntPart()), ssp.Meta[MetaFee])
				}
			}
			assert.Equal(t, 1, winners, "seed=%d n=%d", seed, n)
		}
	}
}

func TestBuildCheapestProperty(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		bid := 1.0 + float64(seed)*0.1
		n := int(seed%10) + 1
		g, err := Build(n, bid, CheapestPolicy, NewRand(seed))
		require.NoError(t, err)

		base := decimal.NewFromFloat(bid)
		lo := base.Mul(decimal.RequireFromString("0.75"))
		hi := base.Mul(decimal.RequireFromString("0.975"))
		// frac is drawn from [0.025, 0.25), so 0.975*bid is reachable and
		// the upper bound is inclusive.
		for _, e := range g.In(dag.PublisherID) {
			assert.Equal(t, dag.RoleBid, e.Role)
			assert.True(t, e.Amount.GreaterThan(lo), "%s <= %s", e.Amount, lo)
			assert.True(t, e.Amount.LessThanOrEqual(hi), "%s > %s", e.Amount, hi)
		}
	}
}

func TestBuildConversionForcedWinner(t *testing.T) {
	// winner index 1 -> SSP_2, multiplier draw 4 -> fee 5
	rng := &scriptedRand{ints: []int{1, 4}}
	g, err := Build(3, 4.0, ConversionPolicy, rng)
	require.NoError(t, err)

	want := map[string]string{"SSP_1": "0", "SSP_2": "20", "SSP_3": "0"}
	for id, amount := range want {
		out := g.Out(id)[0]
		assert.True(t, out.Amount.Equal(decimal.RequireFromString(amount)), "%s sale = %s, want %s", id, out.Amount, amount)
	}
	assert.Equal(t, "Sale: $20.00", g.Out("SSP_2")[0].Label)
	assert.Equal(t, "Sale: $0.00", g.Out("SSP_1")[0].Label)
	assert.Equal(t, "Bid: $4.00", g.In("SSP_1")[0].Label)
}

func TestBuildCheapestScripted(t *testing.T) {
	rng := &scriptedRand{floats: []float64{0, 0.5}}
	g, err := Build(2, 10.0, CheapestPolicy, rng)
	require.NoError(t, err)

	// fractions 0.025 and 0.1375
	assert.True(t, g.Out("SSP_1")[0].Amount.Equal(decimal.RequireFromString("9.75")))
	assert.Equal(t, "Bid: $9.75", g.Out("SSP_1")[0].Label)

	diff := g.Out("SSP_2")[0].Amount.Sub(decimal.RequireFromString("8.625")).Abs()
	assert.True(t, diff.LessThan(decimal.New(1, -9)), "SSP_2 amount off by %s", diff)
}

func TestBuildSeededIsReproducible(t *testing.T) {
	a, err := Build(6, 4.0, CheapestPolicy, NewRand(42))
	require.NoError(t, err)
	b, err := Build(6, 4.0, CheapestPolicy, NewRand(42))
	require.NoError(t, err)

	ae, be := a.Edges(), b.Edges()
	require.Equal(t, len(ae), len(be))
	for i := range ae {
		assert.True(t, ae[i].Amount.Equal(be[i].Amount), "edge %d differs", i)
	}
}

func TestBuildGraphMetadata(t *testing.T) {
	g, err := Build(2, 5.0, CheapestPolicy, NewRand(3))
	require.NoError(t, err)
	assert.Equal(t, PolicyNameCheapest, g.Meta()[MetaPolicy])
	assert.Equal(t, 5.0, g.Meta()[MetaBaseBid])
}
