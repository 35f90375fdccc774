package nodelink

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/matzehuels/bidchain/pkg/dag"
	"github.com/matzehuels/bidchain/pkg/selector"
)

func chain(t *testing.T) (*dag.DAG, selector.Path) {
	t.Helper()
	g := dag.New(nil)
	nodes := []dag.Node{
		{ID: dag.PublisherID, Kind: dag.KindPublisher, Row: 2},
		{ID: dag.DSPID, Kind: dag.KindDSP, Row: 0},
		{ID: "SSP_1", Kind: dag.KindSSP, Row: 1, Meta: dag.Metadata{"fee": 0}},
		{ID: "SSP_2", Kind: dag.KindSSP, Row: 1, Meta: dag.Metadata{"fee": 5}},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	bid := decimal.NewFromInt(4)
	edges := []dag.Edge{
		{From: dag.DSPID, To: "SSP_1", Role: dag.RoleBid, Amount: bid},
		{From: "SSP_1", To: dag.PublisherID, Role: dag.RoleSale, Amount: decimal.Zero},
		{From: dag.DSPID, To: "SSP_2", Role: dag.RoleBid, Amount: bid},
		{From: "SSP_2", To: dag.PublisherID, Role: dag.RoleSale, Amount: decimal.NewFromInt(20)},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	best, err := selector.SelectOptimal(g)
	if err != nil {
		t.Fatal(err)
	}
	return g, best
}

func TestToDOT_Basic(t *testing.T) {
	g, best := chain(t)
	dot := ToDOT(g, best, Options{})

	for _, want := range []string{
		"digraph G",
		"rankdir=RL",
		`"DSP" [label="DSP"]`,
		`"Publisher" [label="Publisher"]`,
		`{ rank=same; "SSP_1"; "SSP_2"; }`,
		`label="Sale: $20.00"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_HighlightsOptimalPath(t *testing.T) {
	g, best := chain(t)
	dot := ToDOT(g, best, Options{})

	lines := strings.Split(dot, "\n")
	edgeLine := func(from, to string) string {
		prefix := `  "` + from + `" -> "` + to + `"`
		for _, l := range lines {
			if strings.HasPrefix(l, prefix) {
				return l
			}
		}
		t.Fatalf("edge %s -> %s not found", from, to)
		return ""
	}

	for _, hop := range [][2]string{{"DSP", "SSP_2"}, {"SSP_2", "Publisher"}} {
		l := edgeLine(hop[0], hop[1])
		if !strings.Contains(l, HighlightColor) || !strings.Contains(l, "penwidth=2") {
			t.Errorf("optimal edge not highlighted: %s", l)
		}
	}
	for _, hop := range [][2]string{{"DSP", "SSP_1"}, {"SSP_1", "Publisher"}} {
		l := edgeLine(hop[0], hop[1])
		if strings.Contains(l, HighlightColor) || !strings.Contains(l, "penwidth=1") {
			t.Errorf("non-optimal edge highlighted: %s", l)
		}
	}
}

func TestToDOT_CustomHighlight(t *testing.T) {
	g, best := chain(t)
	dot := ToDOT(g, best, Options{HighlightColor: "red"})
	if !strings.Contains(dot, `color="red"`) {
		t.Error("custom highlight color not applied")
	}
	if strings.Contains(dot, HighlightColor) {
		t.Error("default highlight color should be replaced")
	}
}

func TestToDOT_NoPath(t *testing.T) {
	g, _ := chain(t)
	dot := ToDOT(g, selector.Path{}, Options{})
	if strings.Contains(dot, HighlightColor) {
		t.Error("no edge should be highlighted without a path")
	}
}

func TestFmtLabel(t *testing.T) {
	n := dag.Node{ID: "SSP_2", Label: "SSP", Meta: dag.Metadata{"fee": 5, "index": 2}}

	if got := fmtLabel(n, false); got != "SSP_2" {
		t.Errorf("fmtLabel() simple = %q, want SSP_2", got)
	}

	got := fmtLabel(n, true)
	if !strings.HasPrefix(got, "SSP_2\n") {
		t.Errorf("fmtLabel() detailed should start with ID: %q", got)
	}
	if !strings.Contains(got, "fee: 5\nindex: 2") {
		t.Errorf("fmtLabel() detailed missing sorted metadata: %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() should leave SVG without viewBox untouched")
	}
}
