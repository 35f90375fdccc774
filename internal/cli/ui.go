package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bidchain/pkg/pipeline"
	"github.com/matzehuels/bidchain/pkg/render/nodelink"
	"github.com/matzehuels/bidchain/pkg/selector"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan      = lipgloss.Color("36")  // Teal - primary actions
	colorRed       = lipgloss.Color("167") // Soft red - errors
	colorWhite     = lipgloss.Color("255") // Bright white - values
	colorGray      = lipgloss.Color("245") // Gray - secondary text
	colorDim       = lipgloss.Color("240") // Dim gray - muted text
	colorHighlight = lipgloss.Color(nodelink.HighlightColor)
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleOptimal = lipgloss.NewStyle().Bold(true).Foreground(colorHighlight)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

const (
	iconError = "✗"
	iconArrow = "→"
	iconBest  = "★"
)

// =============================================================================
// Line Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Evaluation Output
// =============================================================================

// pathTable renders every candidate path with its total, marking the best.
func pathTable(paths []selector.Path, best int) string {
	rows := make([][]string, len(paths))
	for i, p := range paths {
		mark := ""
		if i == best {
			mark = iconBest
		}
		rows[i] = []string{mark, strconv.Itoa(i + 1), p.String(), "$" + p.Total.StringFixed(2)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Path", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case row == best:
				return styleCell.Inherit(StyleOptimal)
			default:
				return styleCell.Foreground(colorGray)
			}
		})
	return t.Render()
}

// printSummary prints the evaluation header shared by eval and tui.
func printSummary(res *pipeline.Result, bid float64) {
	printKeyValue("policy", res.Policy)
	printKeyValue("ssps", strconv.Itoa(res.Stats.NodeCount-2))
	printKeyValue("bid", fmt.Sprintf("$%.2f", bid))
	printKeyValue("seed", strconv.FormatUint(res.Seed, 10))
	printKeyValue("optimal", StyleOptimal.Render(res.Path.String())+" "+StyleNumber.Render("$"+res.Path.Total.StringFixed(2)))
}
