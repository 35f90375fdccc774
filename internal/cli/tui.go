package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/config"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

var (
	controlLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	controlFocusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	controlNormalStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	sliderFilledStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	sliderEmptyStyle    = lipgloss.NewStyle().Foreground(colorDim)
	tuiErrorStyle       = lipgloss.NewStyle().Foreground(colorRed)
	tuiHelpStyle        = lipgloss.NewStyle().Foreground(colorDim)
	tuiPanelBorderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// control identifies the focused input in ChainModel.
type control int

const (
	controlSSPs control = iota
	controlBid
	controlPolicy
	numControls
)

// =============================================================================
// ChainModel - Interactive chain controls
// =============================================================================

// ChainModel is the bubbletea model behind `bidchain tui`. Every change to
// an input re-runs the evaluation with the current seed; "r" draws a new seed.
type ChainModel struct {
	SSPs   int
	Bid    float64
	Policy chain.Policy
	Seed   uint64
	Focus  control

	Result *pipeline.Result
	Err    error

	limits config.Limits
	runner *pipeline.Runner
	ctx    context.Context
	reseed func() uint64
}

// NewChainModel creates a model from resolved options and runs the first
// evaluation.
func NewChainModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (ChainModel, error) {
	opts.SetDefaults()
	policy, err := opts.Validate()
	if err != nil {
		return ChainModel{}, err
	}

	m := ChainModel{
		SSPs:   opts.SSPs,
		Bid:    opts.Bid,
		Policy: policy,
		limits: opts.Limits,
		runner: runner,
		ctx:    ctx,
		reseed: chain.RandomSeed,
	}
	if opts.Seed != nil {
		m.Seed = *opts.Seed
	} else {
		m.Seed = m.reseed()
	}
	m.evaluate()
	return m, nil
}

func (m *ChainModel) evaluate() {
	seed := m.Seed
	m.Result, m.Err = m.runner.Evaluate(m.ctx, pipeline.Options{
		SSPs:   m.SSPs,
		Bid:    m.Bid,
		Policy: m.Policy.String(),
		Seed:   &seed,
		Limits: m.limits,
	})
}

func (m ChainModel) Init() tea.Cmd {
	return nil
}

func (m ChainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k", "shift+tab":
		m.Focus = (m.Focus + numControls - 1) % numControls
		return m, nil
	case "down", "j", "tab":
		m.Focus = (m.Focus + 1) % numControls
		return m, nil
	case "left", "h", "-":
		m.adjust(-1)
	case "right", "l", "+":
		m.adjust(+1)
	case "p":
		m.togglePolicy()
	case "r":
		m.Seed = m.reseed()
	default:
		return m, nil
	}

	m.evaluate()
	return m, nil
}

// adjust moves the focused control one step in dir, clamped to the limits.
func (m *ChainModel) adjust(dir int) {
	switch m.Focus {
	case controlSSPs:
		n := m.SSPs + dir
		if n < max(m.limits.MinSSPs, 1) || (m.limits.MaxSSPs > 0 && n > m.limits.MaxSSPs) {
			return
		}
		m.SSPs = n
	case controlBid:
		step := decimal.NewFromFloat(m.limits.BidStep).Mul(decimal.NewFromInt(int64(dir)))
		next := decimal.NewFromFloat(m.Bid).Add(step)
		if next.LessThan(decimal.NewFromFloat(m.limits.MinBid)) || !next.IsPositive() {
			return
		}
		m.Bid = next.InexactFloat64()
	case controlPolicy:
		m.togglePolicy()
	}
}

func (m *ChainModel) togglePolicy() {
	policies := chain.Policies()
	for i, p := range policies {
		if p == m.Policy {
			m.Policy = policies[(i+1)%len(policies)]
			return
		}
	}
}

func (m ChainModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Bid chain"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("seed %d", m.Seed)))
	b.WriteString("\n\n")

	maxSSPs := m.limits.MaxSSPs
	if maxSSPs == 0 {
		maxSSPs = m.SSPs
	}
	slider := sliderFilledStyle.Render(strings.Repeat("█", m.SSPs)) +
		sliderEmptyStyle.Render(strings.Repeat("░", max(maxSSPs-m.SSPs, 0)))

	controls := []string{
		m.controlLine(controlSSPs, "SSPs", fmt.Sprintf("%s %d", slider, m.SSPs)),
		m.controlLine(controlBid, "Bid", fmt.Sprintf("$%.2f", m.Bid)),
		m.controlLine(controlPolicy, "Policy", m.Policy.String()),
	}
	b.WriteString(tuiPanelBorderStyle.Render(strings.Join(controls, "\n")))
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(tuiErrorStyle.Render(iconError + " " + m.Err.Error()))
	case m.Result != nil:
		b.WriteString(StyleOptimal.Render(m.Result.Path.String()))
		b.WriteString("  ")
		b.WriteString(StyleNumber.Render("$" + m.Result.Path.Total.StringFixed(2)))
		b.WriteString("\n")
		b.WriteString(pathTable(m.Result.Paths, m.Result.Best))
	}

	b.WriteString("\n\n")
	b.WriteString(tuiHelpStyle.Render("↑/↓ select  ←/→ adjust  p policy  r reseed  q quit"))
	return b.String()
}

func (m ChainModel) controlLine(c control, label, value string) string {
	cursor := "  "
	style := controlNormalStyle
	if m.Focus == c {
		cursor = "▸ "
		style = controlFocusStyle
	}
	return cursor + controlLabelStyle.Render(label) + style.Render(value)
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) tuiCommand() *cobra.Command {
	var flags chainFlags
	defaults := pipeline.Options{}
	defaults.SetDefaults()

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore bid chains interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.OptionsFromConfig(c.Config)
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			opts.Formats = nil

			// The alternate screen owns the terminal; keep log lines off it.
			c.Logger.SetOutput(io.Discard)

			m, err := NewChainModel(cmd.Context(), c.newRunner(), opts)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd, defaults)
	return cmd
}
