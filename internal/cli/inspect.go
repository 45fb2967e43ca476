package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shelfconv/pkg/macro"
	"github.com/matzehuels/shelfconv/pkg/pipeline"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags designFlags
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [design.aux]",
		Short: "Browse the macros of a benchmark",
		Long: `Browse the macros of a benchmark.

Opens an interactive table of the canonicalized macros with their size, pin
count and number of instances. Select a macro to list its pins.

Use --plain to print the table without the interactive browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := flags.options(args[0])
			if err != nil {
				return err
			}
			return c.runInspect(cmd.Context(), opts, flags.noCache, plain)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, noCache, plain bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	d, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	result, err := runner.Convert(ctx, d, opts)
	if err != nil {
		return err
	}

	if plain {
		fmt.Println(renderMacroTable(result.Library.Macros, -1, 0, len(result.Library.Macros)))
		printStats([]string{
			fmt.Sprintf("%d macros", len(result.Library.Macros)),
			fmt.Sprintf("%d components", len(result.Library.Components)),
		}, false)
		return nil
	}

	m := newMacroListModel(d.Name, result.Library.Macros)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// MacroListModel - Interactive macro browser
// =============================================================================

// sort orders cycled with "s".
const (
	sortDeclared = iota
	sortInstances
	sortArea
	sortPins
	numSorts
)

var sortNames = [numSorts]string{"declared", "instances", "area", "pins"}

// MacroListModel is the bubbletea model for browsing macros.
type MacroListModel struct {
	Design  string
	Macros  []*macro.Macro
	Cursor  int
	Offset  int
	Height  int
	Sort    int
	Details bool
}

func newMacroListModel(design string, macros []*macro.Macro) MacroListModel {
	return MacroListModel{
		Design: design,
		Macros: slices.Clone(macros),
		Height: 15,
	}
}

func (m MacroListModel) Init() tea.Cmd {
	return nil
}

func (m MacroListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Macros)-1 {
				m.Cursor++
			}
		case "pgdown":
			m.Cursor = min(m.Cursor+m.Height, max(len(m.Macros)-1, 0))
		case "pgup":
			m.Cursor = max(m.Cursor-m.Height, 0)
		case "s":
			m.Sort = (m.Sort + 1) % numSorts
			m.sortMacros()
			m.Cursor, m.Offset = 0, 0
		case "enter":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

func (m *MacroListModel) sortMacros() {
	var key func(*macro.Macro) int64
	switch m.Sort {
	case sortInstances:
		key = func(x *macro.Macro) int64 { return int64(x.Instances) }
	case sortArea:
		key = func(x *macro.Macro) int64 { return int64(x.Width) * int64(x.Height) }
	case sortPins:
		key = func(x *macro.Macro) int64 { return int64(len(x.Pins)) }
	default:
		// Macro names encode declaration order.
		slices.SortStableFunc(m.Macros, func(a, b *macro.Macro) int {
			return cmp.Compare(macroIndex(a.Name), macroIndex(b.Name))
		})
		return
	}
	slices.SortStableFunc(m.Macros, func(a, b *macro.Macro) int {
		return cmp.Compare(key(b), key(a))
	})
}

func macroIndex(name string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(name, "Mac_"))
	return n
}

func (m MacroListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Macros of " + m.Design))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("↑/↓ navigate  ⏎ pins  s sort (%s)  q quit", sortNames[m.Sort])))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Macros))
	b.WriteString(renderMacroTable(m.Macros, m.Cursor, m.Offset, end))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Macros))))

	if m.Details && m.Cursor < len(m.Macros) {
		b.WriteString("\n\n")
		b.WriteString(renderPins(m.Macros[m.Cursor]))
	}
	return b.String()
}

// renderMacroTable renders macros[offset:end], highlighting cursor.
func renderMacroTable(macros []*macro.Macro, cursor, offset, end int) string {
	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		x := macros[i]
		class := "CORE"
		if x.Fixed {
			class = "BLOCK"
		}
		rows = append(rows, []string{
			x.Name,
			fmt.Sprintf("%d x %d", x.Width, x.Height),
			class,
			strconv.Itoa(len(x.Pins)),
			strconv.Itoa(x.Instances),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Macro", "Size", "Class", "Pins", "Instances").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case offset+row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 2 && rows[row][2] == "BLOCK":
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func renderPins(x *macro.Macro) string {
	if len(x.Pins) == 0 {
		return StyleDim.Render("  " + x.Name + " has no pins")
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render("  Pins of " + x.Name))
	b.WriteString("\n")
	for _, p := range x.Pins {
		fmt.Fprintf(&b, "  %-6s %-6s %s\n",
			p.Name, p.Direction, StyleDim.Render(fmt.Sprintf("(%g, %g)", p.Offset.X, p.Offset.Y)))
	}
	return b.String()
}
