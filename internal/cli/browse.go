package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spotlight/pkg/grid"
)

// browseCommand creates the browse command, an interactive layout viewer.
func (c *CLI) browseCommand() *cobra.Command {
	var frame frameFlags

	cmd := &cobra.Command{
		Use:   "browse [layout.json|manifest|directory]",
		Short: "Scroll through a layout in the terminal",
		Long: `Scroll through a layout in the terminal.

The input is a saved *.layout.json document, or a manifest or image directory
that is laid out first. Scrolling moves a vertical offset through the layout;
the row shown at the top is the one whose top is nearest to that offset.
Pressing + or - relays the items out for a wider or narrower frame and keeps
the item at the top in view.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("json", "yaml", "yml"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := frame.options(cmd, c.cfg.Layout.PipelineOptions())
			if !cmd.Flags().Changed("final") {
				opts.Final = true
			}

			g, err := c.loadGrid(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if g.Len() == 0 {
				newPrinter(cmd.OutOrStdout()).info("%s has no rows", args[0])
				return nil
			}

			p := tea.NewProgram(newBrowseModel(g, args[0]), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	frame.register(cmd)
	return cmd
}

// Browse styles
var (
	browseTitleStyle  = StyleTitle
	browseHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	browseTopStyle    = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// zoomStep is the factor applied to the frame width by + and -.
const zoomStep = 1.1

// browseModel is the bubbletea model for the layout viewer.
type browseModel struct {
	name   string
	grid   *grid.Grid
	offset float64
	lines  int
	err    error
}

func newBrowseModel(g *grid.Grid, name string) browseModel {
	return browseModel{name: name, grid: g, lines: 12}
}

// step is the scroll distance of one key press.
func (m browseModel) step() float64 {
	return m.grid.Config().RowHeight / 2
}

// maxOffset is the top of the last row.
func (m browseModel) maxOffset() float64 {
	rows := m.grid.Rows()
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Top
}

func (m browseModel) scroll(dy float64) browseModel {
	m.offset = min(max(m.offset+dy, 0), m.maxOffset())
	return m
}

// topRow returns the row nearest to the scroll offset.
func (m browseModel) topRow() (grid.Row, float64) {
	row, delta, _ := m.grid.RowAt(m.offset)
	return row, delta
}

// zoom relays the grid out at width*factor and scrolls to the row holding
// the item that was at the top.
func (m browseModel) zoom(factor float64) browseModel {
	top, _ := m.topRow()
	cfg := m.grid.Config()
	cfg.Width *= factor

	next, err := m.grid.Relayout(cfg)
	if err != nil {
		m.err = err
		return m
	}
	m.grid, m.err = next, nil

	if row, ok := next.RowOf(top.Start); ok {
		m.offset = row.Top
	} else {
		m.offset = m.maxOffset()
	}
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.scroll(-m.step())
		case "down", "j":
			m = m.scroll(m.step())
		case "pgup":
			m = m.scroll(-m.step() * float64(m.lines))
		case "pgdown", " ":
			m = m.scroll(m.step() * float64(m.lines))
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.maxOffset()
		case "+", "=":
			m = m.zoom(zoomStep)
		case "-":
			m = m.zoom(1 / zoomStep)
		}
	case tea.WindowSizeMsg:
		m.lines = max(msg.Height-10, 3)
	}
	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	cfg := m.grid.Config()
	b.WriteString(browseTitleStyle.Render(m.name))
	b.WriteString("  ")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("%.0f px wide · row height %.0f · %d rows · %d items",
		cfg.Width, cfg.RowHeight, m.grid.Len(), m.grid.Placed())))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("↑/↓ scroll  pgup/pgdn page  +/- width  q quit"))
	b.WriteString("\n\n")

	top, delta := m.topRow()
	rows := m.grid.Rows()
	end := min(top.Index+m.lines, len(rows))

	cells := make([][]string, 0, end-top.Index)
	for _, r := range rows[top.Index:end] {
		cells = append(cells, []string{
			strconv.Itoa(r.Index),
			fmt.Sprintf("%d-%d", r.Start, r.End),
			strconv.FormatFloat(r.Top, 'f', 0, 64),
			strconv.FormatFloat(r.Height, 'f', 1, 64),
			tileIDs(r, 48),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Items", "Top", "Height", "Tiles").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return browseHeaderStyle
			case row == 0:
				return browseTopStyle
			default:
				return lipgloss.NewStyle()
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	status := fmt.Sprintf("offset %.0f · row %d · delta %+.0f", m.offset, top.Index, delta)
	if p := m.grid.Pending(); p > 0 {
		status += fmt.Sprintf(" · %d pending", p)
	}
	b.WriteString(browseDimStyle.Render(status))
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.err.Error()))
	}
	return b.String()
}

// tileIDs joins the item IDs of a row, truncated to width characters.
func tileIDs(r grid.Row, width int) string {
	ids := make([]string, len(r.Tiles))
	for i, t := range r.Tiles {
		ids[i] = t.ID
	}
	s := strings.Join(ids, " ")
	if len(s) > width {
		s = s[:width-1] + "…"
	}
	return s
}
