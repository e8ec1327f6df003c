package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/path"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive forest browser
// =============================================================================

type browseRow struct {
	node  *tree.Node
	depth int
}

// BrowseModel is the bubbletea model for browsing a forest. The cursor
// walks the visible rows; collapsing, expanding overflow and focusing
// re-run the reducer and the active path on the same forest.
type BrowseModel struct {
	Forest *tree.Forest
	Cap    int

	Collapsed map[string]bool
	Expanded  map[string]bool
	Focus     string

	Cursor int
	Offset int
	Height int

	rows []browseRow
	path path.Path
}

// NewBrowseModel creates a browse model over f.
func NewBrowseModel(f *tree.Forest, opts visible.Options, focus string) BrowseModel {
	m := BrowseModel{
		Forest:    f,
		Cap:       opts.Cap,
		Collapsed: cloneSet(opts.Collapsed),
		Expanded:  cloneSet(opts.Expanded),
		Focus:     focus,
		Height:    20,
	}
	m.refresh()
	return m
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		if v {
			out[k] = true
		}
	}
	return out
}

// refresh recomputes the visible rows and the active path.
func (m *BrowseModel) refresh() {
	g := visible.Reduce(m.Forest.Roots, visible.Options{
		Collapsed: m.Collapsed,
		Expanded:  m.Expanded,
		Cap:       m.Cap,
	})
	depth := make(map[string]int, len(g.Nodes))
	m.rows = make([]browseRow, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		d := 0
		if pd, ok := depth[n.ParentKey]; ok {
			d = pd + 1
		}
		depth[n.Key] = d
		m.rows = append(m.rows, browseRow{node: n, depth: d})
	}
	m.path = path.Compute(m.Forest.NodesByKey, m.Focus)
	m.Cursor = min(m.Cursor, max(len(m.rows)-1, 0))
}

// Selected returns the node under the cursor.
func (m BrowseModel) Selected() (*tree.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.Cursor].node, true
}

// Rows returns the number of visible rows.
func (m BrowseModel) Rows() int { return len(m.rows) }

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "c":
			m.toggleCollapse()
		case "e":
			m.toggleExpand()
		case "enter", "f":
			m.toggleFocus()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// toggleCollapse collapses or reopens the selected node. Overflow nodes
// expand their parent instead.
func (m *BrowseModel) toggleCollapse() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	if n.Kind == key.KindOverflow {
		m.toggleExpand()
		return
	}
	if n.IsLeaf() {
		return
	}
	if m.Collapsed[n.Key] {
		delete(m.Collapsed, n.Key)
	} else {
		m.Collapsed[n.Key] = true
	}
	m.refresh()
}

// toggleExpand lifts or restores the child cap of the selected node, or of
// the parent when an overflow node is selected.
func (m *BrowseModel) toggleExpand() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	target := n.Key
	if n.Kind == key.KindOverflow {
		target = n.ParentKey
	}
	if m.Expanded[target] {
		delete(m.Expanded, target)
	} else {
		m.Expanded[target] = true
	}
	m.refresh()
}

// toggleFocus makes the selected node the focus, or clears the focus when
// it already is.
func (m *BrowseModel) toggleFocus() {
	n, ok := m.Selected()
	if !ok || n.Kind == key.KindOverflow {
		return
	}
	if m.Focus == n.Key {
		m.Focus = ""
	} else {
		m.Focus = n.Key
	}
	m.refresh()
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Opportunity Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space collapse  e expand  ⏎ focus  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		marker := " "
		switch {
		case m.Collapsed[r.node.Key]:
			marker = "+"
		case !r.node.IsLeaf() && r.node.Kind != key.KindOverflow:
			marker = "-"
		}

		line := fmt.Sprintf("%s%s%s %s", cursor, strings.Repeat("  ", r.depth), marker, nodeLine(r.node, m.path, false))
		if i == m.Cursor {
			line = listSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.rows)), len(m.rows))
	if m.Focus != "" {
		status += "  focus " + m.Focus
	}
	b.WriteString(listDimStyle.Render(status))

	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// browseCommand creates the browse command, an interactive terminal view.
func (c *CLI) browseCommand() *cobra.Command {
	var flags viewFlags

	cmd := &cobra.Command{
		Use:   "browse [records.json|records.toml]",
		Short: "Browse the forest interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, flags *viewFlags) error {
	f, err := c.buildForest(ctx, input, flags)
	if err != nil {
		return err
	}
	opts := c.options(flags)
	if err := opts.ValidateForView(); err != nil {
		return err
	}

	m := NewBrowseModel(f, opts.VisibleOptions(), opts.Focus)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if bm, ok := final.(BrowseModel); ok && bm.Focus != "" {
		printInfo("Last focus: %s", StyleHighlight.Render(bm.Focus))
	}
	return nil
}
