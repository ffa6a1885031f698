package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmark/pkg/flow"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command: an interactive node
// browser for a flowchart file.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse flowchart nodes interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(fileArg(args, 0))
			if err != nil {
				return err
			}
			if g.NodeCount() == 0 {
				printInfo("No nodes to inspect")
				return nil
			}

			model := newNodeListModel(g)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// nodeListModel is the bubbletea model for interactive node browsing.
type nodeListModel struct {
	graph  *flow.Graph
	ids    []string
	cursor int
	height int
	offset int
}

func newNodeListModel(g *flow.Graph) nodeListModel {
	return nodeListModel{
		graph:  g,
		ids:    g.NodeIDs(),
		height: 15,
	}
}

func (m nodeListModel) Init() tea.Cmd {
	return nil
}

func (m nodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.ids)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m nodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Flowchart Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.ids) {
		end = len(m.ids)
	}

	for i := m.offset; i < end; i++ {
		id := m.ids[i]
		style := listNormalStyle
		cursor := "  "
		if i == m.cursor {
			style = listSelectedStyle
			cursor = "▸ "
		}
		b.WriteString(cursor + style.Render(nodeLine(m.graph, id)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	return b.String()
}

// nodeLine formats one list row: id, label, and degree summary.
func nodeLine(g *flow.Graph, id string) string {
	label := ""
	if n, ok := g.Node(id); ok && n.Text != nil && n.Text.Value != id {
		label = " " + listDimStyle.Render(fmt.Sprintf("%q", n.Text.Value))
	}
	return fmt.Sprintf("%s%s  %s", id, label,
		listDimStyle.Render(fmt.Sprintf("in:%d out:%d", g.InDegree(id), g.OutDegree(id))))
}

// detailView renders a table of the selected node's links.
func (m nodeListModel) detailView() string {
	id := m.ids[m.cursor]

	rows := [][]string{}
	for _, l := range m.graph.Links() {
		if l.From != id && l.To != id {
			continue
		}
		text := ""
		if l.Text != nil {
			text = l.Text.Value
		}
		rows = append(rows, []string{l.From, iconArrow, l.To, text})
	}
	if len(rows) == 0 {
		return listDimStyle.Render("no links")
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("from", "", "to", "label").
		Rows(rows...)
	return t.Render()
}
