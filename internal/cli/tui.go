package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pathquery/pkg/pipeline"
)

// List styles
var (
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listDetailStyle   = lipgloss.NewStyle().Foreground(colorGray).PaddingLeft(2)
)

// MatchBrowserModel is the bubbletea model for browsing pattern matches.
// Enter selects the current match and quits.
type MatchBrowserModel struct {
	Labels   []string
	Matches  [][]string
	Cursor   int
	Offset   int
	Height   int
	Selected []string

	names map[string]string // node key -> display name
}

// NewMatchBrowserModel creates a browser over the matches of a search result.
func NewMatchBrowserModel(res *pipeline.Result) MatchBrowserModel {
	names := make(map[string]string, len(res.Nodes))
	for _, n := range res.Nodes {
		if n.Name != "" && n.Name != n.ID {
			names[n.ID] = n.Name
		}
	}
	return MatchBrowserModel{
		Labels:  res.Labels,
		Matches: res.Matches,
		Height:  15,
		names:   names,
	}
}

func (m MatchBrowserModel) Init() tea.Cmd {
	return nil
}

func (m MatchBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Matches)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Matches)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter":
			if len(m.Matches) > 0 {
				m.Selected = m.Matches[m.Cursor]
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		// Title, help, the detail line and the table borders take the rest.
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m MatchBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pattern Matches"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Matches))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor + fmt.Sprint(i+1)}, m.Matches[i]...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(listDimStyle).
		Headers(append([]string{"#"}, m.Labels...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case m.Offset+row == m.Cursor:
				return listSelectedStyle
			case col == 0:
				return listDimStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Cursor < len(m.Matches) {
		b.WriteString(listDetailStyle.Render(m.describe(m.Matches[m.Cursor])))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Matches))))

	return b.String()
}

// describe renders a match as label=key pairs, with node names where known.
func (m MatchBrowserModel) describe(match []string) string {
	parts := make([]string, len(match))
	for i, key := range match {
		label := fmt.Sprint(i)
		if i < len(m.Labels) {
			label = m.Labels[i]
		}
		if name, ok := m.names[key]; ok {
			key = fmt.Sprintf("%s (%s)", key, name)
		}
		parts[i] = label + "=" + key
	}
	return strings.Join(parts, "  ")
}
