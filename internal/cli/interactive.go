package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/depsweep/depsweep/pkg/refs"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// projectChoice is one row in the interactive project picker.
type projectChoice struct {
	Name     string
	RefCount int
}

// pickProject scans for the package's references, groups them by owning
// project, and lets the user pick one project. Returns "" when the user
// quits without selecting.
func (c *CLI) pickProject(scanner *refs.Scanner, pkg string) (string, error) {
	found, err := scanner.FindReferences(pkg)
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", nil
	}

	counts := make(map[string]int)
	for _, ref := range found {
		counts[ref.ProjectName]++
	}
	choices := make([]projectChoice, 0, len(counts))
	for name, n := range counts {
		choices = append(choices, projectChoice{Name: name, RefCount: n})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Name < choices[j].Name })

	if len(choices) == 1 {
		return choices[0].Name, nil
	}

	model := projectListModel{Package: pkg, Choices: choices}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("interactive selection: %w", err)
	}
	m, ok := final.(projectListModel)
	if !ok || m.Selected == "" {
		return "", nil
	}
	return m.Selected, nil
}

// projectListModel is the bubbletea model for interactive project
// selection.
type projectListModel struct {
	Package  string
	Choices  []projectChoice
	Cursor   int
	Selected string
}

func (m projectListModel) Init() tea.Cmd {
	return nil
}

func (m projectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Choices[m.Cursor].Name
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m projectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select project to upgrade"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s  ·  ↑/↓ navigate  ⏎ select  q quit", m.Package)))
	b.WriteString("\n\n")

	for i, choice := range m.Choices {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-30s %s", cursor, choice.Name,
			listDimStyle.Render(fmt.Sprintf("%d ref(s)", choice.RefCount)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
