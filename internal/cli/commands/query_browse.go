package commands

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/repsql/repsql/internal/result"
)

// browseKeyMap binds the pager commands.
type browseKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

var browseKeys = browseKeyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right", "pgdown"),
		key.WithHelp("n", "next page"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left", "pgup"),
		key.WithHelp("p", "prev page"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var helpStyle = lipgloss.NewStyle().Faint(true)

// browseModel is the interactive display surface over a Pager: it renders
// the current page and relays next/prev commands back into the cursor.
type browseModel struct {
	pager *result.Pager
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, browseKeys.Next):
		m.pager.Next()
	case key.Matches(keyMsg, browseKeys.Prev):
		m.pager.Prev()
	case key.Matches(keyMsg, browseKeys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m browseModel) View() string {
	view := m.pager.View()

	var body string
	if len(view) == 0 {
		body = "(empty page)\n"
	} else {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(toPrettyRow(view[0]))
		for _, row := range view[1:] {
			t.AppendRow(toPrettyRow(row))
		}
		body = t.Render() + "\n"
	}

	footer := footerStyle.Render(pageFooter(m.pager))
	help := helpStyle.Render("n next • p prev • q quit")
	return fmt.Sprintf("%s%s\n%s\n", body, footer, help)
}

// browsePages runs the interactive browser until the user quits.
func browsePages(pager *result.Pager) error {
	_, err := tea.NewProgram(browseModel{pager: pager}).Run()
	if err != nil {
		return fmt.Errorf("interactive browser failed: %w", err)
	}
	return nil
}
