package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/tally/internal/util"
	"github.com/mithrel/tally/internal/workflow"
)

func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		m.refilter()
	case "?":
		m.help = true
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, len(m.visible)-1)
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, len(m.visible)-1)
	case " ", "x":
		if m.cursor < len(m.visible) {
			_ = m.machine.Toggle(snap.Available[m.visible[m.cursor]])
		}
	case "a":
		_ = m.machine.SelectAll()
	case "n":
		_ = m.machine.SelectNone()
	case "/":
		m.filtering = true
		m.filter.Focus()
	case "o":
		return m.openFilePrompt(), nil
	case "enter":
		return m.submit()
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.refilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refilter()
	return m, cmd
}

func (m *Model) refilter() {
	m.visible = util.FuzzyFilter(strings.TrimSpace(m.filter.Value()), m.machine.Snapshot().Available)
	m.cursor = clamp(m.cursor, 0, len(m.visible)-1)
}

func (m Model) pickView() string {
	snap := m.machine.Snapshot()
	selected := make(map[string]bool, len(snap.Selected))
	for _, s := range snap.Selected {
		selected[s] = true
	}
	isDefault := make(map[string]bool, len(snap.Defaults))
	for _, d := range snap.Defaults {
		isDefault[d] = true
	}

	var b strings.Builder
	title := fmt.Sprintf("Entities in %s (%d of %d selected)", snap.File, len(snap.Selected), len(snap.Available))
	if snap.Stage == workflow.Error {
		title = "Analysis failed; press enter to upload the file again"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View() + "\n")
	}
	b.WriteString("\n")

	// Keep the cursor row on screen.
	rows := max(1, m.height-6)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(len(m.visible), start+rows)
	for i := start; i < end; i++ {
		name := snap.Available[m.visible[i]]
		line := checkbox(selected[name]) + " " + name
		if isDefault[name] {
			line += defaultStyle.Render(" (default)")
		}
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(faintStyle.Render("(no matching entities)") + "\n")
	}
	return b.String()
}
