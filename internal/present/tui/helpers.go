package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/tally/internal/workflow"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	defaultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	statusStyles = map[workflow.Severity]lipgloss.Style{
		workflow.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		workflow.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		workflow.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		workflow.SeverityLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
