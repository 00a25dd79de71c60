package tui

import (
	"strings"

	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

var helpLines = []string{
	"enter      submit (upload, then analyze)",
	"space      toggle entity",
	"a / n      select all / none",
	"/          filter entities",
	"o          choose another file",
	"c          copy report markdown",
	"s          back to the selection",
	"?          close help",
	"q          quit",
}

func helpBox() (string, int, int) {
	body := "Keys\n\n" + strings.Join(helpLines, "\n")
	box := lipglossv2.NewStyle().
		Padding(1, 2).
		Border(lipglossv2.RoundedBorder()).
		BorderForeground(lipglossv2.Color("63")).
		Render(body)
	return box, lipglossv2.Width(box), lipglossv2.Height(box)
}

// renderOverlay composes a centered modal on top of the given base view string.
func (m Model) renderOverlay(base, fg string, overlayW, overlayH int) string {
	termW, termH := m.width, m.height
	if termW <= 0 {
		termW = 80
	}
	if termH <= 0 {
		termH = 24
	}
	x := max(0, (termW-overlayW)/2)
	y := max(0, (termH-overlayH)/2)

	dimBase := lipglossv2.NewStyle().Faint(true).Render(base)
	baseLayer := lipglossv2.NewLayer(dimBase).
		Width(termW).
		Height(termH)
	fgLayer := lipglossv2.NewLayer(fg).
		Width(overlayW).
		Height(overlayH).
		X(x).
		Y(y)

	return lipglossv2.NewCanvas(baseLayer, fgLayer).Render()
}
