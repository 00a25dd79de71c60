package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer draws a Dataset on some display surface.
type Renderer interface {
	Render(w io.Writer, ds Dataset) error
}

const (
	RendererTerminal = "terminal"
	RendererNone     = "none"
)

// Lookup resolves a renderer by name. "none" resolves to a nil renderer on
// purpose; ok is false only for names nothing provides.
func Lookup(name string, width int) (r Renderer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RendererTerminal, "":
		return TerminalRenderer{Width: width}, true
	case RendererNone:
		return nil, true
	default:
		return nil, false
	}
}

var (
	shades     = []string{"·", "░", "▒", "▓", "█"}
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	shadeStyle = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("24")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("31")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("44")),
	}
	periodBar = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C72B0"))
	amountBar = lipgloss.NewStyle().Foreground(lipgloss.Color("#C44E52"))
)

// TerminalRenderer draws text charts sized to Width columns.
type TerminalRenderer struct {
	Width int
}

func (t TerminalRenderer) Render(w io.Writer, ds Dataset) error {
	width := t.Width
	if width <= 0 {
		width = 72
	}
	parts := []string{
		heatmapView(ds.Heatmap),
		barsView(PeriodTitle, ds.Period, periodBar, width),
		barsView(AmountTitle, ds.Amount, amountBar, width),
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n")+"\n")
	return err
}

func heatmapView(h HeatmapSeries) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(HeatmapTitle) + "\n")
	if len(h.Cells) == 0 {
		b.WriteString(labelStyle.Render("(no data)") + "\n")
		return b.String()
	}
	rows := map[int]map[int]float64{}
	maxHour := 0
	for _, c := range h.Cells {
		if rows[c.Weekday] == nil {
			rows[c.Weekday] = map[int]float64{}
		}
		rows[c.Weekday][c.Hour] = c.Value
		if c.Hour > maxHour {
			maxHour = c.Hour
		}
	}
	labelW := 0
	for _, wd := range h.Weekdays {
		labelW = max(labelW, lipgloss.Width(wd))
	}

	// Hour header: the leading hour digits, two cells per column.
	b.WriteString(strings.Repeat(" ", labelW+1))
	for hr := 0; hr <= maxHour; hr++ {
		lbl := strconv.Itoa(hr)
		if hr < len(h.Hours) {
			lbl = strings.TrimSuffix(h.Hours[hr], ":00")
		}
		b.WriteString(fmt.Sprintf("%-2s", truncateCells(lbl, 2)))
	}
	b.WriteString("\n")

	for wd := 0; wd < len(rows) || wd < len(h.Weekdays); wd++ {
		name := ""
		if wd < len(h.Weekdays) {
			name = h.Weekdays[wd]
		}
		b.WriteString(labelStyle.Render(padCells(name, labelW)) + " ")
		for hr := 0; hr <= maxHour; hr++ {
			idx := shadeIndex(rows[wd][hr], h.ScaleMax)
			b.WriteString(shadeStyle[idx].Render(shades[idx]) + " ")
		}
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("scale 0 %s %s", strings.Join(shades, ""), formatValue(h.ScaleMax))) + "\n")
	return b.String()
}

func shadeIndex(v, scaleMax float64) int {
	if v <= 0 || scaleMax <= 0 {
		return 0
	}
	idx := int(math.Ceil(v / scaleMax * float64(len(shades)-1)))
	return min(max(idx, 1), len(shades)-1)
}

func barsView(title string, s CategorySeries, style lipgloss.Style, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	if len(s.Labels) == 0 {
		b.WriteString(labelStyle.Render("(no data)") + "\n")
		return b.String()
	}
	labelW := 0
	top := 0.0
	for i, l := range s.Labels {
		labelW = max(labelW, lipgloss.Width(l))
		if i < len(s.Values) && s.Values[i] > top {
			top = s.Values[i]
		}
	}
	barMax := max(width-labelW-12, 10)
	for i, l := range s.Labels {
		v := 0.0
		if i < len(s.Values) {
			v = s.Values[i]
		}
		// Negative values draw an empty bar; the number still shows.
		n := 0
		if top > 0 && v > 0 {
			n = int(math.Round(v / top * float64(barMax)))
		}
		bar := style.Render(strings.Repeat("█", n))
		b.WriteString(fmt.Sprintf("%s │%s %s\n", padCells(l, labelW), bar, formatValue(v)))
	}
	return b.String()
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func padCells(s string, w int) string {
	if d := w - lipgloss.Width(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func truncateCells(s string, w int) string {
	r := []rune(s)
	if len(r) <= w {
		return s
	}
	return string(r[:w])
}
