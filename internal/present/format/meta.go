package format

import (
	"fmt"
	"strings"

	"github.com/mithrel/tally/pkg/api"
)

// Meta is the header printed above a report.
type Meta struct {
	RunID     string
	File      string
	Entities  []string
	TimeRange *api.TimeRange
}

// Hours formats an active time range as "6:00-22:00".
func Hours(tr *api.TimeRange) string {
	if tr == nil {
		return ""
	}
	return fmt.Sprintf("%d:00-%d:00", tr.StartHour, tr.EndHour)
}

func (m Meta) rows() [][2]string {
	var rows [][2]string
	if m.File != "" {
		rows = append(rows, [2]string{"file", m.File})
	}
	if m.RunID != "" {
		rows = append(rows, [2]string{"run", m.RunID})
	}
	if len(m.Entities) > 0 {
		rows = append(rows, [2]string{"entities", strings.Join(m.Entities, ", ")})
	}
	if h := Hours(m.TimeRange); h != "" {
		rows = append(rows, [2]string{"hours", h})
	}
	return rows
}
