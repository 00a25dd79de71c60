package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mithrel/tally/internal/workflow"
)

// statusMsg carries a workflow status line into Update.
type statusMsg struct {
	text string
	sev  workflow.Severity
}

// submitResultMsg conveys the outcome of a prepare or analyze call.
type submitResultMsg struct {
	stage workflow.Stage
	err   error
	dur   time.Duration
}

// copyResultMsg conveys the outcome of copying the report.
type copyResultMsg struct {
	err error
}

// chanStatus forwards machine status lines to the program. Sends never
// block; a full buffer drops the line.
type chanStatus chan statusMsg

func (c chanStatus) Status(msg string, sev workflow.Severity) {
	select {
	case c <- statusMsg{text: msg, sev: sev}:
	default:
	}
}

// listenStatus waits for the next status line; Update re-arms it.
func listenStatus(ch chanStatus) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func submitCmd(ctx context.Context, m *workflow.Machine) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		stage, err := m.Submit(ctx)
		return submitResultMsg{stage: stage, err: err, dur: time.Since(start)}
	}
}

func copyCmd(m *workflow.Machine, sink workflow.ClipboardSink) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: m.Copy(sink)}
	}
}
