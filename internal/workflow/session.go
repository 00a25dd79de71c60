package workflow

import "github.com/mithrel/tally/pkg/api"

// Stage is the externally visible position in the workflow.
type Stage int

const (
	AwaitingUpload Stage = iota
	AwaitingSelection
	ReportReady
	Error
)

func (s Stage) String() string {
	switch s {
	case AwaitingUpload:
		return "awaiting_upload"
	case AwaitingSelection:
		return "awaiting_selection"
	case ReportReady:
		return "report_ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// state is the tagged variant behind Stage. Only the selection variants
// carry a run id.
type state interface {
	stage() Stage
}

type awaitingUpload struct{}

type awaitingSelection struct{ runID string }

type reportReady struct{ runID string }

type failed struct{ cause error }

func (awaitingUpload) stage() Stage    { return AwaitingUpload }
func (awaitingSelection) stage() Stage { return AwaitingSelection }
func (reportReady) stage() Stage       { return ReportReady }
func (failed) stage() Stage            { return Error }

func runIDOf(st state) string {
	switch s := st.(type) {
	case awaitingSelection:
		return s.runID
	case reportReady:
		return s.runID
	default:
		return ""
	}
}

// Session holds everything tied to one chosen file. Choosing another file
// replaces it wholesale.
type Session struct {
	path      string
	upload    *api.Upload
	state     state
	available []string
	defaults  []string
	selected  map[string]bool
	report    *Report
}

func newSession(path string) *Session {
	return &Session{
		path:     path,
		state:    awaitingUpload{},
		selected: map[string]bool{},
	}
}

func (s *Session) known(name string) bool {
	for _, a := range s.available {
		if a == name {
			return true
		}
	}
	return false
}

// selection lists selected entities in available order.
func (s *Session) selection() []string {
	out := make([]string, 0, len(s.selected))
	for _, a := range s.available {
		if s.selected[a] {
			out = append(out, a)
		}
	}
	return out
}

// Snapshot is a read-only copy of the session.
type Snapshot struct {
	Stage     Stage
	RunID     string
	File      string
	Upload    *api.Upload
	Available []string
	Defaults  []string
	Selected  []string
	Err       error
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		Stage:     s.state.stage(),
		RunID:     runIDOf(s.state),
		File:      s.path,
		Available: append([]string(nil), s.available...),
		Defaults:  append([]string(nil), s.defaults...),
		Selected:  s.selection(),
	}
	if s.upload != nil {
		up := *s.upload
		snap.Upload = &up
	}
	if f, ok := s.state.(failed); ok {
		snap.Err = f.cause
	}
	return snap
}

// distinct drops repeated names, keeping first occurrence order.
func distinct(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
