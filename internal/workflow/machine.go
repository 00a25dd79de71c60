// Package workflow sequences the two-phase upload, selection and analysis
// session against the backend.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mithrel/tally/internal/upload"
	"github.com/mithrel/tally/pkg/api"
)

// Backend is the HTTP collaborator.
type Backend interface {
	Prepare(ctx context.Context, up api.Upload) (api.PrepareResponse, error)
	Analyze(ctx context.Context, req api.AnalyzeRequest) (api.AnalyzeResponse, error)
}

// Inspector checks a chosen file before it is uploaded.
type Inspector interface {
	Inspect(ctx context.Context, path string) (api.Upload, error)
}

type Option func(*Machine)

func WithInspector(in Inspector) Option { return func(m *Machine) { m.inspector = in } }

func WithStatus(s StatusSink) Option { return func(m *Machine) { m.status = s } }

func WithLogger(l zerolog.Logger) Option { return func(m *Machine) { m.log = l } }

// WithChartsUnavailable marks the named chart renderer as missing; reports
// are then delivered without charts and a degraded status is emitted.
func WithChartsUnavailable(component string) Option {
	return func(m *Machine) { m.chartsMissing = component }
}

// Machine owns one session at a time and allows a single call in flight.
type Machine struct {
	backend       Backend
	inspector     Inspector
	status        StatusSink
	log           zerolog.Logger
	chartsMissing string

	busy atomic.Bool

	mu      sync.Mutex
	session *Session
}

func New(b Backend, opts ...Option) *Machine {
	m := &Machine{
		backend: b,
		status:  nopStatus{},
		log:     zerolog.Nop(),
		session: newSession(""),
	}
	for _, o := range opts {
		o(m)
	}
	if m.inspector == nil {
		m.inspector = upload.NewInspector(upload.Options{})
	}
	return m
}

// Busy reports whether a prepare or analyze call is pending.
func (m *Machine) Busy() bool { return m.busy.Load() }

func (m *Machine) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.state.stage()
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.snapshot()
}

// LatestReport returns the last report of the current session.
func (m *Machine) LatestReport() (Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.report == nil {
		return Report{}, false
	}
	return *m.session.report, true
}

// SelectFile starts a fresh session for path, discarding any run id,
// selection and report.
func (m *Machine) SelectFile(path string) error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	prev := m.session.state.stage()
	m.session = newSession(path)
	m.mu.Unlock()

	m.log.Debug().Str("file", path).Stringer("from", prev).Stringer("to", AwaitingUpload).Msg("session reset")
	if path == "" {
		return nil
	}
	m.status.Status(fmt.Sprintf(msgFileSelected, path), SeveritySuccess)
	return nil
}

// Resume adopts a run prepared earlier, e.g. by another process. The given
// entities become both the available and the selected set.
func (m *Machine) Resume(runID string, entities []string) error {
	if runID == "" {
		return &UserInputError{Reason: "A run id is required.", Err: ErrNoRun}
	}
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer m.busy.Store(false)

	sess := newSession("")
	sess.available = distinct(entities)
	for _, e := range sess.available {
		sess.selected[e] = true
	}
	sess.state = awaitingSelection{runID: runID}

	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	m.log.Debug().Str("run_id", runID).Int("entities", len(sess.available)).Msg("session resumed")
	return nil
}

// Submit runs the call the current stage calls for: prepare before a run
// exists, analyze after. It returns the resulting stage.
func (m *Machine) Submit(ctx context.Context) (Stage, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return m.Stage(), ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	sess := m.session
	st := sess.state
	m.mu.Unlock()

	var err error
	switch s := st.(type) {
	case awaitingUpload, failed:
		err = m.submitUpload(ctx, sess)
	case awaitingSelection:
		err = m.submitSelection(ctx, sess, s.runID)
	case reportReady:
		err = m.submitSelection(ctx, sess, s.runID)
	}
	return m.Stage(), err
}

func (m *Machine) submitUpload(ctx context.Context, sess *Session) error {
	if sess.path == "" {
		m.status.Status(msgNoFile, SeverityError)
		return &UserInputError{Reason: msgNoFile, Err: ErrNoFile}
	}
	up, err := m.inspector.Inspect(ctx, sess.path)
	if err != nil {
		m.status.Status(err.Error(), SeverityError)
		if upload.IsRejection(err) {
			return &UserInputError{Reason: err.Error(), Err: err}
		}
		m.log.Warn().Err(err).Str("file", sess.path).Msg("inspect failed")
		return fmt.Errorf("inspect %s: %w", sess.path, err)
	}

	m.status.Status(msgUploading, SeverityLoading)
	resp, err := m.backend.Prepare(ctx, up)
	if err != nil {
		m.log.Warn().Err(err).Str("file", up.Name).Msg("prepare failed")
		m.status.Status(err.Error(), SeverityError)
		return err
	}

	available := distinct(resp.Merchants)
	m.mu.Lock()
	prev := sess.state.stage()
	sess.upload = &up
	sess.available = available
	sess.defaults = sess.defaults[:0]
	sess.selected = map[string]bool{}
	for _, d := range distinct(resp.Defaults) {
		if sess.known(d) {
			sess.defaults = append(sess.defaults, d)
			sess.selected[d] = true
		}
	}
	sess.state = awaitingSelection{runID: resp.RunID}
	m.mu.Unlock()

	m.log.Info().
		Stringer("from", prev).
		Stringer("to", AwaitingSelection).
		Str("run_id", resp.RunID).
		Int("entities", len(available)).
		Msg("workflow transition")
	m.status.Status(msgSelectEntities, SeveritySuccess)
	return nil
}

func (m *Machine) submitSelection(ctx context.Context, sess *Session, runID string) error {
	m.mu.Lock()
	selected := sess.selection()
	m.mu.Unlock()
	if len(selected) == 0 {
		m.status.Status(msgNoSelection, SeverityError)
		return &UserInputError{Reason: msgNoSelection, Err: ErrNoSelection}
	}

	m.status.Status(msgGenerating, SeverityLoading)
	resp, err := m.backend.Analyze(ctx, api.AnalyzeRequest{RunID: runID, Merchants: selected})
	if err != nil {
		m.log.Warn().Err(err).Str("run_id", runID).Msg("analyze failed")
		m.status.Status(err.Error(), SeverityError)
		return err
	}

	rep, err := NewReport(resp)
	if err != nil {
		m.mu.Lock()
		prev := sess.state.stage()
		sess.state = failed{cause: err}
		m.mu.Unlock()
		m.log.Error().Err(err).Stringer("from", prev).Stringer("to", Error).Str("run_id", runID).Msg("workflow transition")
		m.status.Status(err.Error(), SeverityError)
		return err
	}
	if rep.RunID == "" {
		rep.RunID = runID
	}
	if m.chartsMissing != "" && rep.Charts != nil {
		rep.ChartsErr = &RenderingDependencyError{Component: m.chartsMissing}
	}

	m.mu.Lock()
	prev := sess.state.stage()
	sess.report = &rep
	sess.state = reportReady{runID: runID}
	m.mu.Unlock()

	m.log.Info().
		Stringer("from", prev).
		Stringer("to", ReportReady).
		Str("run_id", runID).
		Strs("entities", selected).
		Msg("workflow transition")
	m.status.Status(msgReportReady, SeveritySuccess)
	if rep.ChartsErr != nil {
		m.log.Warn().Err(rep.ChartsErr).Msg("charts degraded")
		m.status.Status(msgChartsMissing, SeverityError)
	}
	return nil
}

// Toggle flips one entity in the selection.
func (m *Machine) Toggle(name string) error {
	return m.editSelection(func(s *Session) error {
		if !s.known(name) {
			return fmt.Errorf("%w: %q", ErrUnknownEntity, name)
		}
		if s.selected[name] {
			delete(s.selected, name)
		} else {
			s.selected[name] = true
		}
		return nil
	})
}

// SetSelection replaces the selection. Every name must be available.
func (m *Machine) SetSelection(names []string) error {
	return m.editSelection(func(s *Session) error {
		next := make(map[string]bool, len(names))
		var unknown []string
		for _, n := range names {
			if !s.known(n) {
				unknown = append(unknown, n)
				continue
			}
			next[n] = true
		}
		if len(unknown) > 0 {
			return fmt.Errorf("%w: %q", ErrUnknownEntity, unknown)
		}
		s.selected = next
		return nil
	})
}

func (m *Machine) SelectAll() error {
	return m.editSelection(func(s *Session) error {
		for _, a := range s.available {
			s.selected[a] = true
		}
		return nil
	})
}

func (m *Machine) SelectNone() error {
	return m.editSelection(func(s *Session) error {
		s.selected = map[string]bool{}
		return nil
	})
}

func (m *Machine) editSelection(fn func(*Session) error) error {
	if m.busy.Load() {
		return ErrBusy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.session)
}

// Copy hands the latest raw report to sink.
func (m *Machine) Copy(sink ClipboardSink) error {
	rep, ok := m.LatestReport()
	if !ok {
		m.status.Status(msgNoReport, SeverityError)
		return &UserInputError{Reason: msgNoReport, Err: ErrNoReport}
	}
	if err := sink.WriteText(rep.Raw); err != nil {
		m.log.Warn().Err(err).Msg("copy failed")
		m.status.Status(msgCopyFailed, SeverityError)
		return fmt.Errorf("copy report: %w", err)
	}
	m.status.Status(msgCopied, SeveritySuccess)
	return nil
}

// IsTransport reports whether err came from a backend call.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
