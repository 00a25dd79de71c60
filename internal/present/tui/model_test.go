package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tally/internal/workflow"
	"github.com/mithrel/tally/pkg/api"
)

type stubBackend struct {
	mu       sync.Mutex
	analyzed [][]string
}

func (s *stubBackend) Prepare(ctx context.Context, up api.Upload) (api.PrepareResponse, error) {
	return api.PrepareResponse{RunID: "r1", Merchants: []string{"Dorm A", "Canteen", "Dorm B"}, Defaults: []string{"Canteen"}}, nil
}

func (s *stubBackend) Analyze(ctx context.Context, req api.AnalyzeRequest) (api.AnalyzeResponse, error) {
	s.mu.Lock()
	s.analyzed = append(s.analyzed, req.Merchants)
	s.mu.Unlock()
	return api.AnalyzeResponse{ReportMD: "# Weekly report\n- **Canteen** leads"}, nil
}

type passInspector struct{}

func (passInspector) Inspect(ctx context.Context, path string) (api.Upload, error) {
	return api.Upload{Path: path, Name: path}, nil
}

type memClip struct{ text string }

func (c *memClip) WriteText(s string) error { c.text = s; return nil }

func testModel(t *testing.T) (Model, *stubBackend, *memClip) {
	t.Helper()
	b := &stubBackend{}
	ch := make(chanStatus, 32)
	mach := workflow.New(b, workflow.WithInspector(passInspector{}), workflow.WithStatus(ch))
	clip := &memClip{}
	m := newModel(context.Background(), mach, ch, Options{Clipboard: clip})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), b, clip
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

// runSubmit performs the pending call synchronously, standing in for the
// program loop executing submitCmd.
func runSubmit(t *testing.T, m Model) Model {
	t.Helper()
	require.True(t, m.busy)
	stage, err := m.machine.Submit(context.Background())
	next, _ := m.Update(submitResultMsg{stage: stage, err: err})
	return next.(Model)
}

func toPicker(t *testing.T) (Model, *stubBackend, *memClip) {
	t.Helper()
	m, b, clip := testModel(t)
	m.fileInput.SetValue("records.xlsx")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	m = runSubmit(t, m)
	require.Equal(t, screenPick, m.screen)
	return m, b, clip
}

func TestFileEnterStartsUpload(t *testing.T) {
	m, _, _ := toPicker(t)
	assert.Equal(t, []int{0, 1, 2}, m.visible)
	view := m.View()
	assert.Contains(t, view, "[x] Canteen")
	assert.Contains(t, view, "[ ] Dorm A")
	assert.Contains(t, view, "(default)")
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	m, _, _ := toPicker(t)
	m.busy = true

	m, cmd := press(t, m, " ", "enter", "a")
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"Canteen"}, m.machine.Snapshot().Selected)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, next.(Model).busy)
}

func TestToggleAndSelectAll(t *testing.T) {
	m, _, _ := toPicker(t)

	m, _ = press(t, m, " ")
	assert.Equal(t, []string{"Dorm A", "Canteen"}, m.machine.Snapshot().Selected)
	m, _ = press(t, m, "n")
	assert.Empty(t, m.machine.Snapshot().Selected)
	m, _ = press(t, m, "a")
	assert.Len(t, m.machine.Snapshot().Selected, 3)
}

func TestEmptySelectionShowsError(t *testing.T) {
	m, b, _ := toPicker(t)
	m, _ = press(t, m, "n", "enter")
	m = runSubmit(t, m)

	assert.Equal(t, screenPick, m.screen)
	assert.Empty(t, b.analyzed)
	assert.Equal(t, workflow.SeverityError, m.lastStatus.sev)
}

func TestFilterNarrowsList(t *testing.T) {
	m, _, _ := toPicker(t)
	m, _ = press(t, m, "/", "d", "o", "r", "m")
	assert.True(t, m.filtering)
	assert.ElementsMatch(t, []int{0, 2}, m.visible)

	m, _ = press(t, m, "enter")
	assert.False(t, m.filtering)
	m, _ = press(t, m, "down", " ")
	snap := m.machine.Snapshot()
	assert.Contains(t, snap.Selected, snap.Available[m.visible[1]])

	m, _ = press(t, m, "esc")
	assert.Len(t, m.visible, 3)
}

func TestAnalyzeShowsReportAndCopies(t *testing.T) {
	m, b, clip := toPicker(t)
	m, _ = press(t, m, "enter")
	m = runSubmit(t, m)

	require.Equal(t, screenReport, m.screen)
	assert.Equal(t, [][]string{{"Canteen"}}, b.analyzed)
	assert.Contains(t, m.viewport.View(), "Weekly")

	m, cmd := press(t, m, "c")
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())
	assert.Equal(t, "# Weekly report\n- **Canteen** leads", clip.text)

	m, _ = press(t, m, "s")
	assert.Equal(t, screenPick, m.screen)
}

func TestNewFileResetsToFileScreen(t *testing.T) {
	m, _, _ := toPicker(t)
	m, _ = press(t, m, "o")
	assert.Equal(t, screenFile, m.screen)
	assert.Empty(t, m.fileInput.Value())
}

func TestStatusMsgRearmsListener(t *testing.T) {
	m, _, _ := testModel(t)
	next, cmd := m.Update(statusMsg{text: "Report ready.", sev: workflow.SeveritySuccess})
	require.NotNil(t, cmd)
	assert.Equal(t, "Report ready.", next.(Model).lastStatus.text)
	assert.True(t, strings.Contains(next.(Model).footer(), "Report ready."))
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := toPicker(t)
	m, _ = press(t, m, "?")
	assert.True(t, m.help)
	assert.Contains(t, m.View(), "select all / none")
	m, _ = press(t, m, "?")
	assert.False(t, m.help)
}
