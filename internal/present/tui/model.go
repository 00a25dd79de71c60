// Package tui runs the whole workflow in an interactive terminal session.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/tally/internal/charts"
	"github.com/mithrel/tally/internal/present"
	"github.com/mithrel/tally/internal/workflow"
)

type screen int

const (
	screenFile screen = iota
	screenPick
	screenReport
)

// Options configure a session.
type Options struct {
	File      string
	Clipboard workflow.ClipboardSink
	Charts    charts.Renderer
}

// Run starts the program. newMachine receives the status sink the machine
// must report to.
func Run(ctx context.Context, newMachine func(workflow.StatusSink) *workflow.Machine, opts Options) error {
	ch := make(chanStatus, 32)
	m := newModel(ctx, newMachine(ch), ch, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

type Model struct {
	ctx     context.Context
	machine *workflow.Machine
	status  chanStatus
	opts    Options

	screen    screen
	fileInput textinput.Model
	filter    textinput.Model
	filtering bool
	visible   []int
	cursor    int
	spinner   spinner.Model
	viewport  viewport.Model
	busy      bool
	help      bool

	lastStatus statusMsg
	width      int
	height     int
}

func newModel(ctx context.Context, machine *workflow.Machine, status chanStatus, opts Options) Model {
	fi := textinput.New()
	fi.Prompt = "file: "
	fi.Placeholder = "path/to/transactions.xlsx"
	fi.SetValue(opts.File)
	fi.Focus()

	fl := textinput.New()
	fl.Prompt = "/"
	fl.Placeholder = "filter"

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		machine:   machine,
		status:    status,
		opts:      opts,
		fileInput: fi,
		filter:    fl,
		spinner:   sp,
		viewport:  viewport.New(80, 20),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{listenStatus(m.status)}
	if strings.TrimSpace(m.opts.File) != "" {
		cmds = append(cmds, func() tea.Msg { return tea.KeyMsg{Type: tea.KeyEnter} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(3, msg.Height-3)
		if m.screen == screenReport {
			m.refreshReport()
		}
		return m, nil
	case statusMsg:
		m.lastStatus = msg
		return m, listenStatus(m.status)
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case submitResultMsg:
		m.busy = false
		return m.afterSubmit(msg), nil
	case copyResultMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	// The trigger stays disabled until the pending call resolves.
	if m.busy {
		return m, nil
	}
	if m.help {
		if key == "?" || key == "esc" || key == "q" {
			m.help = false
		}
		return m, nil
	}

	switch m.screen {
	case screenFile:
		return m.updateFile(msg)
	case screenPick:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updatePick(msg)
	default:
		return m.updateReport(msg)
	}
}

func (m Model) updateFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.machine.SelectFile(strings.TrimSpace(m.fileInput.Value())); err != nil {
			return m, nil
		}
		return m.submit()
	case "esc":
		if m.machine.Stage() != workflow.AwaitingUpload {
			m.screen = screenPick
			m.fileInput.Blur()
			return m, nil
		}
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.help = true
		return m, nil
	case "c":
		sink := m.opts.Clipboard
		if sink == nil {
			sink = present.SystemClipboard{}
		}
		return m, copyCmd(m.machine, sink)
	case "s", "esc":
		m.screen = screenPick
		return m, nil
	case "o":
		return m.openFilePrompt(), nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) openFilePrompt() Model {
	m.screen = screenFile
	m.fileInput.SetValue("")
	m.fileInput.Focus()
	return m
}

func (m Model) submit() (Model, tea.Cmd) {
	m.busy = true
	return m, tea.Batch(submitCmd(m.ctx, m.machine), m.spinner.Tick)
}

func (m Model) afterSubmit(res submitResultMsg) Model {
	switch res.stage {
	case workflow.AwaitingSelection:
		if m.screen != screenPick {
			m.screen = screenPick
			m.fileInput.Blur()
			m.filter.SetValue("")
			m.cursor = 0
		}
		m.refilter()
	case workflow.ReportReady:
		if res.err == nil {
			m.screen = screenReport
			m.refreshReport()
			m.viewport.GotoTop()
		}
	case workflow.Error:
		m.screen = screenPick
	}
	if res.err != nil && m.lastStatus.sev != workflow.SeverityError {
		m.lastStatus = statusMsg{text: res.err.Error(), sev: workflow.SeverityError}
	}
	return m
}

func (m *Model) refreshReport() {
	rep, ok := m.machine.LatestReport()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	snap := m.machine.Snapshot()
	var buf bytes.Buffer
	opts := present.Options{
		Mode:   present.ModePretty,
		Charts: m.opts.Charts,
		Width:  max(40, m.viewport.Width-2),
	}
	opts.Meta.File = snap.File
	opts.Meta.Entities = snap.Selected
	if err := present.RenderReport(m.ctx, &buf, rep, opts); err != nil {
		buf.Reset()
		_ = present.RenderReport(m.ctx, &buf, rep, present.Options{Mode: present.ModePlain, Charts: m.opts.Charts, Meta: opts.Meta})
	}
	m.viewport.SetContent(buf.String())
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenFile:
		body = titleStyle.Render("Choose a transaction spreadsheet") + "\n\n" + m.fileInput.View() + "\n"
	case screenPick:
		body = m.pickView()
	default:
		body = m.viewport.View()
	}
	view := body + "\n" + m.footer()
	if m.help {
		box, w, h := helpBox()
		return m.renderOverlay(view, box, w, h)
	}
	return view
}

func (m Model) footer() string {
	var left string
	switch m.screen {
	case screenFile:
		left = "enter=upload • esc=back"
	case screenPick:
		left = "space=toggle • a/n=all/none • /=filter • enter=analyze • o=file • ?=help"
	default:
		left = "↑/↓ scroll • c=copy • s=selection • o=file • q=quit"
	}
	left = faintStyle.Render(left)

	right := m.lastStatus.text
	if st, ok := statusStyles[m.lastStatus.sev]; ok && right != "" {
		right = st.Render(right)
	}
	if m.busy {
		right = m.spinner.View() + " " + right
	}
	space := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return fmt.Sprintf("%s%s%s", left, strings.Repeat(" ", space), right)
}
