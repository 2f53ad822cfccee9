package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/hostmon/internal/config"
	"github.com/rileyhilliard/hostmon/internal/logger"
	"github.com/rileyhilliard/hostmon/internal/session"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: one-row sparklines
	LayoutMinimal LayoutMode = iota
	// LayoutStandard shows braille graphs beside values
	LayoutStandard
)

// BreakpointStandard is the width at which braille graphs are drawn.
const BreakpointStandard = 80

const (
	headerHeight = 3
	footerHeight = 2
	// processChrome is the lines the process tab draws around its list.
	processChrome = 4
)

// Options configures a Model.
type Options struct {
	Session    *session.Session
	Thresholds config.ThresholdsConfig
	// Context bounds every poll. Defaults to context.Background.
	Context context.Context
	Logger  logger.Logger
	Tab     Tab
}

// Model is the Bubble Tea model for the dashboard. All sampling state lives
// in the session; the model holds only the latest published State and UI
// concerns such as the active tab and process cursor.
type Model struct {
	sess  *session.Session
	state *session.State
	ctx   context.Context
	log   logger.Logger

	thresholds config.ThresholdsConfig

	tab      Tab
	width    int
	height   int
	quitting bool
	showHelp bool
	keys     keyMap
	help     help.Model

	filter    textinput.Model
	filtering bool

	cursor        int
	procOffset    int
	procViewport  viewport.Model
	viewportReady bool

	// polling is set while a poll command is outstanding so slow sources
	// don't stack polls behind each other.
	polling bool
	lastErr error
}

// tickMsg signals a periodic refresh.
type tickMsg time.Time

// stateMsg carries the result of one poll.
type stateMsg struct {
	state *session.State
	err   error
}

// NewModel creates a dashboard model over a session.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "name or pid"
	ti.CharLimit = 64

	st := opts.Session.State()
	ti.SetValue(st.Filter)

	return Model{
		sess:       opts.Session,
		state:      st,
		ctx:        ctx,
		log:        log,
		thresholds: opts.Thresholds,
		tab:        opts.Tab,
		keys:       defaultKeyMap(),
		help:       help.New(),
		filter:     ti,
	}
}

// Init triggers the first poll and starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pollCmd(), m.tickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		vpHeight := m.processListHeight()
		if !m.viewportReady {
			m.procViewport = viewport.New(m.width, vpHeight)
			m.viewportReady = true
		} else {
			m.procViewport.Width = m.width
			m.procViewport.Height = vpHeight
		}
		m.clampCursor()

	case tickMsg:
		next := m.tickCmd()
		if m.polling {
			return m, next
		}
		m.polling = true
		return m, tea.Batch(next, m.pollCmd())

	case stateMsg:
		m.polling = false
		m.lastErr = msg.err
		if msg.err != nil {
			m.log.Debug("poll failed: %v", msg.err)
		}
		if msg.state != nil {
			m.state = msg.state
			m.clampCursor()
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// State returns the state the model is currently showing.
func (m Model) State() *session.State { return m.state }

// tickCmd schedules the next tick at the session's current frame interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.sess.Scheduler().Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pollCmd runs one poll off the UI goroutine.
func (m Model) pollCmd() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		st, err := sess.Poll(ctx)
		return stateMsg{state: st, err: err}
	}
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	if m.width >= BreakpointStandard {
		return LayoutStandard
	}
	return LayoutMinimal
}

func (m Model) processListHeight() int {
	h := m.height - headerHeight - footerHeight - processChrome
	if h < 1 {
		h = 1
	}
	return h
}

func (m Model) processPageSize() int {
	if !m.viewportReady {
		return 10
	}
	return m.procViewport.Height
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// clampCursor keeps the cursor on a visible row and scrolls the list so
// the cursor stays in view.
func (m *Model) clampCursor() {
	n := len(m.state.Processes)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	h := m.processListHeight()
	if m.cursor < m.procOffset {
		m.procOffset = m.cursor
	}
	if m.cursor >= m.procOffset+h {
		m.procOffset = m.cursor - h + 1
	}
	if m.procOffset < 0 {
		m.procOffset = 0
	}
}

// cursorPID returns the pid under the cursor.
func (m Model) cursorPID() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.state.Processes) {
		return 0, false
	}
	return m.state.Processes[m.cursor].PID, true
}
