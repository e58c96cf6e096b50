// Package app is the root Bubble Tea model and session controller. It owns
// the single session state object and the three per-session supervisors
// (idle timeout, snapshot debounce, retry countdown lives in the questions
// screen) plus the lifetime lock poll; screens dispatch request messages
// here instead of mutating shared state.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/lock"
	"github.com/adwate/lessonloop/internal/router"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/screens/home"
	"github.com/adwate/lessonloop/internal/screens/resumeprompt"
	"github.com/adwate/lessonloop/internal/screens/welcome"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/layout"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

// Options carries the app's injected dependencies.
type Options struct {
	Client      backend.Client
	Learner     string
	LearnerName string
	// SaveName persists the learner's display name entered on first run.
	SaveName func(name string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	opts   Options
	router *router.Router
	width  int
	height int

	sess *session.State
	lock lock.State

	idleGen int
	saveGen int

	quitConfirm bool
	notice      string
}

func newModel(opts Options) *Model {
	m := &Model{opts: opts}
	var first screen.Screen
	if opts.LearnerName == "" {
		first = welcome.New()
	} else {
		first = m.homeScreen()
	}
	m.router = router.New(first)
	return m
}

func (m *Model) homeScreen() screen.Screen {
	notice := m.notice
	m.notice = ""
	return home.New(m.opts.Client, m.opts.Learner, m.opts.LearnerName, notice, m.lock.Resumable())
}

func (m *Model) sessionLive() bool {
	return m.sess != nil && m.sess.Topic != "" && m.sess.Plan != nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.pollTick(),
		m.loadUnfinished(true),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.resetIdle()

	case router.PushScreenMsg:
		// The lock gates every push: a blocked surface turns into the
		// resume prompt instead.
		if !m.lock.Allows(msg.Screen.ID()) {
			return m, m.loadUnfinished(true)
		}
		return m, m.router.Update(msg)

	case session.ChangedMsg:
		return m, m.scheduleSave()

	case session.StartRequestMsg:
		if m.lock.Locked() {
			return m, m.loadUnfinished(true)
		}
		return m, m.startSession(msg.TopicID)

	case session.ResumeRequestMsg:
		return m, m.resumeSession(msg.TopicID)

	case session.TerminateRequestMsg:
		return m, m.terminateSession(msg.TopicID)

	case session.FinishedMsg:
		return m, m.finishSession()

	case session.RecordFailedMsg:
		fmt.Fprintf(os.Stderr, "warning: record answer: %v\n", msg.Err)
		return m, nil

	case session.QuitRequestMsg:
		return m.requestQuit()

	case welcome.DoneMsg:
		return m.handleNamed(msg)

	case lockPollTickMsg:
		return m, tea.Batch(m.pollLock(), m.pollTick())

	case lockPolledMsg:
		if msg.err != nil {
			fmt.Fprintf(os.Stderr, "warning: lock poll: %v\n", msg.err)
			return m, nil
		}
		m.lock.SetPolled(msg.locked)
		return m, nil

	case unfinishedLoadedMsg:
		return m.handleUnfinished(msg)

	case idleTimeoutMsg:
		return m.handleIdleTimeout(msg)

	case saveTickMsg:
		if msg.gen != m.saveGen || !m.sessionLive() {
			return m, nil
		}
		return m, m.saveNow()

	case saveDoneMsg:
		if msg.err != nil {
			// Retried on the next state change; local state stays
			// authoritative.
			fmt.Fprintf(os.Stderr, "warning: save snapshot: %v\n", msg.err)
		}
		return m, nil

	case sessionReadyMsg:
		return m.handleSessionReady(msg)

	case terminatedMsg:
		if msg.err != nil {
			fmt.Fprintf(os.Stderr, "warning: terminate session: %v\n", msg.err)
			return m, nil
		}
		return m, m.loadUnfinished(true)

	case finishDoneMsg:
		if msg.err != nil {
			fmt.Fprintf(os.Stderr, "warning: finish session: %v\n", msg.err)
		}
		return m, nil
	}

	return m, m.router.Update(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitConfirm {
		switch msg.String() {
		case "y", "Y":
			return m, tea.Sequence(m.saveNow(), tea.Quit)
		case "n", "N", "esc":
			m.quitConfirm = false
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m.requestQuit()
	case "esc":
		active := m.router.Active()
		if active != nil && active.ID() == session.ViewResume {
			// The prompt must be settled, not dismissed.
			return m, m.resetIdle()
		}
		if m.router.Depth() > 1 {
			return m, tea.Batch(m.router.Pop(), m.resetIdle())
		}
		return m, m.resetIdle()
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.resetIdle())
}

// requestQuit enforces the exit-without-save guard: while the lock is held
// quitting needs confirmation, and a confirmed quit still pushes one
// best-effort snapshot first.
func (m *Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.lock.Locked() {
		m.quitConfirm = true
		return m, nil
	}
	return m, tea.Quit
}

func (m *Model) handleNamed(msg welcome.DoneMsg) (tea.Model, tea.Cmd) {
	if m.opts.SaveName != nil {
		if err := m.opts.SaveName(msg.Name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: save learner name: %v\n", err)
		}
	}
	m.opts.LearnerName = msg.Name
	return m, m.router.Reset(m.homeScreen())
}

func (m *Model) handleUnfinished(msg unfinishedLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		fmt.Fprintf(os.Stderr, "warning: load unfinished sessions: %v\n", msg.err)
		return m, nil
	}

	// A record missing its identifiers is corrupted state: reset the whole
	// client rather than risk resuming into an inconsistent cursor.
	if err := backend.Validate(msg.list); err != nil {
		fmt.Fprintf(os.Stderr, "warning: corrupted session records, resetting: %v\n", err)
		return m, m.teardown("Stored session data was corrupted. Starting fresh.")
	}

	m.lock.SetResumable(len(msg.list))

	if msg.showPrompt && len(msg.list) > 0 && m.sess == nil {
		if active := m.router.Active(); active != nil && active.ID() == session.ViewResume {
			return m, m.router.Update(router.ReplaceScreenMsg{Screen: resumeprompt.New(msg.list)})
		}
		return m, m.router.Push(resumeprompt.New(msg.list))
	}
	if m.lock.Resumable() == 0 && m.sess == nil {
		if active := m.router.Active(); active != nil && active.ID() == session.ViewResume {
			return m, m.router.Reset(m.homeScreen())
		}
	}
	return m, nil
}

func (m *Model) handleIdleTimeout(msg idleTimeoutMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.idleGen || !m.sessionLive() {
		return m, nil
	}
	// One best-effort save with the pre-teardown snapshot, then full local
	// teardown back to home.
	save := m.saveNow()
	reset := m.teardown("Session suspended after 5 minutes of inactivity. Your progress is saved.")
	return m, tea.Batch(save, reset, m.loadUnfinished(false))
}

// teardown clears all local session state, invalidates every per-session
// timer, and collapses navigation back to home. The notice is shown there
// once.
func (m *Model) teardown(notice string) tea.Cmd {
	m.sess = nil
	m.invalidateTimers()
	m.lock.SetActiveSession(false)
	m.quitConfirm = false
	m.notice = notice
	return m.router.Reset(m.homeScreen())
}

func (m *Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.opts.LearnerName, m.lock.Locked(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.quitConfirm {
		content = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			theme.Card.Render("A lesson is in progress.\n\nQuit anyway? Your latest progress will be saved.\n\n"+
				theme.Warning.Render("Y")+" quit    "+theme.Correct.Render("N")+" keep going"))
	} else {
		content = m.router.View(m.width, contentHeight)
	}

	frame := layout.RenderFrame(header, content, footer, m.width, m.height)
	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
