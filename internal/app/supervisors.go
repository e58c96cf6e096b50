package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/lock"
	"github.com/adwate/lessonloop/internal/session"
)

// Supervisor timing. Every timer is a generation-stamped scheduled tick:
// arming bumps the generation, a tick carrying a stale generation is a
// no-op, and session teardown bumps every generation at once. At most one
// live timer per purpose can therefore take effect.
const (
	idleTimeout  = 5 * time.Minute
	saveDebounce = 400 * time.Millisecond
	pollInterval = lock.PollIntervalTicks * time.Second
)

// lockPollTickMsg fires the periodic lock-status poll. It re-arms itself
// for the lifetime of the client, session or not.
type lockPollTickMsg struct{}

// lockPolledMsg carries one poll result. A failed poll leaves the previous
// merged state standing.
type lockPolledMsg struct {
	locked bool
	err    error
}

// unfinishedLoadedMsg carries the learner's resumable sessions. showPrompt
// requests the resume prompt when the list is non-empty.
type unfinishedLoadedMsg struct {
	list       []backend.Unfinished
	err        error
	showPrompt bool
}

// idleTimeoutMsg fires the inactivity deadline.
type idleTimeoutMsg struct {
	gen int
}

// saveTickMsg fires the debounced snapshot save.
type saveTickMsg struct {
	gen int
}

// saveDoneMsg carries the outcome of one snapshot save.
type saveDoneMsg struct {
	err error
}

// sessionReadyMsg carries a freshly started or resumed session state.
type sessionReadyMsg struct {
	st  *session.State
	err error
}

// terminatedMsg confirms an explicit session termination.
type terminatedMsg struct {
	err error
}

// finishDoneMsg confirms the backend superseded the finished snapshot.
type finishDoneMsg struct {
	err error
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return lockPollTickMsg{}
	})
}

func (m *Model) pollLock() tea.Cmd {
	client := m.opts.Client
	learner := m.opts.Learner
	return func() tea.Msg {
		locked, err := client.LockStatus(context.Background(), learner)
		return lockPolledMsg{locked: locked, err: err}
	}
}

func (m *Model) loadUnfinished(showPrompt bool) tea.Cmd {
	client := m.opts.Client
	learner := m.opts.Learner
	return func() tea.Msg {
		list, err := client.UnfinishedSessions(context.Background(), learner)
		return unfinishedLoadedMsg{list: list, err: err, showPrompt: showPrompt}
	}
}

// resetIdle re-arms the inactivity deadline. Called on every qualifying
// input event while a session, topic, and plan are all live.
func (m *Model) resetIdle() tea.Cmd {
	if !m.sessionLive() {
		return nil
	}
	m.idleGen++
	gen := m.idleGen
	return tea.Tick(idleTimeout, func(time.Time) tea.Msg {
		return idleTimeoutMsg{gen: gen}
	})
}

// scheduleSave re-arms the snapshot debounce. A change arriving before the
// window elapses invalidates the pending save and starts a new window, so
// rapid changes coalesce into one write.
func (m *Model) scheduleSave() tea.Cmd {
	if !m.sessionLive() {
		return nil
	}
	m.saveGen++
	gen := m.saveGen
	return tea.Tick(saveDebounce, func(time.Time) tea.Msg {
		return saveTickMsg{gen: gen}
	})
}

// saveNow captures the current snapshot and writes it, bypassing the
// debounce. Used for the idle-teardown save and the quit-time save.
func (m *Model) saveNow() tea.Cmd {
	if !m.sessionLive() {
		return nil
	}
	client := m.opts.Client
	learner := m.opts.Learner
	topic := m.sess.Topic
	snap := backend.SnapshotFromState(m.sess)
	return func() tea.Msg {
		err := client.SaveSnapshot(context.Background(), learner, topic, snap)
		return saveDoneMsg{err: err}
	}
}

// invalidateTimers bumps every per-session generation so no pending tick
// can fire into a new session's state.
func (m *Model) invalidateTimers() {
	m.idleGen++
	m.saveGen++
}
