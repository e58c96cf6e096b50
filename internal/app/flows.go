package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/adwate/lessonloop/internal/screens/concept"
	"github.com/adwate/lessonloop/internal/screens/questions"
	"github.com/adwate/lessonloop/internal/session"
)

// startSession fetches the plan and opens a new session for the topic.
func (m *Model) startSession(topicID string) tea.Cmd {
	client := m.opts.Client
	learner := m.opts.Learner
	return func() tea.Msg {
		ctx := context.Background()

		p, err := client.FetchLessonPlan(ctx, learner, topicID)
		if err != nil {
			return sessionReadyMsg{err: fmt.Errorf("fetch lesson plan: %w", err)}
		}
		id, err := client.StartSession(ctx, learner, topicID)
		if err != nil {
			return sessionReadyMsg{err: fmt.Errorf("start session: %w", err)}
		}
		return sessionReadyMsg{st: session.New(id, learner, p)}
	}
}

// resumeSession reconstructs an interrupted session. The stored attempt
// log plus the plan decide the resume cursor; the stored cursor indexes
// are not trusted beyond the auxiliary view/tab state.
func (m *Model) resumeSession(topicID string) tea.Cmd {
	client := m.opts.Client
	learner := m.opts.Learner
	return func() tea.Msg {
		ctx := context.Background()

		p, err := client.FetchLessonPlan(ctx, learner, topicID)
		if err != nil {
			return sessionReadyMsg{err: fmt.Errorf("fetch lesson plan: %w", err)}
		}
		snap, err := client.FetchResumeSnapshot(ctx, learner, topicID)
		if err != nil {
			return sessionReadyMsg{err: fmt.Errorf("fetch resume snapshot: %w", err)}
		}

		st := session.New(snap.SessionID, learner, p)
		st.Attempts = snap.Attempts
		st.Tab = snap.Cursors.Tab

		cursor, ok := session.Resolve(p, snap.Attempts)
		if !ok {
			// Every question answered or exhausted while the snapshot
			// was live; land directly on the finished view.
			st.Finished = true
			st.View = session.ViewQuestions
			return sessionReadyMsg{st: st}
		}
		st.Cursor = cursor

		switch session.ViewFromString(snap.Cursors.View) {
		case session.ViewQuestions:
			st.View = session.ViewQuestions
		default:
			st.View = session.ViewConcept
		}
		return sessionReadyMsg{st: st}
	}
}

func (m *Model) handleSessionReady(msg sessionReadyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", msg.err)
		return m, m.teardown(fmt.Sprintf("Could not open the lesson: %v", msg.err))
	}

	m.sess = msg.st
	m.lock.SetActiveSession(true)
	m.invalidateTimers()
	m.quitConfirm = false

	cmds := []tea.Cmd{m.resetIdle(), m.scheduleSave()}

	cmds = append(cmds, m.router.Reset(concept.New(m.sess, m.opts.Client)))
	if m.sess.View == session.ViewQuestions || m.sess.Finished {
		cmds = append(cmds, m.router.Push(questions.New(m.sess, m.opts.Client)))
	}

	return m, tea.Batch(cmds...)
}

// terminateSession explicitly abandons an unfinished session, deleting its
// snapshot.
func (m *Model) terminateSession(topicID string) tea.Cmd {
	client := m.opts.Client
	learner := m.opts.Learner
	if m.sess != nil && m.sess.Topic == topicID {
		m.sess = nil
		m.invalidateTimers()
		m.lock.SetActiveSession(false)
	}
	return func() tea.Msg {
		return terminatedMsg{err: client.TerminateSession(context.Background(), learner, topicID)}
	}
}

// finishSession supersedes the snapshot after the lesson's terminal state
// and releases the local lock.
func (m *Model) finishSession() tea.Cmd {
	if m.sess == nil {
		return nil
	}
	client := m.opts.Client
	learner := m.opts.Learner
	topic := m.sess.Topic
	sessionID := m.sess.SessionID

	finish := func() tea.Msg {
		return finishDoneMsg{err: client.FinishSession(context.Background(), learner, topic, sessionID)}
	}
	reset := m.teardown("Lesson complete. Nice work!")
	return tea.Batch(finish, reset, m.loadUnfinished(false))
}
