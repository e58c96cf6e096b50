// Package lock tracks whether the learner is bound to an in-progress
// lesson. The state merges two racing sources: the local view (an active
// session or known resumable sessions) and a periodic server poll. Either
// source reporting locked wins; the last poll holds until superseded by a
// fresher local transition.
package lock

import "github.com/adwate/lessonloop/internal/session"

// PollIntervalTicks is the fixed spacing of lock-status polls, in the
// controller's time units. Polling runs for the lifetime of the client,
// session or not.
const PollIntervalTicks = 15

// State is the merged lock state. Zero value is unlocked.
type State struct {
	activeSession bool
	resumable     int
	polled        bool
}

// SetActiveSession records whether a session id is currently live.
func (s *State) SetActiveSession(active bool) {
	s.activeSession = active
}

// SetResumable records how many unfinished sessions the server reports.
func (s *State) SetResumable(n int) {
	s.resumable = n
}

// SetPolled applies the latest poll result. A failed poll must not call
// this; the previous result stands.
func (s *State) SetPolled(locked bool) {
	s.polled = locked
}

// Locked reports the merged state: locked if any source says locked.
func (s *State) Locked() bool {
	return s.activeSession || s.resumable > 0 || s.polled
}

// Resumable reports how many unfinished sessions are known locally.
func (s *State) Resumable() int {
	return s.resumable
}

// Allows reports whether navigation to the given view is permitted under
// the current lock state. While locked, only the in-progress question and
// concept surfaces and the resume prompt itself are reachable; everything
// else is intercepted and redirected to the resume prompt.
func (s *State) Allows(v session.View) bool {
	if !s.Locked() {
		return true
	}
	return v == session.ViewConcept || v == session.ViewQuestions || v == session.ViewResume
}
