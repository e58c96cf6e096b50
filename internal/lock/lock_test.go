package lock

import (
	"testing"

	"github.com/adwate/lessonloop/internal/session"
)

func TestLocked_EitherSourceWins(t *testing.T) {
	var s State
	if s.Locked() {
		t.Fatal("zero state must be unlocked")
	}

	s.SetActiveSession(true)
	if !s.Locked() {
		t.Error("active session must lock")
	}
	s.SetActiveSession(false)

	s.SetResumable(2)
	if !s.Locked() {
		t.Error("resumable sessions must lock")
	}
	s.SetResumable(0)

	s.SetPolled(true)
	if !s.Locked() {
		t.Error("poll result must lock")
	}
}

func TestLocked_LastPollHolds(t *testing.T) {
	var s State
	s.SetPolled(true)
	s.SetActiveSession(false)
	s.SetResumable(0)
	if !s.Locked() {
		t.Error("local unlock must not override a locked poll")
	}

	s.SetPolled(false)
	if s.Locked() {
		t.Error("a fresher unlocked poll releases the lock")
	}
}

func TestAllows_LockedRestrictsNavigation(t *testing.T) {
	var s State
	s.SetActiveSession(true)

	allowed := []session.View{session.ViewConcept, session.ViewQuestions, session.ViewResume}
	for _, v := range allowed {
		if !s.Allows(v) {
			t.Errorf("locked state must allow %v", v)
		}
	}
	blocked := []session.View{session.ViewHome, session.ViewTopics, session.ViewDashboard}
	for _, v := range blocked {
		if s.Allows(v) {
			t.Errorf("locked state must block %v", v)
		}
	}
}

func TestAllows_UnlockedAllowsAll(t *testing.T) {
	var s State
	for _, v := range []session.View{
		session.ViewHome, session.ViewTopics, session.ViewConcept,
		session.ViewQuestions, session.ViewDashboard,
	} {
		if !s.Allows(v) {
			t.Errorf("unlocked state must allow %v", v)
		}
	}
}
