package session

import (
	"testing"
)

func testState(t *testing.T) *State {
	t.Helper()
	return New("sess-1", "learner-1", withVariant(twoQuestionPlan()))
}

func TestSubmit_CorrectGoesToExplaining(t *testing.T) {
	s := testState(t)

	res := Submit(s, 1)
	if res == nil {
		t.Fatal("expected a submit result")
	}
	if !res.Correct {
		t.Error("expected correct submission")
	}
	if res.RetryAvailable {
		t.Error("correct answer must not offer a retry")
	}
	if s.Mode != ModeExplaining {
		t.Errorf("Mode = %v, want ModeExplaining", s.Mode)
	}
	if len(s.Attempts) != 1 {
		t.Fatalf("attempt log length = %d, want 1", len(s.Attempts))
	}
	if !s.Attempts[0].Correct || s.Attempts[0].VariantNo != 0 {
		t.Errorf("logged attempt = %+v", s.Attempts[0])
	}
}

func TestSubmit_WrongWithVariantLeftArmsRetry(t *testing.T) {
	s := testState(t)

	res := Submit(s, 0)
	if res == nil {
		t.Fatal("expected a submit result")
	}
	if res.Correct {
		t.Error("expected incorrect submission")
	}
	if !res.RetryAvailable {
		t.Error("expected a retry to be available")
	}
	if !s.RetryPending {
		t.Error("RetryPending must be set")
	}
	if s.Mode != ModeAnswering {
		t.Errorf("Mode = %v, want ModeAnswering while retry pends", s.Mode)
	}
	// Attempt appended before the transition.
	if len(s.Attempts) != 1 {
		t.Fatalf("attempt log length = %d, want 1", len(s.Attempts))
	}
}

func TestSubmit_IgnoredWhileRetryPending(t *testing.T) {
	s := testState(t)
	Submit(s, 0)

	if res := Submit(s, 1); res != nil {
		t.Error("submission during the auto-advance window must be rejected")
	}
	if len(s.Attempts) != 1 {
		t.Errorf("attempt log length = %d, want 1", len(s.Attempts))
	}
}

func TestSubmit_WrongOnLastSlotGoesToExplaining(t *testing.T) {
	s := testState(t)
	Submit(s, 0)
	NextTry(s)

	res := Submit(s, 0)
	if res == nil {
		t.Fatal("expected a submit result")
	}
	if res.RetryAvailable {
		t.Error("no variant remains; retry must not be offered")
	}
	if s.Mode != ModeExplaining {
		t.Errorf("Mode = %v, want ModeExplaining when slots are exhausted", s.Mode)
	}
	if len(s.Attempts) != 2 {
		t.Errorf("attempt log length = %d, want 2", len(s.Attempts))
	}
}

func TestSubmit_VariantCorrectIndexOverride(t *testing.T) {
	s := testState(t)
	override := 0
	q := &s.Plan.Subtopics[0].Questions[0]
	q.Variants[0].CorrectChoiceIndex = &override

	Submit(s, 0) // wrong on primary (correct is 1)
	NextTry(s)

	res := Submit(s, 0) // correct on variant (override is 0)
	if res == nil || !res.Correct {
		t.Fatal("expected the variant's own correct index to govern slot 1")
	}
}

func TestNextTry_SlotMonotonic(t *testing.T) {
	s := testState(t)

	Submit(s, 0)
	if s.Cursor.Slot != 0 {
		t.Fatalf("slot advanced before NextTry: %d", s.Cursor.Slot)
	}
	NextTry(s)
	if s.Cursor.Slot != 1 {
		t.Errorf("slot = %d, want 1", s.Cursor.Slot)
	}
	if s.Chosen != NoChoice {
		t.Error("choice must be cleared on slot advance")
	}

	// NextTry without a pending retry is a no-op; the slot never moves
	// twice for one wrong answer.
	NextTry(s)
	if s.Cursor.Slot != 1 {
		t.Errorf("slot = %d after duplicate NextTry, want 1", s.Cursor.Slot)
	}
}

func TestProceed_AdvancesAndResetsSlot(t *testing.T) {
	s := testState(t)
	Submit(s, 0)
	NextTry(s)
	Submit(s, 0) // exhausted, explaining

	if !Proceed(s) {
		t.Fatal("expected more questions")
	}
	if s.Cursor != (Cursor{Subtopic: 0, Question: 1, Slot: 0}) {
		t.Errorf("cursor = %+v, want question 1 slot 0", s.Cursor)
	}
	if s.Mode != ModeAnswering {
		t.Errorf("Mode = %v, want ModeAnswering", s.Mode)
	}
}

func TestProceed_FinalQuestionFinishes(t *testing.T) {
	s := testState(t)
	Submit(s, 1)
	Proceed(s)
	Submit(s, 0) // q2 correct index is 0

	if Proceed(s) {
		t.Error("expected Proceed to report completion")
	}
	if !s.Finished {
		t.Error("session must be finished")
	}
	// The cursor stays in bounds even at the end.
	if s.Cursor.Subtopic != 0 || s.Cursor.Question != 1 {
		t.Errorf("cursor moved out of bounds: %+v", s.Cursor)
	}
}

func TestWrongChoiceSet_OrderIndependent(t *testing.T) {
	s := testState(t)
	Submit(s, 0)
	NextTry(s)
	Submit(s, 0)

	set := s.WrongChoiceSet("q1")
	if !set[0] {
		t.Error("choice 0 was chosen wrongly twice and must be marked")
	}
	if set[1] {
		t.Error("choice 1 was never chosen")
	}
}
