package questions

import (
	"errors"
	"testing"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/plan"
	"github.com/adwate/lessonloop/internal/session"
)

func testPlan() *plan.LessonPlan {
	return &plan.LessonPlan{
		TopicID:   "t-1",
		TopicName: "Acid-Base Disorders",
		Subtopics: []plan.Subtopic{
			{
				ID: "s-1", Title: "Metabolic acidosis", Concept: "...",
				Questions: []plan.Question{
					{
						ID: "q-1", Stem: "Anion gap?", CorrectChoiceIndex: 1,
						Choices: []plan.Choice{
							{Index: 0, Text: "Normal"},
							{Index: 1, Text: "Elevated"},
						},
						Variants: []plan.Variant{
							{VariantNo: 1, Stem: "Anion gap, reworded?"},
						},
					},
					{
						ID: "q-2", Stem: "Compensation?", CorrectChoiceIndex: 0,
						Choices: []plan.Choice{
							{Index: 0, Text: "Hyperventilation"},
							{Index: 1, Text: "Hypoventilation"},
						},
					},
				},
			},
		},
	}
}

func newTestScreen(t *testing.T) (*QuestionsScreen, *session.State, *backend.Mock) {
	t.Helper()
	st := session.New("sess-1", "learner-1", testPlan())
	mock := &backend.Mock{}
	return New(st, mock), st, mock
}

func TestSubmit_WrongArmsCountdown(t *testing.T) {
	s, st, _ := newTestScreen(t)

	s.choices.Select(0)
	if cmd := s.submit(); cmd == nil {
		t.Fatal("expected a command batch from submit")
	}

	if !st.RetryPending {
		t.Fatal("wrong answer with a variant left must arm the countdown")
	}
	if s.countdownLeft != countdownTicks {
		t.Errorf("countdownLeft = %d, want %d", s.countdownLeft, countdownTicks)
	}
	if s.countdownGen != 1 {
		t.Errorf("countdownGen = %d, want 1", s.countdownGen)
	}
	if !s.choices.Disabled {
		t.Error("choice input must be disabled while the countdown runs")
	}
}

func TestSubmit_CorrectDoesNotArmCountdown(t *testing.T) {
	s, st, _ := newTestScreen(t)

	s.choices.Select(1)
	s.submit()

	if st.RetryPending {
		t.Error("correct answer must not arm a countdown")
	}
	if s.countdownGen != 0 {
		t.Errorf("countdownGen = %d, want 0", s.countdownGen)
	}
	if st.Mode != session.ModeExplaining {
		t.Errorf("Mode = %v, want ModeExplaining", st.Mode)
	}
}

func TestSubmit_GradesByChoiceIndexNotPosition(t *testing.T) {
	// choice_index values in a plan document are identifiers, not list
	// positions. Here the correct choice (index 0) sits at position 1.
	st := session.New("sess-1", "learner-1", &plan.LessonPlan{
		TopicID:   "t-1",
		TopicName: "Acid-Base Disorders",
		Subtopics: []plan.Subtopic{
			{
				ID: "s-1", Title: "Metabolic acidosis", Concept: "...",
				Questions: []plan.Question{
					{
						ID: "q-1", Stem: "Anion gap?", CorrectChoiceIndex: 0,
						Choices: []plan.Choice{
							{Index: 1, Text: "Normal"},
							{Index: 0, Text: "Elevated"},
						},
					},
				},
			},
		},
	})
	s := New(st, &backend.Mock{})

	s.choices.Select(1)
	s.submit()

	if len(st.Attempts) != 1 {
		t.Fatalf("attempt log length = %d, want 1", len(st.Attempts))
	}
	att := st.Attempts[0]
	if att.ChosenIndex != 0 {
		t.Errorf("ChosenIndex = %d, want wire index 0", att.ChosenIndex)
	}
	if !att.Correct {
		t.Error("the correct choice was selected and must grade correct")
	}
}

func TestReview_MarksByChoiceIndexNotPosition(t *testing.T) {
	st := session.New("sess-1", "learner-1", &plan.LessonPlan{
		TopicID:   "t-1",
		TopicName: "Acid-Base Disorders",
		Subtopics: []plan.Subtopic{
			{
				ID: "s-1", Title: "Metabolic acidosis", Concept: "...",
				Questions: []plan.Question{
					{
						ID: "q-1", Stem: "Anion gap?", CorrectChoiceIndex: 0,
						Choices: []plan.Choice{
							{Index: 1, Text: "Normal"},
							{Index: 0, Text: "Elevated"},
						},
					},
				},
			},
		},
	})
	s := New(st, &backend.Mock{})

	// Wrong answer: position 0 carries wire index 1.
	s.choices.Select(0)
	s.submit()

	if !s.choices.WrongSet[1] {
		t.Error("wire index 1 was chosen wrongly and must be marked")
	}
	if s.choices.WrongSet[0] {
		t.Error("wire index 0 was never chosen")
	}
	if s.choices.CorrectIndex != 0 {
		t.Errorf("CorrectIndex = %d, want wire index 0", s.choices.CorrectIndex)
	}
}

func TestCountdown_NaturalExpiryAdvancesOnce(t *testing.T) {
	s, st, _ := newTestScreen(t)
	s.choices.Select(0)
	s.submit()

	gen := s.countdownGen
	for i := 0; i < countdownTicks-1; i++ {
		s.handleCountdownTick(countdownTickMsg{owner: s, gen: gen})
	}
	if st.Cursor.Slot != 0 || !st.RetryPending {
		t.Fatalf("advanced early: slot=%d pending=%v", st.Cursor.Slot, st.RetryPending)
	}
	if s.countdownLeft != 1 {
		t.Errorf("countdownLeft = %d, want 1", s.countdownLeft)
	}

	// The final tick fires the advance.
	s.handleCountdownTick(countdownTickMsg{owner: s, gen: gen})
	if st.Cursor.Slot != 1 {
		t.Errorf("slot = %d, want 1", st.Cursor.Slot)
	}
	if st.RetryPending {
		t.Error("RetryPending must clear on advance")
	}

	// The advance invalidated the generation; a straggler tick is a no-op.
	s.handleCountdownTick(countdownTickMsg{owner: s, gen: gen})
	if st.Cursor.Slot != 1 {
		t.Errorf("straggler tick moved the slot to %d", st.Cursor.Slot)
	}
}

func TestCountdown_RetryNowCancelsPendingTick(t *testing.T) {
	s, st, _ := newTestScreen(t)
	s.choices.Select(0)
	s.submit()
	gen := s.countdownGen

	// Learner skips the wait.
	s.advanceSlot()
	if st.Cursor.Slot != 1 {
		t.Fatalf("slot = %d, want 1 after retry-now", st.Cursor.Slot)
	}

	// The countdown's in-flight tick lands afterwards and must not move
	// the slot a second time.
	s.handleCountdownTick(countdownTickMsg{owner: s, gen: gen})
	if st.Cursor.Slot != 1 {
		t.Errorf("stale tick advanced the slot to %d", st.Cursor.Slot)
	}
}

func TestCountdown_TickFromOtherScreenIsNoop(t *testing.T) {
	s, st, _ := newTestScreen(t)
	s.choices.Select(0)
	s.submit()

	other := &QuestionsScreen{}
	s.handleCountdownTick(countdownTickMsg{owner: other, gen: s.countdownGen})
	if st.Cursor.Slot != 0 || s.countdownLeft != countdownTicks {
		t.Error("a tick owned by another screen instance must be ignored")
	}
}

func TestCountdown_RearmOnSecondWrongAnswer(t *testing.T) {
	s, st, _ := newTestScreen(t)
	q := &st.Plan.Subtopics[0].Questions[0]
	q.Variants = append(q.Variants, plan.Variant{VariantNo: 2, Stem: "Again?"})

	s.choices.Select(0)
	s.submit()
	firstGen := s.countdownGen
	s.advanceSlot()

	s.choices.Select(0)
	s.submit()
	if s.countdownGen <= firstGen+1 {
		t.Fatalf("re-arm must bump the generation past the advance: gen=%d", s.countdownGen)
	}

	// A tick from the first countdown cannot drain the second one.
	s.handleCountdownTick(countdownTickMsg{owner: s, gen: firstGen})
	if s.countdownLeft != countdownTicks {
		t.Errorf("countdownLeft = %d, want %d", s.countdownLeft, countdownTicks)
	}
}

func TestRecordCmd_ReportsAttempt(t *testing.T) {
	s, st, mock := newTestScreen(t)
	s.choices.Select(1)
	s.submit()

	msg := s.recordCmd(st.Attempts[0])()
	if msg != nil {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if mock.RecordCalls != 1 {
		t.Fatalf("RecordCalls = %d, want 1", mock.RecordCalls)
	}
	if mock.LastRecord.QuestionID != "q-1" || !mock.LastRecord.Correct {
		t.Errorf("record = %+v", *mock.LastRecord)
	}
}

func TestRecordCmd_FailureSurfacesMessage(t *testing.T) {
	s, st, mock := newTestScreen(t)
	s.choices.Select(1)
	s.submit()

	mock.Err = errors.New("server unavailable")
	msg := s.recordCmd(st.Attempts[0])()
	fail, ok := msg.(session.RecordFailedMsg)
	if !ok {
		t.Fatalf("message = %#v, want RecordFailedMsg", msg)
	}
	if fail.Err == nil {
		t.Error("RecordFailedMsg must carry the cause")
	}
}

func TestProceed_CrossingSubtopicPopsToConcept(t *testing.T) {
	s, st, _ := newTestScreen(t)
	st.Plan.Subtopics = append(st.Plan.Subtopics, plan.Subtopic{
		ID: "s-2", Title: "Alkalosis", Concept: "...",
		Questions: []plan.Question{
			{
				ID: "q-3", Stem: "pH?", CorrectChoiceIndex: 0,
				Choices: []plan.Choice{{Index: 0, Text: "High"}, {Index: 1, Text: "Low"}},
			},
		},
	})

	s.choices.Select(1)
	s.submit()
	s.proceed() // q-1 -> q-2, same subtopic

	s.choices.Select(0)
	s.submit()
	_, cmd := s.proceed() // q-2 -> s-2, crosses the boundary
	if cmd == nil {
		t.Fatal("expected commands from the boundary crossing")
	}
	if st.Cursor.Subtopic != 1 || st.Cursor.Question != 0 {
		t.Errorf("cursor = %+v, want subtopic 1 question 0", st.Cursor)
	}
	if st.View != session.ViewConcept {
		t.Error("view must return to the concept screen at a new subtopic")
	}
}
