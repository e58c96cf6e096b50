// Package session holds the live state of one learner's lesson run: the
// cursor into the plan, the append-only attempt log, and the state machine
// that moves both. One State exists per active session; it is owned by the
// app controller and passed by reference to the screens and supervisors.
package session

import (
	"time"

	"github.com/adwate/lessonloop/internal/plan"
)

// Mode is the question-mode variant: either the learner is answering the
// current attempt slot, or the explanation/review panel is showing and
// advancing waits on an explicit proceed.
type Mode int

const (
	ModeAnswering Mode = iota
	ModeExplaining
)

// View identifies which navigation surface the session is on. Stored in the
// snapshot's auxiliary cursor state so a resumed session lands on the right
// surface.
type View int

const (
	ViewHome View = iota
	ViewTopics
	ViewConcept
	ViewQuestions
	ViewDashboard
	ViewResume
)

// viewNames is the wire encoding of View inside snapshot cursors.
var viewNames = map[View]string{
	ViewHome:      "home",
	ViewTopics:    "topics",
	ViewConcept:   "concept",
	ViewQuestions: "questions",
	ViewDashboard: "dashboard",
	ViewResume:    "resume",
}

// String returns the wire name of the view.
func (v View) String() string {
	if n, ok := viewNames[v]; ok {
		return n
	}
	return "home"
}

// ViewFromString parses a wire view name; unknown names map to home.
func ViewFromString(s string) View {
	for v, n := range viewNames {
		if n == s {
			return v
		}
	}
	return ViewHome
}

// Cursor points at the currently displayed question and which attempt slot
// (variant text) to show. Exactly one cursor is live per session; it is
// always within plan bounds — reaching past the final question flips the
// session to Finished instead of moving the cursor out of range.
type Cursor struct {
	Subtopic int `json:"subtopic_index"`
	Question int `json:"question_index"`
	Slot     int `json:"attempt_index"`
}

// Attempt is the immutable record of one answer submission. Appended once
// per submission, never mutated or removed. VariantNo 0 is the primary
// attempt; 1..N are retries against successive variants.
type Attempt struct {
	SubtopicID  string    `json:"subtopic_id"`
	QuestionID  string    `json:"question_id"`
	VariantNo   int       `json:"variant_no"`
	ChosenIndex int       `json:"chosen_index"`
	Correct     bool      `json:"correct"`
	At          time.Time `json:"ts_utc"`
}

// NoChoice marks the selected-choice field when nothing is selected yet.
const NoChoice = -1

// State is the single mutable session object. Screens mutate it through
// the transition functions in this package and announce changes to the
// controller via ChangedMsg; the supervisors (lock, idle, snapshot) only
// ever read it.
type State struct {
	SessionID string
	Learner   string
	Topic     string
	TopicName string

	Plan *plan.LessonPlan

	Cursor   Cursor
	Attempts []Attempt

	Mode   Mode
	View   View
	Tab    int
	Chosen int

	// LastChosen and LastCorrect describe the most recent submission while
	// its rationale is on screen.
	LastChosen    int
	LastCorrect   bool
	ShowRationale bool

	// RetryPending is set between a wrong submission with a remaining
	// variant and the slot advance; the auto-advance countdown runs while
	// it is set and input is disabled.
	RetryPending bool

	Finished bool
}

// New creates a fresh session state positioned at the first question.
func New(sessionID, learner string, p *plan.LessonPlan) *State {
	return &State{
		SessionID:  sessionID,
		Learner:    learner,
		Topic:      p.TopicID,
		TopicName:  p.TopicName,
		Plan:       p,
		Chosen:     NoChoice,
		LastChosen: NoChoice,
		View:       ViewConcept,
	}
}

// CurrentSubtopic returns the subtopic under the cursor, or nil when the
// session is finished or the plan is absent.
func (s *State) CurrentSubtopic() *plan.Subtopic {
	if s.Plan == nil || s.Finished {
		return nil
	}
	if s.Cursor.Subtopic < 0 || s.Cursor.Subtopic >= len(s.Plan.Subtopics) {
		return nil
	}
	return &s.Plan.Subtopics[s.Cursor.Subtopic]
}

// CurrentQuestion returns the question under the cursor, or nil.
func (s *State) CurrentQuestion() *plan.Question {
	sub := s.CurrentSubtopic()
	if sub == nil {
		return nil
	}
	if s.Cursor.Question < 0 || s.Cursor.Question >= len(sub.Questions) {
		return nil
	}
	return &sub.Questions[s.Cursor.Question]
}

// AttemptsFor returns the attempts recorded for one question, in
// submission order.
func (s *State) AttemptsFor(questionID string) []Attempt {
	var out []Attempt
	for _, a := range s.Attempts {
		if equalID(a.QuestionID, questionID) {
			out = append(out, a)
		}
	}
	return out
}

// WrongChoiceSet returns the set of choice indexes ever chosen incorrectly
// for one question, regardless of which variant slot they were chosen on.
// The review panel marks these independent of submission order.
func (s *State) WrongChoiceSet(questionID string) map[int]bool {
	set := make(map[int]bool)
	for _, a := range s.Attempts {
		if equalID(a.QuestionID, questionID) && !a.Correct {
			set[a.ChosenIndex] = true
		}
	}
	return set
}

// Progress returns the fraction of the plan reached by the cursor, in
// [0, 1]. A finished session reports 1.
func (s *State) Progress() float64 {
	if s.Plan == nil {
		return 0
	}
	total := s.Plan.TotalQuestions()
	if total == 0 {
		return 0
	}
	if s.Finished {
		return 1
	}
	return float64(s.Plan.QuestionNumber(s.Cursor.Subtopic, s.Cursor.Question)-1) / float64(total)
}
