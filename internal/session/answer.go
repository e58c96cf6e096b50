package session

import "time"

// SubmitResult describes the outcome of one submission for the caller to
// act on: report it, arm the retry countdown, or neither.
type SubmitResult struct {
	Attempt        Attempt
	Correct        bool
	RetryAvailable bool
}

// Submit records the learner's chosen index for the current attempt slot
// and applies the resulting transition. The attempt is appended to the log
// strictly before any state change, so a concurrently scheduled snapshot
// can never observe the transition without its causing attempt.
//
// A correct answer, or a wrong answer with no variant left, moves to
// ModeExplaining. A wrong answer with a variant remaining sets RetryPending;
// the caller owns the countdown and calls NextTry when it fires or when the
// learner retries explicitly.
func Submit(s *State, chosen int) *SubmitResult {
	q := s.CurrentQuestion()
	sub := s.CurrentSubtopic()
	if q == nil || sub == nil || s.Mode != ModeAnswering || s.RetryPending {
		return nil
	}

	correct := chosen == q.CorrectIndexFor(s.Cursor.Slot)

	att := Attempt{
		SubtopicID:  sub.ID,
		QuestionID:  q.ID,
		VariantNo:   s.Cursor.Slot,
		ChosenIndex: chosen,
		Correct:     correct,
		At:          time.Now().UTC(),
	}
	s.Attempts = append(s.Attempts, att)

	s.LastChosen = chosen
	s.LastCorrect = correct
	s.ShowRationale = true

	retryAvailable := !correct && s.Cursor.Slot < len(q.Variants)
	if retryAvailable {
		s.RetryPending = true
	} else {
		s.Mode = ModeExplaining
	}

	return &SubmitResult{Attempt: att, Correct: correct, RetryAvailable: retryAvailable}
}

// NextTry advances to the next attempt slot after a wrong answer, clearing
// the pending choice. The slot never decreases within a question; it resets
// only when Proceed moves to a new question.
func NextTry(s *State) {
	if !s.RetryPending {
		return
	}
	s.RetryPending = false
	s.Cursor.Slot++
	s.Chosen = NoChoice
	s.LastChosen = NoChoice
	s.ShowRationale = false
	s.Mode = ModeAnswering
}

// Proceed moves the cursor to the next question after the explanation, or
// flips the session to Finished at the end of the plan. Returns false once
// finished. The cursor itself never leaves plan bounds.
func Proceed(s *State) bool {
	sub := s.CurrentSubtopic()
	if sub == nil {
		return false
	}
	s.RetryPending = false

	lastSub := len(s.Plan.Subtopics) - 1
	lastQ := len(sub.Questions) - 1
	if s.Cursor.Subtopic == lastSub && s.Cursor.Question == lastQ {
		s.Finished = true
		return false
	}

	if s.Cursor.Question < lastQ {
		s.Cursor.Question++
	} else {
		s.Cursor.Subtopic++
		s.Cursor.Question = 0
	}
	s.Cursor.Slot = 0
	s.Chosen = NoChoice
	s.LastChosen = NoChoice
	s.ShowRationale = false
	s.Mode = ModeAnswering
	s.View = ViewQuestions
	return true
}
