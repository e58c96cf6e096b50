package session

import (
	"strings"

	"github.com/adwate/lessonloop/internal/plan"
)

// equalID compares plan/attempt identifiers case-insensitively, matching
// how the backend keys attempts.
func equalID(a, b string) bool {
	return strings.EqualFold(a, b)
}

// questionKey builds the aggregate key for one question.
func questionKey(subtopicID, questionID string) string {
	return strings.ToLower(subtopicID) + ":" + strings.ToLower(questionID)
}

type questionAggregate struct {
	count      int
	anyCorrect bool
}

// Resolve deterministically computes the cursor at which an interrupted
// session should resume, given the plan and the attempts recorded in its
// snapshot. The second return is false when every question is either
// answered correctly or has exhausted all attempt slots — the lesson is
// complete.
//
// Attempts referencing questions absent from the plan are ignored, so a
// plan revision between sessions cannot wedge the resume.
func Resolve(p *plan.LessonPlan, attempts []Attempt) (Cursor, bool) {
	byQ := make(map[string]*questionAggregate, len(attempts))
	for _, a := range attempts {
		key := questionKey(a.SubtopicID, a.QuestionID)
		agg := byQ[key]
		if agg == nil {
			agg = &questionAggregate{}
			byQ[key] = agg
		}
		agg.count++
		if a.Correct {
			agg.anyCorrect = true
		}
	}

	for i, sub := range p.Subtopics {
		for j, q := range sub.Questions {
			agg := byQ[questionKey(sub.ID, q.ID)]
			if agg == nil {
				return Cursor{Subtopic: i, Question: j, Slot: 0}, true
			}
			if !agg.anyCorrect && agg.count < q.TotalSlots() {
				return Cursor{Subtopic: i, Question: j, Slot: agg.count}, true
			}
		}
	}
	return Cursor{}, false
}
