// Package plan holds the immutable lesson plan model: a topic's ordered
// subtopics, their questions, and the retry variants of each question.
// A plan is fetched (or imported) once per session and never mutated.
package plan

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// LessonPlan is the server-supplied tree for one topic.
type LessonPlan struct {
	TopicID    string     `json:"topic_id"`
	TopicName  string     `json:"topic_name"`
	Supertopic string     `json:"supertopic,omitempty"`
	Subtopics  []Subtopic `json:"subtopics"`
}

// Subtopic groups a concept (or case vignette) with its questions.
type Subtopic struct {
	ID         string     `json:"subtopic_id"`
	Title      string     `json:"subtopic_title"`
	Concept    string     `json:"concept"`
	IsCase     bool       `json:"is_case,omitempty"`
	References []string   `json:"references,omitempty"`
	Questions  []Question `json:"questions"`
}

// Question is a single multiple-choice item with optional retry variants.
type Question struct {
	ID                 string    `json:"question_id"`
	Stem               string    `json:"stem"`
	Explanation        string    `json:"explanation,omitempty"`
	Choices            []Choice  `json:"choices"`
	CorrectChoiceIndex int       `json:"correct_choice_index"`
	Variants           []Variant `json:"variants,omitempty"`
}

// Choice is one answer option with its per-option rationale.
type Choice struct {
	Index     int    `json:"choice_index"`
	Text      string `json:"choice_text"`
	Rationale string `json:"rationale,omitempty"`
}

// Variant is a rephrasing of a question used for a retry. A variant may
// carry its own correct index; when absent the question's primary correct
// index applies.
type Variant struct {
	VariantNo          int    `json:"variant_no"`
	Stem               string `json:"stem"`
	CorrectChoiceIndex *int   `json:"correct_choice_index,omitempty"`
}

var casePrefix = regexp.MustCompile(`(?i)^case( study)?:`)

// IsCaseStudy reports whether the subtopic is a narrative case vignette.
// The backend flag wins; a title prefix backs it up for older plans that
// predate the flag.
func (s Subtopic) IsCaseStudy() bool {
	return s.IsCase || casePrefix.MatchString(s.Title)
}

// TotalSlots returns the number of attempt slots for the question:
// the primary stem plus one per variant.
func (q Question) TotalSlots() int {
	return 1 + len(q.Variants)
}

// variantFor returns the variant for attempt slot (1-based variant number),
// or nil for slot 0 or an unknown number.
func (q Question) variantFor(slot int) *Variant {
	if slot <= 0 {
		return nil
	}
	for i := range q.Variants {
		if q.Variants[i].VariantNo == slot {
			return &q.Variants[i]
		}
	}
	return nil
}

// StemFor returns the stem text to display for the given attempt slot.
// Slot 0 is the primary stem; slots 1..N use the matching variant's stem,
// falling back to the primary stem if the variant is missing.
func (q Question) StemFor(slot int) string {
	if v := q.variantFor(slot); v != nil && v.Stem != "" {
		return v.Stem
	}
	return q.Stem
}

// CorrectIndexFor returns the correct choice index governing the given
// attempt slot: the variant's own index when it defines one, otherwise the
// question's primary index.
func (q Question) CorrectIndexFor(slot int) int {
	if v := q.variantFor(slot); v != nil && v.CorrectChoiceIndex != nil {
		return *v.CorrectChoiceIndex
	}
	return q.CorrectChoiceIndex
}

// ChoiceByIndex returns the choice with the given index, or nil.
func (q Question) ChoiceByIndex(idx int) *Choice {
	for i := range q.Choices {
		if q.Choices[i].Index == idx {
			return &q.Choices[i]
		}
	}
	return nil
}

// TotalQuestions counts questions across all subtopics.
func (p *LessonPlan) TotalQuestions() int {
	n := 0
	for _, s := range p.Subtopics {
		n += len(s.Questions)
	}
	return n
}

// QuestionNumber returns the 1-based ordinal of a question position within
// the whole plan, for progress display.
func (p *LessonPlan) QuestionNumber(subIdx, qIdx int) int {
	n := 0
	for i := 0; i < subIdx && i < len(p.Subtopics); i++ {
		n += len(p.Subtopics[i].Questions)
	}
	return n + qIdx + 1
}

// Parse validates raw JSON against the plan schema and decodes it.
// A plan that fails validation is rejected outright; no session may start
// on a partially usable plan.
func Parse(data []byte) (*LessonPlan, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}

	var p LessonPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode lesson plan: %w", err)
	}

	if err := p.check(); err != nil {
		return nil, err
	}
	return &p, nil
}

// check enforces structural invariants the JSON schema can't express.
func (p *LessonPlan) check() error {
	if strings.TrimSpace(p.TopicID) == "" {
		return fmt.Errorf("lesson plan: missing topic_id")
	}
	if len(p.Subtopics) == 0 {
		return fmt.Errorf("lesson plan %s: no subtopics", p.TopicID)
	}
	for _, s := range p.Subtopics {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("lesson plan %s: subtopic with empty id", p.TopicID)
		}
		for _, q := range s.Questions {
			if strings.TrimSpace(q.ID) == "" {
				return fmt.Errorf("subtopic %s: question with empty id", s.ID)
			}
			if q.ChoiceByIndex(q.CorrectChoiceIndex) == nil {
				return fmt.Errorf("question %s: correct_choice_index %d matches no choice", q.ID, q.CorrectChoiceIndex)
			}
			for _, v := range q.Variants {
				if v.VariantNo < 1 {
					return fmt.Errorf("question %s: variant_no %d must be >= 1", q.ID, v.VariantNo)
				}
				if v.CorrectChoiceIndex != nil && q.ChoiceByIndex(*v.CorrectChoiceIndex) == nil {
					return fmt.Errorf("question %s variant %d: correct_choice_index %d matches no choice", q.ID, v.VariantNo, *v.CorrectChoiceIndex)
				}
			}
		}
	}
	return nil
}
