package plan

import (
	"testing"
)

const validPlanJSON = `{
  "topic_id": "t-1",
  "topic_name": "Neonatal Jaundice",
  "supertopic": "Neonatology",
  "subtopics": [
    {
      "subtopic_id": "s-1",
      "subtopic_title": "Case: Term newborn, day 3",
      "concept": "A term newborn presents on day 3...",
      "is_case": true,
      "questions": [
        {
          "question_id": "q-1",
          "stem": "Most appropriate next step?",
          "explanation": "Bilirubin levels guide therapy.",
          "correct_choice_index": 1,
          "choices": [
            {"choice_index": 0, "choice_text": "Observe", "rationale": "Delays care."},
            {"choice_index": 1, "choice_text": "Measure bilirubin", "rationale": "Correct first step."},
            {"choice_index": 2, "choice_text": "Exchange transfusion", "rationale": "Premature."}
          ],
          "variants": [
            {"variant_no": 1, "stem": "Which investigation comes first?", "correct_choice_index": 1}
          ]
        }
      ]
    }
  ]
}`

func TestParse_ValidPlan(t *testing.T) {
	p, err := Parse([]byte(validPlanJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.TopicID != "t-1" || len(p.Subtopics) != 1 {
		t.Fatalf("unexpected plan: %+v", p)
	}
	q := p.Subtopics[0].Questions[0]
	if q.TotalSlots() != 2 {
		t.Errorf("TotalSlots = %d, want 2", q.TotalSlots())
	}
	if !p.Subtopics[0].IsCaseStudy() {
		t.Error("expected case-study subtopic")
	}
}

func TestParse_RejectsMissingTopicID(t *testing.T) {
	if _, err := Parse([]byte(`{"topic_name": "x", "subtopics": []}`)); err == nil {
		t.Error("expected schema rejection")
	}
}

func TestParse_RejectsNotJSON(t *testing.T) {
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Error("expected JSON error")
	}
}

func TestParse_RejectsDanglingCorrectIndex(t *testing.T) {
	bad := `{
	  "topic_id": "t", "topic_name": "t",
	  "subtopics": [{
	    "subtopic_id": "s", "subtopic_title": "s", "concept": "c",
	    "questions": [{
	      "question_id": "q", "stem": "?", "correct_choice_index": 9,
	      "choices": [
	        {"choice_index": 0, "choice_text": "a"},
	        {"choice_index": 1, "choice_text": "b"}
	      ]
	    }]
	  }]
	}`
	if _, err := Parse([]byte(bad)); err == nil {
		t.Error("expected structural rejection of dangling correct index")
	}
}

func TestCorrectIndexFor_VariantFallback(t *testing.T) {
	p, err := Parse([]byte(validPlanJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	q := p.Subtopics[0].Questions[0]

	if got := q.CorrectIndexFor(0); got != 1 {
		t.Errorf("slot 0 correct index = %d, want 1", got)
	}
	if got := q.CorrectIndexFor(1); got != 1 {
		t.Errorf("slot 1 correct index = %d, want 1", got)
	}

	// A variant without its own index falls back to the primary.
	q.Variants[0].CorrectChoiceIndex = nil
	if got := q.CorrectIndexFor(1); got != q.CorrectChoiceIndex {
		t.Errorf("slot 1 fallback = %d, want %d", got, q.CorrectChoiceIndex)
	}
	// An unknown slot also falls back.
	if got := q.CorrectIndexFor(7); got != q.CorrectChoiceIndex {
		t.Errorf("unknown slot = %d, want primary", got)
	}
}

func TestStemFor(t *testing.T) {
	p, err := Parse([]byte(validPlanJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	q := p.Subtopics[0].Questions[0]

	if got := q.StemFor(0); got != "Most appropriate next step?" {
		t.Errorf("slot 0 stem = %q", got)
	}
	if got := q.StemFor(1); got != "Which investigation comes first?" {
		t.Errorf("slot 1 stem = %q", got)
	}
	if got := q.StemFor(3); got != q.Stem {
		t.Errorf("missing variant stem must fall back, got %q", got)
	}
}

func TestQuestionNumber(t *testing.T) {
	p := &LessonPlan{
		TopicID: "t",
		Subtopics: []Subtopic{
			{ID: "a", Questions: make([]Question, 3)},
			{ID: "b", Questions: make([]Question, 2)},
		},
	}
	if got := p.TotalQuestions(); got != 5 {
		t.Errorf("TotalQuestions = %d, want 5", got)
	}
	if got := p.QuestionNumber(1, 1); got != 5 {
		t.Errorf("QuestionNumber(1,1) = %d, want 5", got)
	}
	if got := p.QuestionNumber(0, 0); got != 1 {
		t.Errorf("QuestionNumber(0,0) = %d, want 1", got)
	}
}

func TestIsCaseStudy_TitleHeuristic(t *testing.T) {
	s := Subtopic{Title: "case study: toddler with stridor"}
	if !s.IsCaseStudy() {
		t.Error("title prefix should mark the subtopic as a case")
	}
	s = Subtopic{Title: "Croup management"}
	if s.IsCaseStudy() {
		t.Error("plain concept misdetected as case")
	}
}
