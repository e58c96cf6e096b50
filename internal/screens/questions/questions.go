// Package questions is the answering surface: choice selection, the
// variant-retry countdown, and the post-answer review panel.
package questions

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/router"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/components"
	"github.com/adwate/lessonloop/internal/ui/layout"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

// countdownTicks is the length of the auto-advance countdown after a wrong
// answer with a variant remaining, in one-second ticks.
const countdownTicks = 5

// countdownTickMsg carries its owning screen and arming generation so a
// tick from a torn-down or re-armed countdown is a no-op.
type countdownTickMsg struct {
	owner *QuestionsScreen
	gen   int
}

// QuestionsScreen drives one question at a time through the retry state
// machine. All session mutation goes through the session package's
// transition functions; this screen owns only the countdown timer and the
// choice cursor.
type QuestionsScreen struct {
	st     *session.State
	client backend.Client

	choices       components.ChoiceList
	countdownGen  int
	countdownLeft int
}

var _ screen.Screen = (*QuestionsScreen)(nil)
var _ screen.KeyHintProvider = (*QuestionsScreen)(nil)

// New creates the questions screen over the live session state.
func New(st *session.State, client backend.Client) *QuestionsScreen {
	s := &QuestionsScreen{st: st, client: client}
	s.rebuildChoices()
	return s
}

func (s *QuestionsScreen) Init() tea.Cmd {
	s.st.View = session.ViewQuestions
	return func() tea.Msg { return session.ChangedMsg{} }
}

func (s *QuestionsScreen) Title() string {
	return "Questions"
}

func (s *QuestionsScreen) ID() session.View {
	return session.ViewQuestions
}

func (s *QuestionsScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.st.Finished:
		return []layout.KeyHint{{Key: "Enter", Description: "Finish"}}
	case s.st.RetryPending:
		return []layout.KeyHint{{Key: "R", Description: "Retry now"}}
	case s.st.Mode == session.ModeExplaining:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓/1-5", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Concept"},
		}
	}
}

// rebuildChoices refreshes the choice list from the question under the
// cursor and the current mode.
func (s *QuestionsScreen) rebuildChoices() {
	q := s.st.CurrentQuestion()
	if q == nil {
		s.choices = components.NewChoiceList(nil)
		return
	}

	opts := make([]components.ChoiceOption, len(q.Choices))
	for i, ch := range q.Choices {
		opts[i] = components.ChoiceOption{Index: ch.Index, Text: ch.Text, Rationale: ch.Rationale}
	}

	list := components.NewChoiceList(opts)
	list.Disabled = s.st.RetryPending
	list.Revealed = s.st.ShowRationale
	list.CorrectIndex = q.CorrectIndexFor(s.st.Cursor.Slot)
	list.WrongSet = s.st.WrongChoiceSet(q.ID)
	list.ShowRationale = s.st.Mode == session.ModeExplaining
	s.choices = list
}

func (s *QuestionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case countdownTickMsg:
		return s.handleCountdownTick(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

func (s *QuestionsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.st.Finished {
		if key == "enter" {
			return s, func() tea.Msg { return session.FinishedMsg{} }
		}
		return s, nil
	}

	if s.st.RetryPending {
		// Input is disabled while auto-advancing, except retry-now.
		if key == "r" || key == "R" || key == "enter" {
			return s, s.advanceSlot()
		}
		return s, nil
	}

	if s.st.Mode == session.ModeExplaining {
		if key == "enter" {
			return s.proceed()
		}
		return s, nil
	}

	switch key {
	case "enter":
		return s, s.submit()
	case "1", "2", "3", "4", "5", "6":
		s.choices.Select(int(key[0]-'0') - 1)
		return s, nil
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return s, cmd
}

// submit records the selected choice and applies the transition. The
// cursor position is translated to the choice's wire index first; grading
// and the attempt log speak choice_index, never list position. The answer
// report is fire-and-forget; a failure surfaces as a logged warning while
// local state stays authoritative.
func (s *QuestionsScreen) submit() tea.Cmd {
	res := session.Submit(s.st, s.choices.SelectedIndex())
	if res == nil {
		return nil
	}
	s.rebuildChoices()

	cmds := []tea.Cmd{
		s.recordCmd(res.Attempt),
		func() tea.Msg { return session.ChangedMsg{} },
	}
	if res.RetryAvailable {
		cmds = append(cmds, s.armCountdown())
	}
	return tea.Batch(cmds...)
}

func (s *QuestionsScreen) recordCmd(att session.Attempt) tea.Cmd {
	rec := backend.RecordFromAttempt(s.st, att)
	client := s.client
	return func() tea.Msg {
		if err := client.RecordAnswer(context.Background(), rec); err != nil {
			return session.RecordFailedMsg{Err: err}
		}
		return nil
	}
}

// armCountdown starts a fresh auto-advance countdown, invalidating any
// pending one by bumping the generation.
func (s *QuestionsScreen) armCountdown() tea.Cmd {
	s.countdownGen++
	s.countdownLeft = countdownTicks
	return s.tick(s.countdownGen)
}

func (s *QuestionsScreen) tick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownTickMsg{owner: s, gen: gen}
	})
}

func (s *QuestionsScreen) handleCountdownTick(msg countdownTickMsg) (screen.Screen, tea.Cmd) {
	if msg.owner != s || msg.gen != s.countdownGen {
		return s, nil
	}
	if !s.st.RetryPending {
		return s, nil
	}

	s.countdownLeft--
	if s.countdownLeft > 0 {
		return s, s.tick(msg.gen)
	}
	return s, s.advanceSlot()
}

// advanceSlot moves to the next variant slot, cancelling the countdown.
// Exactly one slot advance happens per wrong answer regardless of whether
// the countdown fired or the learner retried explicitly.
func (s *QuestionsScreen) advanceSlot() tea.Cmd {
	s.countdownGen++
	session.NextTry(s.st)
	s.rebuildChoices()
	return func() tea.Msg { return session.ChangedMsg{} }
}

// proceed moves past the explanation. Crossing into a new subtopic drops
// back to the concept screen for its teaching text; the end of the plan
// flips the session to finished.
func (s *QuestionsScreen) proceed() (screen.Screen, tea.Cmd) {
	s.countdownGen++
	prevSub := s.st.Cursor.Subtopic
	advanced := session.Proceed(s.st)
	s.rebuildChoices()

	changed := func() tea.Msg { return session.ChangedMsg{} }

	if !advanced {
		return s, changed
	}
	if s.st.Cursor.Subtopic != prevSub {
		s.st.View = session.ViewConcept
		return s, tea.Batch(changed, func() tea.Msg { return router.PopScreenMsg{} })
	}
	return s, changed
}

func (s *QuestionsScreen) View(width, height int) string {
	if s.st.Finished {
		return s.finishedView(width, height)
	}

	q := s.st.CurrentQuestion()
	sub := s.st.CurrentSubtopic()
	if q == nil || sub == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No active question."))
	}

	var sections []string

	total := s.st.Plan.TotalQuestions()
	num := s.st.Plan.QuestionNumber(s.st.Cursor.Subtopic, s.st.Cursor.Question)
	bar := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", num, total),
		float64(num-1)/float64(total), false, min(width-8, 60))
	sections = append(sections, bar.View())

	if s.st.Cursor.Slot > 0 {
		sections = append(sections, theme.Warning.Render(
			fmt.Sprintf("Try %d of %d", s.st.Cursor.Slot+1, q.TotalSlots())))
	}

	stem := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(min(width-8, 88)).
		Render(q.StemFor(s.st.Cursor.Slot))
	sections = append(sections, stem)

	sections = append(sections, s.choices.View())

	switch {
	case s.st.RetryPending:
		sections = append(sections, theme.Warning.Render(
			fmt.Sprintf("Not quite — next try in %ds. Press R to retry now.", s.countdownLeft)))
	case s.st.Mode == session.ModeExplaining:
		if s.st.LastCorrect {
			sections = append(sections, theme.Correct.Render("Correct!"))
		} else {
			sections = append(sections, theme.Incorrect.Render("Out of tries — review the answer above."))
		}
		if q.Explanation != "" {
			sections = append(sections, lipgloss.NewStyle().
				Foreground(theme.Text).
				Width(min(width-8, 88)).
				Render(q.Explanation))
		}
		sections = append(sections, theme.Hint.Render("Press Enter to continue"))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *QuestionsScreen) finishedView(width, height int) string {
	correct := 0
	for _, a := range s.st.Attempts {
		if a.Correct {
			correct++
		}
	}

	content := strings.Join([]string{
		theme.Title.Render("Lesson complete!"),
		theme.Body.Render(fmt.Sprintf("%s — %d correct out of %d attempts",
			s.st.TopicName, correct, len(s.st.Attempts))),
		theme.Hint.Render("Press Enter to finish"),
	}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
