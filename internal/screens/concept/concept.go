// Package concept shows the current subtopic's teaching text: either a
// plain concept or a case vignette, with an optional references tab.
package concept

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/router"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/screens/questions"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/layout"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

const (
	tabConcept = iota
	tabReferences
)

// ConceptScreen renders the teaching material before the questions.
type ConceptScreen struct {
	st     *session.State
	client backend.Client
}

var _ screen.Screen = (*ConceptScreen)(nil)
var _ screen.KeyHintProvider = (*ConceptScreen)(nil)

// New creates the concept screen over the live session state.
func New(st *session.State, client backend.Client) *ConceptScreen {
	return &ConceptScreen{st: st, client: client}
}

func (c *ConceptScreen) Init() tea.Cmd {
	c.st.View = session.ViewConcept
	return func() tea.Msg { return session.ChangedMsg{} }
}

func (c *ConceptScreen) Title() string {
	if sub := c.st.CurrentSubtopic(); sub != nil && sub.IsCaseStudy() {
		return "Case"
	}
	return "Concept"
}

func (c *ConceptScreen) ID() session.View {
	return session.ViewConcept
}

func (c *ConceptScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Questions"},
	}
	if sub := c.st.CurrentSubtopic(); sub != nil && len(sub.References) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "References"})
	}
	return hints
}

func (c *ConceptScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "tab":
		sub := c.st.CurrentSubtopic()
		if sub == nil || len(sub.References) == 0 {
			return c, nil
		}
		if c.st.Tab == tabConcept {
			c.st.Tab = tabReferences
		} else {
			c.st.Tab = tabConcept
		}
		return c, func() tea.Msg { return session.ChangedMsg{} }

	case "enter":
		return c, func() tea.Msg {
			return router.PushScreenMsg{Screen: questions.New(c.st, c.client)}
		}
	}

	return c, nil
}

func (c *ConceptScreen) View(width, height int) string {
	sub := c.st.CurrentSubtopic()
	if sub == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No active subtopic."))
	}

	var sections []string
	sections = append(sections, theme.Title.Render(sub.Title))

	if sub.IsCaseStudy() {
		sections = append(sections, theme.Hint.Render("Clinical case — read carefully before answering"))
	}

	if c.st.Tab == tabReferences && len(sub.References) > 0 {
		var refs []string
		refs = append(refs, theme.Subtitle.Render("References"))
		for _, r := range sub.References {
			refs = append(refs, theme.Body.Render("  • "+r))
		}
		sections = append(sections, strings.Join(refs, "\n"))
	} else {
		body := lipgloss.NewStyle().
			Foreground(theme.Text).
			Width(min(width-8, 88)).
			Render(sub.Concept)
		sections = append(sections, body)
	}

	sections = append(sections, theme.Hint.Render(
		fmt.Sprintf("Subtopic %d of %d — press Enter to start the questions",
			c.st.Cursor.Subtopic+1, len(c.st.Plan.Subtopics))))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
