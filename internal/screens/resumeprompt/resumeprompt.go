// Package resumeprompt lists the learner's unfinished lessons and forces a
// choice: continue one or terminate it. Shown at startup when a resumable
// session exists, and re-shown whenever the lock blocks navigation.
package resumeprompt

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/layout"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

// ResumeScreen is the unfinished-session prompt.
type ResumeScreen struct {
	sessions []backend.Unfinished
	selected int
}

var _ screen.Screen = (*ResumeScreen)(nil)
var _ screen.KeyHintProvider = (*ResumeScreen)(nil)

// New creates the prompt over a validated unfinished-session list.
func New(sessions []backend.Unfinished) *ResumeScreen {
	return &ResumeScreen{sessions: sessions}
}

func (r *ResumeScreen) Init() tea.Cmd {
	return nil
}

func (r *ResumeScreen) Title() string {
	return "Resume"
}

func (r *ResumeScreen) ID() session.View {
	return session.ViewResume
}

func (r *ResumeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "T", Description: "Terminate"},
	}
}

func (r *ResumeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if r.selected > 0 {
			r.selected--
		}
	case "down", "j":
		if r.selected < len(r.sessions)-1 {
			r.selected++
		}
	case "enter":
		if r.selected < len(r.sessions) {
			topicID := r.sessions[r.selected].TopicID
			return r, func() tea.Msg {
				return session.ResumeRequestMsg{TopicID: topicID}
			}
		}
	case "t", "T":
		if r.selected < len(r.sessions) {
			topicID := r.sessions[r.selected].TopicID
			return r, func() tea.Msg {
				return session.TerminateRequestMsg{TopicID: topicID}
			}
		}
	}

	return r, nil
}

func (r *ResumeScreen) View(width, height int) string {
	var lines []string
	lines = append(lines,
		theme.Title.Render("You have an unfinished lesson"),
		theme.Subtitle.Render("Continue where you left off, or terminate it to start something new."),
		"")

	for i, u := range r.sessions {
		name := u.TopicName
		if name == "" {
			name = u.TopicID
		}
		if i == r.selected {
			lines = append(lines, theme.Selected.Render("  ▸ "+name))
		} else {
			lines = append(lines, theme.Unselected.Render("    "+name))
		}
	}

	if len(r.sessions) == 0 {
		lines = append(lines, theme.Hint.Render("  (nothing to resume)"))
	}

	lines = append(lines, "", theme.Hint.Render(
		fmt.Sprintf("%d unfinished — other screens stay locked until this is settled", len(r.sessions))))

	content := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
