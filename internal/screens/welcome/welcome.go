// Package welcome is the first-run screen: it asks for the learner's name
// before anything else is reachable.
package welcome

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/components"
	"github.com/adwate/lessonloop/internal/ui/layout"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

// DoneMsg carries the entered learner name to the controller.
type DoneMsg struct {
	Name string
}

// WelcomeScreen asks for the learner's name on first run.
type WelcomeScreen struct {
	input components.TextInput
}

var _ screen.Screen = (*WelcomeScreen)(nil)
var _ screen.KeyHintProvider = (*WelcomeScreen)(nil)

// New creates the welcome screen.
func New() *WelcomeScreen {
	return &WelcomeScreen{
		input: components.NewTextInput("Your name...", 40),
	}
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return w.input.Init()
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) ID() session.View {
	return session.ViewHome
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Start"}}
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		name := strings.TrimSpace(w.input.Value())
		if name == "" {
			return w, nil
		}
		return w, func() tea.Msg { return DoneMsg{Name: name} }
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *WelcomeScreen) View(width, height int) string {
	content := strings.Join([]string{
		theme.Title.Render("Welcome to LessonLoop"),
		theme.Subtitle.Render("Adaptive lessons, one question at a time."),
		"",
		theme.Body.Render("What should we call you?"),
		"",
		w.input.View(),
	}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
