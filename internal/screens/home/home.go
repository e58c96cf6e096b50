// Package home is the landing screen: entry into topic browsing and the
// dashboard, plus the teardown notice after an idle timeout.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/router"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/screens/dashboard"
	"github.com/adwate/lessonloop/internal/screens/topics"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/components"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

// HomeScreen is the main landing screen.
type HomeScreen struct {
	menu      components.Menu
	learner   string
	notice    string
	resumable int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. notice is shown once, e.g. after an idle
// teardown; resumable is the count of unfinished sessions the learner has.
func New(client backend.Client, learner, learnerName, notice string, resumable int) *HomeScreen {
	items := []components.MenuItem{
		{Label: "BROWSE TOPICS", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: topics.New(client)}
			}
		}},
		{Label: "DASHBOARD", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: dashboard.New(client, learner)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return func() tea.Msg { return session.QuitRequestMsg{} }
		}},
	}

	return &HomeScreen{
		menu:      components.NewMenu(items),
		learner:   learnerName,
		notice:    notice,
		resumable: resumable,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) ID() session.View {
	return session.ViewHome
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	greeting := "Welcome back"
	if h.learner != "" {
		greeting = fmt.Sprintf("Welcome back, %s", h.learner)
	}
	sections = append(sections, theme.Title.Render(greeting))

	if h.notice != "" {
		sections = append(sections, theme.Warning.Render(h.notice))
	}

	if h.resumable > 0 {
		plural := ""
		if h.resumable > 1 {
			plural = "s"
		}
		sections = append(sections, theme.Hint.Render(
			fmt.Sprintf("%d unfinished lesson%s waiting", h.resumable, plural)))
	}

	sections = append(sections, "", h.menu.View())

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
