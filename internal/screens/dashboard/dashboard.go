// Package dashboard lists the learner's finished lessons with scores.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/backend"
	"github.com/adwate/lessonloop/internal/screen"
	"github.com/adwate/lessonloop/internal/session"
	"github.com/adwate/lessonloop/internal/ui/theme"
)

type loadedMsg struct {
	rows []backend.SessionSummary
	err  error
}

// DashboardScreen shows finished-session summaries, newest first.
type DashboardScreen struct {
	client  backend.Client
	learner string
	rows    []backend.SessionSummary
	errMsg  string
	loading bool
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates the dashboard screen.
func New(client backend.Client, learner string) *DashboardScreen {
	return &DashboardScreen{client: client, learner: learner, loading: true}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return func() tea.Msg {
		rows, err := d.client.Dashboard(context.Background(), d.learner)
		return loadedMsg{rows: rows, err: err}
	}
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) ID() session.View {
	return session.ViewDashboard
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(loadedMsg); ok {
		d.loading = false
		if m.err != nil {
			d.errMsg = fmt.Sprintf("load dashboard: %v", m.err)
		} else {
			d.rows = m.rows
		}
	}
	return d, nil
}

func (d *DashboardScreen) View(width, height int) string {
	if d.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(d.errMsg))
	}
	if d.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}
	if len(d.rows) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No finished lessons yet."))
	}

	var lines []string
	lines = append(lines, theme.Title.Render("Finished lessons"), "")
	for _, r := range d.rows {
		score := "—"
		if r.Attempts > 0 {
			score = fmt.Sprintf("%d/%d correct", r.Correct, r.Attempts)
		}
		name := r.TopicName
		if name == "" {
			name = r.TopicID
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			theme.Body.Render(name),
			theme.Correct.Render(score),
			theme.Hint.Render(r.FinishedAt)))
	}

	content := strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
