// Package topics is the lesson library browser: supertopic groups first,
// then the topics under the chosen group. Picking a topic asks the
// controller to start a session.
package topics

import (
	"context"
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

type level int

const (
	levelSupertopics level = iota
	levelTopics
)

type supertopicsLoadedMsg struct {
	groups []string
	err    error
}

type topicsLoadedMsg struct {
	topics []backend.Topic
	err    error
}

// TopicsScreen browses the lesson library.
type TopicsScreen struct {
	client backend.Client

	level      level
	groups     []string
	topics     []backend.Topic
	selected   int
	supertopic string
	errMsg     string
	loading    bool
}

var _ screen.Screen = (*TopicsScreen)(nil)
var _ screen.KeyHintProvider = (*TopicsScreen)(nil)

// New creates the topic browser.
func New(client backend.Client) *TopicsScreen {
	return &TopicsScreen{client: client, loading: true}
}

func (t *TopicsScreen) Init() tea.Cmd {
	return t.loadSupertopics()
}

func (t *TopicsScreen) Title() string {
	if t.level == levelTopics {
		return t.supertopic
	}
	return "Topics"
}

func (t *TopicsScreen) ID() session.View {
	return session.ViewTopics
}

func (t *TopicsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if t.level == levelTopics {
		hints = append(hints, layout.KeyHint{Key: "←", Description: "Groups"})
	}
	hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	return hints
}

func (t *TopicsScreen) loadSupertopics() tea.Cmd {
	return func() tea.Msg {
		groups, err := t.client.Supertopics(context.Background())
		return supertopicsLoadedMsg{groups: groups, err: err}
	}
}

func (t *TopicsScreen) loadTopics(supertopic string) tea.Cmd {
	return func() tea.Msg {
		list, err := t.client.Topics(context.Background(), supertopic)
		return topicsLoadedMsg{topics: list, err: err}
	}
}

func (t *TopicsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case supertopicsLoadedMsg:
		t.loading = false
		if msg.err != nil {
			t.errMsg = fmt.Sprintf("load topic groups: %v", msg.err)
			return t, nil
		}
		t.groups = msg.groups
		return t, nil

	case topicsLoadedMsg:
		t.loading = false
		if msg.err != nil {
			t.errMsg = fmt.Sprintf("load topics: %v", msg.err)
			return t, nil
		}
		t.topics = msg.topics
		return t, nil

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	return t, nil
}

func (t *TopicsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if t.selected > 0 {
			t.selected--
		}
	case "down", "j":
		if t.selected < t.listLen()-1 {
			t.selected++
		}
	case "left", "backspace":
		if t.level == levelTopics {
			t.level = levelSupertopics
			t.topics = nil
			t.selected = 0
		}
	case "enter":
		return t.choose()
	}
	return t, nil
}

func (t *TopicsScreen) listLen() int {
	if t.level == levelTopics {
		return len(t.topics)
	}
	return len(t.groups)
}

func (t *TopicsScreen) choose() (screen.Screen, tea.Cmd) {
	if t.level == levelSupertopics {
		if t.selected >= len(t.groups) {
			return t, nil
		}
		t.supertopic = t.groups[t.selected]
		t.level = levelTopics
		t.selected = 0
		t.loading = true
		return t, t.loadTopics(t.supertopic)
	}

	if t.selected >= len(t.topics) {
		return t, nil
	}
	topic := t.topics[t.selected]
	return t, func() tea.Msg {
		return session.StartRequestMsg{TopicID: topic.ID, TopicName: topic.Name}
	}
}

func (t *TopicsScreen) View(width, height int) string {
	if t.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(t.errMsg))
	}
	if t.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	var heading string
	var lines []string
	if t.level == levelSupertopics {
		heading = "Choose a topic group"
		for i, g := range t.groups {
			label := g
			if label == "" {
				label = "(ungrouped)"
			}
			lines = append(lines, t.row(label, i))
		}
	} else {
		heading = "Choose a lesson"
		for i, tp := range t.topics {
			lines = append(lines, t.row(tp.Name, i))
		}
	}

	if len(lines) == 0 {
		lines = append(lines, theme.Hint.Render("  Nothing here yet. Import a lesson plan first."))
	}

	content := theme.Title.Render(heading) + "\n\n" + strings.Join(lines, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (t *TopicsScreen) row(label string, i int) string {
	if i == t.selected {
		return theme.Selected.Render("  ▸ " + label)
	}
	return theme.Unselected.Render("    " + label)
}
