package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adwate/lessonloop/internal/ui/theme"
)

var choiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// ChoiceOption is one selectable answer choice. Index is the choice's
// wire identifier from the plan document, which need not match its
// position in the list.
type ChoiceOption struct {
	Index     int
	Text      string
	Rationale string
}

// ChoiceList is the answer-choice selector. Before reveal it is a plain
// cursor list; after reveal it marks the correct choice, every choice that
// was ever chosen incorrectly, and shows per-choice rationale. Selected is
// a list position; CorrectIndex and WrongSet are keyed by ChoiceOption.Index.
type ChoiceList struct {
	Options  []ChoiceOption
	Selected int
	Disabled bool

	Revealed      bool
	CorrectIndex  int
	WrongSet      map[int]bool
	ShowRationale bool
}

// NewChoiceList creates a selector over the given options.
func NewChoiceList(options []ChoiceOption) ChoiceList {
	return ChoiceList{Options: options}
}

// Update handles keyboard navigation. Selection is frozen while the list
// is disabled or revealed.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, tea.Cmd) {
	if c.Disabled || c.Revealed {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}

	return c, nil
}

// Select moves the cursor to a specific option, for number-key shortcuts.
func (c *ChoiceList) Select(i int) bool {
	if c.Disabled || c.Revealed || i < 0 || i >= len(c.Options) {
		return false
	}
	c.Selected = i
	return true
}

// SelectedIndex returns the wire index of the option under the cursor, or
// -1 for an empty list.
func (c ChoiceList) SelectedIndex() int {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return -1
	}
	return c.Options[c.Selected].Index
}

// View renders the choice list.
func (c ChoiceList) View() string {
	var s string
	for i, opt := range c.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(choiceLabels) {
			label = choiceLabels[i]
		}

		prefix := "  "
		if i == c.Selected && !c.Revealed && !c.Disabled {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt.Text)

		if !c.Revealed {
			if i == c.Selected && !c.Disabled {
				s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
			} else {
				s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
			}
			continue
		}

		switch {
		case opt.Index == c.CorrectIndex:
			s += theme.Correct.Render(line+"  ✓") + "\n"
		case c.WrongSet[opt.Index]:
			s += theme.Incorrect.Render(line+"  ✗") + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		}

		if c.ShowRationale && opt.Rationale != "" && (opt.Index == c.CorrectIndex || c.WrongSet[opt.Index]) {
			s += lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Italic(true).
				Render("        "+opt.Rationale) + "\n"
		}
	}
	return s
}
