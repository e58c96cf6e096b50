package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/adwate/lessonloop/internal/ui/theme"
)

// MenuItem is one entry in a vertical menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu with wrap-around cursor movement and number-key
// shortcuts.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu positioned on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	if len(items) > 0 && items[0].Disabled {
		m.Selected = m.next(0, 1)
	}
	return m
}

// next returns the index of the nearest enabled item from start in the
// given direction, wrapping around. Returns start when everything else is
// disabled.
func (m Menu) next(start, dir int) int {
	n := len(m.Items)
	for step := 1; step < n; step++ {
		i := ((start+dir*step)%n + n) % n
		if !m.Items[i].Disabled {
			return i
		}
	}
	return start
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		m.Selected = m.next(m.Selected, -1)
	case "down", "j":
		m.Selected = m.next(m.Selected, 1)
	case "enter":
		return m, m.activate(m.Selected)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0]-'0') - 1
		if i < len(m.Items) && !m.Items[i].Disabled {
			m.Selected = i
			return m, m.activate(i)
		}
	}

	return m, nil
}

func (m Menu) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	item := m.Items[i]
	if item.Action == nil || item.Disabled {
		return nil
	}
	return item.Action()
}

// View renders the menu.
func (m Menu) View() string {
	var s string
	for i, item := range m.Items {
		line := fmt.Sprintf("%d  %s", i+1, item.Label)
		switch {
		case item.Disabled:
			s += theme.Hint.Render("    "+line) + "\n"
		case i == m.Selected:
			s += theme.Selected.Render("  ▸ "+line) + "\n"
		default:
			s += theme.Unselected.Render("    "+line) + "\n"
		}
	}
	return s
}
