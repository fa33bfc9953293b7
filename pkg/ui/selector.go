package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// choiceItem is one region or cuisine identifier in a selector.
type choiceItem string

func (c choiceItem) FilterValue() string { return string(c) }

// choiceDelegate renders one identifier per line and marks the committed
// selection.
type choiceDelegate struct {
	theme    Theme
	selected func() string
}

func (d choiceDelegate) Height() int                             { return 1 }
func (d choiceDelegate) Spacing() int                            { return 0 }
func (d choiceDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d choiceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	c, ok := item.(choiceItem)
	if !ok {
		return
	}
	marker := "  "
	if d.selected != nil && d.selected() == string(c) {
		marker = "● "
	}
	line := truncate(marker+string(c), max(m.Width(), 4))
	if index == m.Index() {
		line = d.theme.Selected.Render(padRight(line, m.Width()))
	}
	fmt.Fprint(w, line)
}

func newSelector(t Theme, title string, selected func() string) list.Model {
	l := list.New(nil, choiceDelegate{theme: t, selected: selected}, SelectorWidth, 10)
	l.Title = title
	l.Styles.Title = t.PanelTitle
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func choiceItems(ids []string) []list.Item {
	items := make([]list.Item, len(ids))
	for i, id := range ids {
		items[i] = choiceItem(id)
	}
	return items
}

// selectedChoice returns the identifier under the cursor.
func selectedChoice(l list.Model) (string, bool) {
	c, ok := l.SelectedItem().(choiceItem)
	return string(c), ok
}

// moveTo puts the cursor on id, if present.
func moveTo(l *list.Model, id string) {
	for i, it := range l.Items() {
		if c, ok := it.(choiceItem); ok && string(c) == id {
			l.Select(i)
			return
		}
	}
}
