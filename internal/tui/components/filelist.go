package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/icar17/teachload/internal/tui"
)

// FileItem is one selectable entry of a FileList.
type FileItem struct {
	Label       string
	Description string
	Path        string
}

// FileList is a multi-select list. Items keep their display order in the
// result regardless of the order they were toggled in.
type FileList struct {
	title     string
	items     []FileItem
	checked   []bool
	cursor    int
	height    int
	offset    int
	showHelp  bool
	keyMap    tui.KeyMap
	submitted bool
	cancelled bool
}

// NewFileList creates a list with nothing checked.
func NewFileList(title string, items []FileItem) FileList {
	return FileList{
		title:    title,
		items:    items,
		checked:  make([]bool, len(items)),
		height:   15,
		showHelp: true,
		keyMap:   tui.DefaultKeyMap(),
	}
}

// WithHeight sets how many items are visible at once.
func (l FileList) WithHeight(height int) FileList {
	if height > 0 {
		l.height = height
	}
	return l
}

// WithShowHelp enables or disables the help text.
func (l FileList) WithShowHelp(show bool) FileList {
	l.showHelp = show
	return l
}

// Init implements tea.Model.
func (l FileList) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (l FileList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, l.keyMap.Up):
			if l.cursor > 0 {
				l.cursor--
			}
		case key.Matches(msg, l.keyMap.Down):
			if l.cursor < len(l.items)-1 {
				l.cursor++
			}
		case key.Matches(msg, l.keyMap.Toggle):
			if len(l.items) > 0 {
				l.checked[l.cursor] = !l.checked[l.cursor]
			}
		case key.Matches(msg, l.keyMap.All):
			l.toggleAll()
		case key.Matches(msg, l.keyMap.Select):
			l.submitted = true
			return l, tea.Quit
		case key.Matches(msg, l.keyMap.Quit):
			l.cancelled = true
			return l, tea.Quit
		}
	case tea.WindowSizeMsg:
		// title, blank line, help
		if h := msg.Height - 5; h > 0 {
			l.height = h
		}
	}
	l.scroll()
	return l, nil
}

// toggleAll checks everything unless everything is already checked.
func (l *FileList) toggleAll() {
	all := true
	for _, c := range l.checked {
		if !c {
			all = false
			break
		}
	}
	for i := range l.checked {
		l.checked[i] = !all
	}
}

func (l *FileList) scroll() {
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+l.height {
		l.offset = l.cursor - l.height + 1
	}
}

// View implements tea.Model.
func (l FileList) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render(l.title))
	b.WriteString("\n")

	if len(l.items) == 0 {
		b.WriteString(tui.SubtitleStyle.Render("  (no files)"))
		b.WriteString("\n")
	}

	end := min(l.offset+l.height, len(l.items))
	for i := l.offset; i < end; i++ {
		item := l.items[i]

		cursor := "  "
		style := tui.UnselectedStyle
		if i == l.cursor {
			cursor = tui.SymbolCursor + " "
			style = tui.SelectedStyle
		}

		symbol := tui.SymbolUnselected
		if l.checked[i] {
			symbol = tui.CheckedStyle.Render(tui.SymbolSelected)
		}

		b.WriteString(cursor)
		b.WriteString(symbol + " " + style.Render(item.Label))
		if item.Description != "" {
			b.WriteString("  " + tui.DescriptionStyle.Render(item.Description))
		}
		b.WriteString("\n")
	}

	if len(l.items) > l.height {
		b.WriteString(tui.DescriptionStyle.Render(fmt.Sprintf("  %d-%d of %d", l.offset+1, end, len(l.items))))
		b.WriteString("\n")
	}

	if l.showHelp {
		b.WriteString(tui.HelpStyle.Render(fmt.Sprintf("%d selected • %s", l.CheckedCount(), l.keyMap.HelpText())))
	}

	return b.String()
}

// Selected returns the checked paths in display order, or nil if the user
// cancelled.
func (l FileList) Selected() []string {
	if l.cancelled {
		return nil
	}
	var out []string
	for i, item := range l.items {
		if l.checked[i] {
			out = append(out, item.Path)
		}
	}
	return out
}

// CheckedCount returns how many items are checked.
func (l FileList) CheckedCount() int {
	n := 0
	for _, c := range l.checked {
		if c {
			n++
		}
	}
	return n
}

// Cancelled returns true if the user cancelled the selection.
func (l FileList) Cancelled() bool {
	return l.cancelled
}

// Submitted returns true if the user confirmed the selection.
func (l FileList) Submitted() bool {
	return l.submitted
}
