// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package picker is a small terminal checklist used to choose which modules
// to restore.
package picker

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the user quits without confirming.
var ErrAborted = errors.New("selection aborted")

// Item is one row of the checklist.
type Item struct {
	Name     string
	Title    string
	Detail   string
	Selected bool
	// Disabled rows are shown but cannot be selected, such as modules
	// without a backup.
	Disabled bool
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	All     key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
	All:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all/none")),
	Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "restore")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f6be00"))
	detailStyle   = lipgloss.NewStyle().Faint(true)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

type model struct {
	title     string
	items     []Item
	cursor    int
	confirmed bool
}

func newModel(title string, items []Item) model {
	m := model{title: title, items: items}
	for m.cursor < len(items)-1 && items[m.cursor].Disabled {
		m.cursor++
	}
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, keys.Quit):
		m.confirmed = false
		return m, tea.Quit
	case key.Matches(k, keys.Up):
		m.cursor = m.step(-1)
	case key.Matches(k, keys.Down):
		m.cursor = m.step(1)
	case key.Matches(k, keys.Toggle):
		if len(m.items) > 0 && !m.items[m.cursor].Disabled {
			m.items[m.cursor].Selected = !m.items[m.cursor].Selected
		}
	case key.Matches(k, keys.All):
		all := !m.allSelected()
		for i := range m.items {
			if !m.items[i].Disabled {
				m.items[i].Selected = all
			}
		}
	case key.Matches(k, keys.Confirm):
		if len(m.selected()) > 0 {
			m.confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// step moves the cursor by dir, skipping disabled rows.
func (m model) step(dir int) int {
	for i := m.cursor + dir; i >= 0 && i < len(m.items); i += dir {
		if !m.items[i].Disabled {
			return i
		}
	}
	return m.cursor
}

func (m model) allSelected() bool {
	for _, it := range m.items {
		if !it.Disabled && !it.Selected {
			return false
		}
	}
	return true
}

func (m model) selected() []string {
	var names []string
	for _, it := range m.items {
		if it.Selected && !it.Disabled {
			names = append(names, it.Name)
		}
	}
	return names
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	for i, it := range m.items {
		cursor := " "
		if i == m.cursor {
			cursor = cursorStyle.Render(">")
		}
		mark := " "
		if it.Selected {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %-14s %s", mark, it.Name, it.Title)
		if it.Disabled {
			line = disabledStyle.Render(line)
		}
		if it.Detail != "" {
			line += " " + detailStyle.Render(it.Detail)
		}
		fmt.Fprintf(&b, "%s %s\n", cursor, line)
	}

	help := []string{}
	for _, kb := range []key.Binding{keys.Toggle, keys.All, keys.Confirm, keys.Quit} {
		h := kb.Help()
		help = append(help, h.Key+": "+h.Desc)
	}
	b.WriteString("\n" + detailStyle.Render(strings.Join(help, "  ")) + "\n")
	return b.String()
}

// Pick shows items as a checklist and returns the names the user confirmed.
func Pick(title string, items []Item, opts ...tea.ProgramOption) ([]string, error) {
	final, err := tea.NewProgram(newModel(title, items), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("failed to run picker: %w", err)
	}
	m := final.(model)
	if !m.confirmed {
		return nil, ErrAborted
	}
	return m.selected(), nil
}

// Interactive reports whether stdin and stdout are both terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
