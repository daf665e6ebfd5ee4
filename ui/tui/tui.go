// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides an interactive inspector for the type conversion
// graph: a navigable list of host types on the left and the outgoing
// conversion edges of the selected type on the right.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bridgen/bridgen/internal/typemap"
	"github.com/bridgen/bridgen/util/slicest"
)

// Run opens the graph inspector over the given typemap and blocks until
// the user quits.
func Run(tm *typemap.TypeMap) error {
	_, err := tea.NewProgram(
		newModel(tm),
		tea.WithAltScreen(),
	).Run()
	return err
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Filter, k.Quit}}
}

var defaultKeys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).PaddingLeft(1)
)

type model struct {
	tm        *typemap.TypeMap
	types     []*typemap.HostType // sorted by name
	visible   []*typemap.HostType // after filtering
	cursor    int
	filter    textinput.Model
	filtering bool
	vp        viewport.Model
	keys      keyMap
	help      help.Model
	width     int
	height    int
}

func newModel(tm *typemap.TypeMap) model {
	types := tm.HostTypes()
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })

	ti := textinput.New()
	ti.Placeholder = "type name"
	ti.Prompt = "/"

	m := model{
		tm:      tm,
		types:   types,
		visible: types,
		filter:  ti,
		vp:      viewport.New(40, 10),
		keys:    defaultKeys,
		help:    help.New(),
	}
	m.refreshDetail()
	return m
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter()
				return m, cmd
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refreshDetail()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
				m.refreshDetail()
			}
		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			m.filter.Focus()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := msg.Height - 4
		if bodyHeight < 3 {
			bodyHeight = 3
		}
		m.vp.Height = bodyHeight
		rightWidth := msg.Width - m.listWidth() - 2
		if rightWidth < 20 {
			rightWidth = 20
		}
		m.vp.Width = rightWidth
	}
	return m, nil
}

func (m *model) listWidth() int {
	if m.width > 0 && m.width < 80 {
		return m.width / 3
	}
	return 32
}

func (m *model) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	if q == "" {
		m.visible = m.types
	} else {
		m.visible = slicest.Filter(m.types, func(t *typemap.HostType) bool {
			return strings.Contains(strings.ToLower(t.Name), q)
		})
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
	m.refreshDetail()
}

// refreshDetail renders the outgoing edges of the selected type into the
// right-hand viewport.
func (m *model) refreshDetail() {
	if len(m.visible) == 0 {
		m.vp.SetContent(dimStyle.Render("no matching types"))
		return
	}
	sel := m.visible[m.cursor]

	var b strings.Builder
	b.WriteString(titleStyle.Render(sel.Name) + "\n")
	if foreign, ok := m.tm.CachedHostToForeign()[sel.Name]; ok {
		b.WriteString(dimStyle.Render("foreign: "+foreign) + "\n")
	}
	if class := m.tm.FindClassBySelfType(sel, true); class != nil {
		b.WriteString(dimStyle.Render("class: "+class.Name) + "\n")
	}
	b.WriteString("\n")

	edges := m.tm.OutgoingEdges(sel)
	if len(edges) == 0 {
		b.WriteString(dimStyle.Render("no outgoing conversions"))
	} else {
		b.WriteString(fmt.Sprintf("%d outgoing conversion(s):\n\n", len(edges)))
		for _, e := range edges {
			b.WriteString("  → " + e[0] + "\n")
			for _, line := range strings.Split(strings.TrimRight(e[1], "\n"), "\n") {
				b.WriteString(dimStyle.Render("      "+strings.TrimLeft(line, "\t")) + "\n")
			}
		}
	}
	m.vp.SetContent(b.String())
}

func (m model) View() string {
	header := titleStyle.Render("bridgen — conversion graph") +
		dimStyle.Render(fmt.Sprintf("  %d types, %d edges", m.tm.NodeCount(), m.tm.EdgeCount()))

	// Left column: scrolling window of type names around the cursor.
	listHeight := m.vp.Height
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	var left strings.Builder
	for i := start; i < len(m.visible) && i-start < listHeight; i++ {
		name := m.visible[i].Name
		if w := m.listWidth() - 2; len(name) > w && w > 1 {
			name = name[:w-1] + "…"
		}
		if i == m.cursor {
			left.WriteString(selectedStyle.Render("> "+name) + "\n")
		} else {
			left.WriteString("  " + name + "\n")
		}
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.listWidth()).Render(left.String()),
		paneStyle.Render(m.vp.View()),
	)

	footer := m.help.View(m.keys)
	if m.filtering {
		footer = m.filter.View()
	}

	return header + "\n\n" + body + "\n" + footer
}
