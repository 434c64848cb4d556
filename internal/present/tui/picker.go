// Package tui provides the interactive page picker behind `--output tui`.
package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/blockmark/pkg/api"
)

// Action is what to do with the picked page.
type Action int

const (
	ActionNone Action = iota
	ActionShow
	ActionRender
)

// Selection is the outcome of a picker session. Action is ActionNone when
// the user quit without choosing.
type Selection struct {
	Page   api.PageInfo
	Action Action
}

// PickPage opens an interactive table of pages and returns the page the
// user chose.
func PickPage(ctx context.Context, in io.Reader, out io.Writer, title string, pages []api.PageInfo, headers bool) (Selection, error) {
	p := tea.NewProgram(newModel(title, pages, headers),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return Selection{}, err
	}
	if fm, ok := final.(model); ok {
		return fm.selection(), nil
	}
	return Selection{}, nil
}

var titleStyle = lipgloss.NewStyle().Bold(true)

type model struct {
	table   table.Model
	title   string
	all     []api.PageInfo
	visible []api.PageInfo
	headers bool

	filtering bool
	filter    string

	chosen int
	action Action
	width  int
	height int
}

func newModel(title string, pages []api.PageInfo, headers bool) model {
	m := model{title: title, all: pages, visible: pages, headers: headers, chosen: -1}
	m.table = table.New(
		table.WithColumns(m.columnsFor(40, 36)),
		table.WithFocused(true),
		table.WithHeight(min(20, max(3, len(pages)+1))),
	)
	m.updateRows()
	m.applyStyles()
	return m
}

func (m *model) updateRows() {
	rows := make([]table.Row, 0, len(m.visible))
	for _, p := range m.visible {
		root := ""
		if p.Root {
			root = "yes"
		}
		rows = append(rows, table.Row{p.Title, p.ID, strconv.Itoa(p.Children), root})
	}
	m.table.SetRows(rows)
}

// applyFilter narrows the rows to pages whose titles fuzzily match the
// filter, best match first.
func (m *model) applyFilter() {
	if m.filter == "" {
		m.visible = m.all
	} else {
		titles := make([]string, len(m.all))
		for i, p := range m.all {
			titles[i] = p.Title
		}
		matches := fuzzy.Find(m.filter, titles)
		m.visible = make([]api.PageInfo, 0, len(matches))
		for _, match := range matches {
			m.visible = append(m.visible, m.all[match.Index])
		}
	}
	m.updateRows()
	m.table.SetCursor(0)
}

func (m model) selection() Selection {
	if m.action == ActionNone || m.chosen < 0 || m.chosen >= len(m.visible) {
		return Selection{}
	}
	return Selection{Page: m.visible[m.chosen], Action: m.action}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applyLayout()
		return m, nil
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.choose(ActionShow)
		case "r":
			return m.choose(ActionRender)
		case "/":
			m.filtering = true
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) choose(a Action) (tea.Model, tea.Cmd) {
	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.visible) {
		m.chosen = idx
		m.action = a
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) model {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
		return m
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyBackspace:
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	default:
		return m
	}
	m.applyFilter()
	return m
}

func (m model) renderFooter() string {
	left := "↑/↓ navigate • enter=show • r=render • /=filter • q=quit"
	right := fmt.Sprintf("%d/%d pages ", len(m.visible), len(m.all))
	if m.filtering || m.filter != "" {
		right = "filter: " + m.filter + " • " + right
	}
	space := max(1, m.table.Width()-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", space) + right
}

func (m model) View() string {
	head := titleStyle.Render(m.title) + "\n"
	if len(m.visible) == 0 {
		return head + "(no pages)\n" + m.renderFooter() + "\n"
	}
	return head + m.table.View() + "\n" + m.renderFooter() + "\n"
}

func (m *model) applyLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.table.SetHeight(max(3, m.height-2))
	m.table.SetWidth(m.width)
	avail := m.width - 4
	if avail < 40 {
		return
	}
	const childrenW, rootW = 8, 4
	idW := 36
	if avail < idW+40 {
		idW = 12
	}
	titleW := max(8, avail-idW-childrenW-rootW)
	m.table.SetColumns(m.columnsFor(titleW, idW))
}

func (m *model) applyStyles() {
	s := table.DefaultStyles()
	if m.headers {
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
	} else {
		s.Header = s.Header.
			BorderBottom(false).
			Bold(false)
	}
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	m.table.SetStyles(s)
}

// columnsFor returns the table columns, titled only when headers are on.
func (m *model) columnsFor(titleW, idW int) []table.Column {
	cols := []table.Column{
		{Title: "Title", Width: titleW},
		{Title: "ID", Width: idW},
		{Title: "Children", Width: 8},
		{Title: "Root", Width: 4},
	}
	if !m.headers {
		for i := range cols {
			cols[i].Title = ""
		}
	}
	return cols
}
