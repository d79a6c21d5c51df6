package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"katgen/internal/core/domain"
	"katgen/internal/core/services"
	"katgen/pkg/ui"
)

// sortCycle is the order the "s" key steps through. The leading blank
// entry means "keep the order from the command line / config".
var sortCycle = []string{"", services.SortByScale, services.SortByName, services.SortByCompany}

// runSelectTUI opens the interactive record picker. It returns the
// records with their toggled inclusion state, the sort chosen inside
// the picker ("" when untouched), and ok=false on abort.
func runSelectTUI(records []domain.Record, initialGroup string) ([]domain.Record, string, bool, error) {
	if len(records) == 0 {
		return nil, "", false, fmt.Errorf("no records to select from")
	}

	model := initialSelectModel(records, initialGroup)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return nil, "", false, err
	}

	m, ok := final.(selectModel)
	if !ok {
		return nil, "", false, fmt.Errorf("unexpected selection state")
	}
	return m.records, sortCycle[m.sortIdx], m.confirmed, nil
}

type selectModel struct {
	table     table.Model
	records   []domain.Record
	view      []int // record indices behind the visible rows
	groups    []string
	groupIdx  int // 0 = all groups
	sortIdx   int // index into sortCycle
	confirmed bool
}

func initialSelectModel(records []domain.Record, initialGroup string) selectModel {
	m := selectModel{records: records}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Group == "" {
			continue
		}
		if _, ok := seen[rec.Group]; ok {
			continue
		}
		seen[rec.Group] = struct{}{}
		m.groups = append(m.groups, rec.Group)
	}
	for i, g := range m.groups {
		if g == initialGroup {
			m.groupIdx = i + 1
		}
	}

	columns := []table.Column{
		{Title: " ", Width: 3},
		{Title: "Nazwisko", Width: 18},
		{Title: "Imię", Width: 14},
		{Title: "Firma", Width: 22},
		{Title: "Grupa", Width: 8},
		{Title: "Skala", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	m.table = t
	m.rebuildRows()
	return m
}

// currentGroup returns the active group filter, "" meaning all.
func (m *selectModel) currentGroup() string {
	if m.groupIdx == 0 {
		return ""
	}
	return m.groups[m.groupIdx-1]
}

func (m *selectModel) rebuildRows() {
	group := m.currentGroup()
	m.view = m.view[:0]

	order := make([]int, 0, len(m.records))
	for i := range m.records {
		order = append(order, i)
	}
	if sortOrder := sortCycle[m.sortIdx]; sortOrder != "" {
		less := services.RecordLess(sortOrder)
		sort.SliceStable(order, func(a, b int) bool {
			return less(&m.records[order[a]], &m.records[order[b]])
		})
	}

	var rows []table.Row
	for _, i := range order {
		rec := &m.records[i]
		if group != "" && rec.Group != group {
			continue
		}
		marker := " "
		if rec.Included {
			marker = "✓"
		}
		rows = append(rows, table.Row{
			marker,
			rec.LastName,
			rec.FirstName,
			rec.Company,
			rec.Group,
			scaleLabel(rec),
		})
		m.view = append(m.view, i)
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// setVisibleIncluded flips inclusion for every visible record.
func (m *selectModel) setVisibleIncluded(included bool) {
	for _, idx := range m.view {
		m.records[idx].Included = included
	}
	m.rebuildRows()
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.confirmed = false
			return m, tea.Quit

		case "enter":
			m.confirmed = true
			return m, tea.Quit

		case " ", "x":
			cursor := m.table.Cursor()
			if cursor < len(m.view) {
				idx := m.view[cursor]
				m.records[idx].Included = !m.records[idx].Included
				m.rebuildRows()
				m.table.SetCursor(cursor)
			}

		case "a":
			m.setVisibleIncluded(true)

		case "n":
			m.setVisibleIncluded(false)

		case "g":
			m.groupIdx = (m.groupIdx + 1) % (len(m.groups) + 1)
			m.rebuildRows()

		case "s":
			m.sortIdx = (m.sortIdx + 1) % len(sortCycle)
			m.rebuildRows()
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	included := 0
	for _, rec := range m.records {
		if rec.Included {
			included++
		}
	}

	group := m.currentGroup()
	if group == "" {
		group = "wszystkie"
	}
	sortName := sortCycle[m.sortIdx]
	if sortName == "" {
		sortName = "domyślne"
	}

	return "\n" +
		ui.StyleTitle.Render(" Wybór członków ") + "\n\n" +
		m.table.View() + "\n\n" +
		ui.FormatInfo(fmt.Sprintf("Zaznaczono %d z %d | grupa: %s | sortowanie: %s", included, len(m.records), group, sortName)) + "\n" +
		ui.FormatMuted(" [Space] Toggle  [a] All  [n] None  [g] Group  [s] Sort  [Enter] Generate  [q] Cancel") + "\n"
}
