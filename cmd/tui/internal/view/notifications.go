package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subslayer/subslayer/internal/notification"
)

type NotificationsModel struct {
	CommonModel
	svc    *notification.Service
	engine *notification.Engine
	userID string

	table   table.Model
	items   []notification.Item
	loading bool
	err     error
	status  string
}

func NewNotificationsModel(svc *notification.Service, engine *notification.Engine, userID string) NotificationsModel {
	columns := []table.Column{
		{Title: "", Width: 2},
		{Title: "Type", Width: 8},
		{Title: "When", Width: 12},
		{Title: "Message", Width: 60},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return NotificationsModel{
		svc:    svc,
		engine: engine,
		userID: userID,
		table:  t,
	}
}

func (m NotificationsModel) Title() string { return "Notifications" }
func (m NotificationsModel) ShortHelp() string {
	return "Esc: back | enter: mark read | A: mark all read | x: delete | C: clear | s: sweep now"
}

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case notificationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.items = msg.items
		m.status = msg.status
		m.refreshTable()
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "enter":
			return m, m.markReadCmd()
		case "A":
			return m, m.op("all read", func() ([]notification.Item, error) {
				ctx, cancel := DbCtx()
				defer cancel()
				return m.svc.MarkAllRead(ctx, m.userID)
			})
		case "x":
			return m, m.deleteCmd()
		case "C":
			return m, m.op("cleared", func() ([]notification.Item, error) {
				ctx, cancel := DbCtx()
				defer cancel()
				return m.svc.Clear(ctx, m.userID)
			})
		case "s":
			return m, m.sweepCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m NotificationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notifications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + tableView)
	}

	return lipgloss.NewStyle().Padding(1).Render(tableView)
}

func (m *NotificationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))

	for _, it := range m.items {
		marker := "●"
		if it.Read {
			marker = " "
		}

		if it.Urgent && !it.Read {
			marker = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("!")
		}

		rows = append(rows, table.Row{
			marker,
			string(it.Type),
			FormatDate(it.CreatedAt),
			it.Message,
		})
	}

	m.table.SetRows(rows)
}

type notificationsMsg struct {
	items  []notification.Item
	status string
	err    error
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.svc.List(ctx, m.userID)
		return notificationsMsg{items: items, err: err}
	}
}

func (m NotificationsModel) op(status string, run func() ([]notification.Item, error)) tea.Cmd {
	return func() tea.Msg {
		items, err := run()
		return notificationsMsg{items: items, status: status, err: err}
	}
}

func (m NotificationsModel) markReadCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	id := m.items[idx].ID

	return m.op("marked read", func() ([]notification.Item, error) {
		ctx, cancel := DbCtx()
		defer cancel()
		return m.svc.MarkRead(ctx, m.userID, id)
	})
}

func (m NotificationsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	id := m.items[idx].ID

	return m.op("deleted", func() ([]notification.Item, error) {
		ctx, cancel := DbCtx()
		defer cancel()
		return m.svc.Delete(ctx, m.userID, id)
	})
}

func (m NotificationsModel) sweepCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		created, err := m.engine.Sweep(ctx, m.userID, time.Now())
		if err != nil {
			return notificationsMsg{err: err}
		}

		items, err := m.svc.List(ctx, m.userID)
		return notificationsMsg{
			items:  items,
			status: fmt.Sprintf("sweep created %d notification(s)", len(created)),
			err:    err,
		}
	}
}
