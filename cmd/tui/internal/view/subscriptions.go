package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/subslayer/subslayer/internal/money"
	"github.com/subslayer/subslayer/internal/subscription"
)

type subsState int

const (
	subsStateBrowse subsState = iota
	subsStateAdd
)

type SubscriptionsModel struct {
	CommonModel
	svc    *subscription.Service
	userID string

	state subsState
	table table.Model
	subs  []*subscription.Subscription
	form  *huh.Form

	statusFilterIdx int

	filter  subscription.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formName     string
	formCost     string
	formCurrency string
	formCycle    subscription.BillingCycle
	formNext     string
	formCategory string
}

func NewSubscriptionsModel(svc *subscription.Service, userID string) SubscriptionsModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Cost", Width: 12},
		{Title: "Cycle", Width: 8},
		{Title: "Next Billing", Width: 12},
		{Title: "Category", Width: 16},
		{Title: "Status", Width: 10},
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

	return SubscriptionsModel{
		svc:    svc,
		userID: userID,
		table:  t,
		filter: subscription.ListFilter{},
	}
}

func (m SubscriptionsModel) Title() string { return "Subscriptions" }
func (m SubscriptionsModel) ShortHelp() string {
	if m.state == subsStateAdd {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | a: add | t: toggle | x: delete | s: status filter | r: refresh"
}

func (m SubscriptionsModel) Init() tea.Cmd {
	return m.loadSubsCmd()
}

func (m SubscriptionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSubsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.subs = msg.subs
		m.refreshTable()
		return m, nil

	case subsMutateMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}
		m.state = subsStateBrowse
		m.form = nil
		m.table.Focus()
		return m, m.loadSubsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case subsStateBrowse:
		return m.updateBrowse(msg)
	case subsStateAdd:
		return m.updateAdd(msg)
	}

	return m, nil
}

func (m SubscriptionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadSubsCmd()
		case "a":
			return m.enterAddMode()
		case "t":
			return m, m.toggleCmd()
		case "x":
			return m, m.deleteCmd()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()
			return m, m.loadSubsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SubscriptionsModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formName = ""
	m.formCost = ""
	m.formCurrency = "USD"
	m.formCycle = subscription.CycleMonthly
	m.formNext = FormatDate(time.Now().AddDate(0, 1, 0))
	m.formCategory = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("cost").
				Title("Cost").
				Placeholder("15.99").
				Value(&m.formCost).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(s)
					if err != nil {
						return fmt.Errorf("not a number")
					}
					if d.IsNegative() {
						return fmt.Errorf("cost cannot be negative")
					}
					return nil
				}),

			huh.NewInput().
				Key("currency").
				Title("Currency").
				Value(&m.formCurrency).
				Validate(func(s string) error {
					if !money.ValidCode(strings.ToUpper(s)) {
						return fmt.Errorf("unknown currency code")
					}
					return nil
				}),

			huh.NewSelect[subscription.BillingCycle]().
				Key("cycle").
				Title("Billing cycle").
				Options(
					huh.NewOption("Monthly", subscription.CycleMonthly),
					huh.NewOption("Annual", subscription.CycleAnnual),
				).
				Value(&m.formCycle),

			huh.NewInput().
				Key("next_billing").
				Title("Next billing (YYYY-MM-DD)").
				Value(&m.formNext).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.formCategory),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = subsStateAdd
	m.table.Blur()
	return m, m.form.Init()
}

func (m SubscriptionsModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = subsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd()
}

func (m SubscriptionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading subscriptions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Active", "Paused", "Cancelled"}

	header := fmt.Sprintf("Filter: [s] Status: %s", activeStyle(statusLabels[m.statusFilterIdx]))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == subsStateAdd && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Add Subscription\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *SubscriptionsModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(subscription.StatusActive)
	case 2:
		m.filter.Status = new(subscription.StatusPaused)
	case 3:
		m.filter.Status = new(subscription.StatusCancelled)
	default:
		m.filter.Status = nil
	}
}

func (m *SubscriptionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.subs))
	for _, sub := range m.subs {
		rows = append(rows, table.Row{
			sub.Name,
			money.Format(sub.Currency, sub.Cost),
			string(sub.Cycle),
			FormatDate(sub.NextBilling),
			sub.DisplayCategory(),
			string(sub.Status),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadSubsMsg struct {
	subs []*subscription.Subscription
	err  error
}

func (m SubscriptionsModel) loadSubsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		subs, err := m.svc.List(ctx, m.userID, m.filter)
		return loadSubsMsg{subs: subs, err: err}
	}
}

type subsMutateMsg struct {
	status string
	err    error
}

func (m SubscriptionsModel) createCmd() tea.Cmd {
	params := subscription.CreateParams{
		Name:     strings.TrimSpace(m.formName),
		Currency: strings.ToUpper(m.formCurrency),
		Cycle:    m.formCycle,
		Category: strings.TrimSpace(m.formCategory),
	}
	params.Cost, _ = decimal.NewFromString(m.formCost)
	params.NextBilling, _ = time.Parse("2006-01-02", m.formNext)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.Create(ctx, m.userID, params); err != nil {
			return subsMutateMsg{err: err}
		}

		return subsMutateMsg{status: "Added " + params.Name}
	}
}

func (m SubscriptionsModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.subs) {
		return nil
	}

	sub := m.subs[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		toggled, err := m.svc.ToggleStatus(ctx, m.userID, sub.ID)
		if err != nil {
			return subsMutateMsg{err: err}
		}

		return subsMutateMsg{status: fmt.Sprintf("%s is now %s", toggled.Name, toggled.Status)}
	}
}

func (m SubscriptionsModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.subs) {
		return nil
	}

	sub := m.subs[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, m.userID, sub.ID); err != nil {
			return subsMutateMsg{err: err}
		}

		return subsMutateMsg{status: "Deleted " + sub.Name}
	}
}
