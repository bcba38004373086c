package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/subslayer/subslayer/internal/money"
	"github.com/subslayer/subslayer/internal/settings"
	"github.com/subslayer/subslayer/internal/subscription"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	summaryFaintStyle = lipgloss.NewStyle().Faint(true)
)

type SummaryModel struct {
	CommonModel
	svc      *subscription.Service
	prefsSvc *settings.Service
	userID   string

	summary  *subscription.Summary
	currency string
	loading  bool
	err      error
}

func NewSummaryModel(svc *subscription.Service, prefsSvc *settings.Service, userID string) SummaryModel {
	return SummaryModel{
		svc:      svc,
		prefsSvc: prefsSvc,
		userID:   userID,
		loading:  true,
	}
}

func (m SummaryModel) Title() string     { return "Spending Summary" }
func (m SummaryModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m SummaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadSummaryMsg:
		m.loading = false
		m.summary = msg.summary
		m.currency = msg.currency
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m SummaryModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Computing summary...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := m.summary

	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Totals") + "\n")
	sb.WriteString(fmt.Sprintf("Monthly: %s   Annual: %s\n",
		money.Format(m.currency, s.MonthlyTotal), money.Format(m.currency, s.AnnualTotal)))
	sb.WriteString(fmt.Sprintf("Active: %d   Paused: %d   Cancelled: %d\n\n",
		s.ActiveCount, s.PausedCount, s.CancelledCount))

	sb.WriteString(summaryTitleStyle.Render("By Category") + "\n")

	for _, cat := range s.Categories {
		sb.WriteString(fmt.Sprintf("%-20s %12s  %s\n",
			cat.Category,
			money.Format(m.currency, cat.MonthlyTotal),
			summaryFaintStyle.Render(fmt.Sprintf("(%d)", cat.Count)),
		))
	}

	if len(s.Upcoming) > 0 {
		sb.WriteString("\n" + summaryTitleStyle.Render("Renewing in the next 30 days") + "\n")

		for _, sub := range s.Upcoming {
			sb.WriteString(fmt.Sprintf("%-20s %12s  %s\n",
				sub.Name,
				money.Format(sub.Currency, sub.Cost),
				FormatDate(sub.NextBilling),
			))
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

type loadSummaryMsg struct {
	summary  *subscription.Summary
	currency string
	err      error
}

func (m SummaryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		summary, err := m.svc.Summarize(ctx, m.userID, time.Now())
		if err != nil {
			return loadSummaryMsg{err: err}
		}

		prefs, err := m.prefsSvc.Get(ctx, m.userID)
		if err != nil {
			return loadSummaryMsg{err: err}
		}

		return loadSummaryMsg{summary: summary, currency: prefs.Currency}
	}
}
