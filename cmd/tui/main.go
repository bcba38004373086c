package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/subslayer/subslayer/cmd/tui/internal/view"
	"github.com/subslayer/subslayer/internal/bus"
	"github.com/subslayer/subslayer/internal/config"
	"github.com/subslayer/subslayer/internal/database"
	"github.com/subslayer/subslayer/internal/notification"
	notificationStore "github.com/subslayer/subslayer/internal/notification/store"
	"github.com/subslayer/subslayer/internal/settings"
	settingsStore "github.com/subslayer/subslayer/internal/settings/store"
	"github.com/subslayer/subslayer/internal/subscription"
	subStore "github.com/subslayer/subslayer/internal/subscription/store"
)

type model struct {
	subService      *subscription.Service
	settingsService *settings.Service

	currentView View

	subsView          view.SubscriptionsModel
	summaryView       view.SummaryModel
	notificationsView view.NotificationsModel
}

type View int

const (
	ViewMenu          View = 0
	ViewSubscriptions View = 1
	ViewSummary       View = 2
	ViewNotifications View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	cache, err := database.NewCache(cfg.Cache.Path)
	if err != nil {
		slog.Error("failed to open notification cache", "error", err)
		os.Exit(1)
	}

	userID := cfg.App.User

	subSvc := subscription.NewService(subStore.New(db), bus.New[subscription.ChangeEvent]())
	prefsSvc := settings.NewService(settingsStore.New(db))
	notifRepo := notificationStore.NewTwoTier(notificationStore.NewRemote(db), notificationStore.NewCache(cache))
	notifSvc := notification.NewService(notifRepo)

	// No push gateway or mail relay from the terminal; sweeps only persist.
	engine := notification.NewEngine(subSvc, prefsSvc, notifRepo, nil, nil)

	return model{
		subService:        subSvc,
		settingsService:   prefsSvc,
		currentView:       ViewMenu,
		subsView:          view.NewSubscriptionsModel(subSvc, userID),
		summaryView:       view.NewSummaryModel(subSvc, prefsSvc, userID),
		notificationsView: view.NewNotificationsModel(notifSvc, engine, userID),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSubscriptions
				return m, m.subsView.Init()
			case "2":
				m.currentView = ViewSummary
				return m, m.summaryView.Init()
			case "3":
				m.currentView = ViewNotifications
				return m, m.notificationsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSubscriptions:
		var newModel tea.Model
		newModel, cmd = m.subsView.Update(msg)
		m.subsView = newModel.(view.SubscriptionsModel)
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewNotifications:
		var newModel tea.Model
		newModel, cmd = m.notificationsView.Update(msg)
		m.notificationsView = newModel.(view.NotificationsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"SubSlayer TUI\n\n" +
				"1. Subscriptions\n" +
				"2. Spending Summary\n" +
				"3. Notifications\n\n" +
				"q. Quit",
		)
	case ViewSubscriptions:
		return m.subsView.View()
	case ViewSummary:
		return m.summaryView.View()
	case ViewNotifications:
		return m.notificationsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
