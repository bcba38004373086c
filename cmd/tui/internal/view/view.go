package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is one dashboard screen: the subscription list, the spending summary,
// or the notification inbox.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by every screen.
type CommonModel struct{}

// BackMsg asks the root model to return to the menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
