// Package alarmscreen renders a firing alarm as a full-screen terminal
// view that only an explicit stop or snooze can resolve.
package alarmscreen

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/task-reminders/internal/alarm"
	"github.com/nhle/task-reminders/internal/keys"
	"github.com/nhle/task-reminders/internal/model"
	"github.com/nhle/task-reminders/internal/theme"
)

// Model is the firing-alarm view.
type Model struct {
	state  model.AlarmRuntimeState
	keys   *keys.AlarmKeyMap
	help   help.Model
	action alarm.UserAction
	chosen bool
	width  int
	height int
}

// New creates an alarm view for the given runtime state.
func New(state model.AlarmRuntimeState) Model {
	return Model{
		state: state,
		keys:  keys.DefaultAlarmKeyMap(),
		help:  help.New(),
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the alarm view. Generic dismiss keys
// (esc, q, ctrl+c) are swallowed: the alarm stays up until the user
// explicitly stops or snoozes it.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Stop):
			m.action = alarm.ActionStop
			m.chosen = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Snooze):
			m.action = alarm.ActionSnooze
			m.chosen = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// View renders the full-screen alarm.
func (m Model) View() string {
	header := theme.AlarmHeaderStyle.Render("⏰ REMINDER")
	title := theme.AlarmTitleStyle.Render(m.state.Title)
	when := theme.AlarmTimeStyle.Render(
		fmt.Sprintf("due %s", m.state.FireAt.Local().Format("Mon 15:04")),
	)

	parts := []string{header, title, when}
	if m.state.Description != "" {
		parts = append(parts, theme.AlarmBodyStyle.Render(m.state.Description))
	}
	parts = append(parts, theme.HelpStyle.MarginTop(1).Render(m.help.View(m.keys)))

	panel := theme.AlarmPanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)

	if m.width == 0 || m.height == 0 {
		return panel
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// Action returns the user's choice once the view has quit.
func (m Model) Action() (alarm.UserAction, bool) {
	return m.action, m.chosen
}

// Presenter presents alarms by running the alarm view as a Bubble Tea
// program in the alternate screen.
type Presenter struct{}

// NewPresenter creates a terminal alarm presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Present blocks until the user stops or snoozes the alarm.
func (p *Presenter) Present(ctx context.Context, state model.AlarmRuntimeState) (alarm.UserAction, error) {
	program := tea.NewProgram(New(state), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		return alarm.ActionStop, fmt.Errorf("running alarm view: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return alarm.ActionStop, fmt.Errorf("unexpected final model %T", final)
	}

	action, chosen := m.Action()
	if !chosen {
		// The program ended without an explicit choice (context
		// cancelled); treat it as a forced stop.
		return alarm.ActionStop, nil
	}
	return action, nil
}
