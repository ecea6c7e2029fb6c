package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/nlholdem/server/pkg/cards"
	"github.com/nlholdem/server/pkg/engine"
	"github.com/nlholdem/server/pkg/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginLeft(2)
	gameInfoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("140")).MarginTop(1)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// connectedMsg, stateMsg and errMsg are the three shapes a server
// envelope decodes to (spec.md §6's connected/game_state/error types).
type connectedMsg session.ConnectedPayload
type stateMsg session.GameStateView
type errMsg string
type closedMsg struct{}

// Model holds everything the terminal client needs to render and drive
// one WS connection, in the teacher's flat Model style (cmd/client/ui.go).
type Model struct {
	conn    *websocket.Conn
	updates <-chan tea.Msg

	playerID string
	gameID   string
	view     session.GameStateView
	message  string

	selected int
	betInput string
	betFocus bool
}

func initialModel(conn *websocket.Conn, updates <-chan tea.Msg) Model {
	return Model{conn: conn, updates: updates, betInput: "20"}
}

func waitForUpdate(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return msg
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		m.playerID = msg.PlayerID
		m.gameID = msg.GameID
		return m, waitForUpdate(m.updates)

	case stateMsg:
		m.view = session.GameStateView(msg)
		m.selected = 0
		return m, waitForUpdate(m.updates)

	case errMsg:
		m.message = string(msg)
		return m, waitForUpdate(m.updates)

	case closedMsg:
		m.message = "connection closed"
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.betFocus {
		switch msg.String() {
		case "enter":
			amount, _ := strconv.ParseInt(m.betInput, 10, 64)
			t := m.selectedActionType()
			m.betFocus = false
			return m, m.sendAction(t, amount)
		case "esc":
			m.betFocus = false
		case "backspace":
			if len(m.betInput) > 0 {
				m.betInput = m.betInput[:len(m.betInput)-1]
			}
		default:
			if len(msg.String()) == 1 && msg.String()[0] >= '0' && msg.String()[0] <= '9' {
				m.betInput += msg.String()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		return m, m.send(session.Inbound{Type: session.InStartGame})
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.view.ValidActions)-1 {
			m.selected++
		}
	case "enter":
		legal := m.view.ValidActions
		if m.selected >= len(legal) {
			return m, nil
		}
		a := legal[m.selected]
		switch a.Type {
		case engine.Bet, engine.Raise:
			m.betFocus = true
			m.betInput = strconv.FormatInt(a.MinAmount, 10)
			return m, nil
		default:
			return m, m.sendAction(a.Type, a.Amount)
		}
	}
	return m, nil
}

func (m Model) selectedActionType() engine.ActionType {
	if m.selected < len(m.view.ValidActions) {
		return m.view.ValidActions[m.selected].Type
	}
	return engine.Bet
}

func (m Model) sendAction(t engine.ActionType, amount int64) tea.Cmd {
	return m.send(session.Inbound{Type: session.InPlayerAction, Action: t, Amount: amount})
}

func (m Model) send(in session.Inbound) tea.Cmd {
	return func() tea.Msg {
		if err := m.conn.WriteJSON(in); err != nil {
			return errMsg(err.Error())
		}
		return nil
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Poker") + "\n\n")
	b.WriteString(gameInfoStyle.Render(fmt.Sprintf("Game: %s  Status: %s  Round: %s", m.view.GameID, m.view.Status, m.view.CurrentRound)) + "\n")
	b.WriteString(gameInfoStyle.Render(fmt.Sprintf("Pot: %d  Current bet: %d  Blinds: %d/%d", totalPot(m.view), m.view.CurrentBet, m.view.SmallBlind, m.view.BigBlind)) + "\n\n")

	if len(m.view.CommunityCards) > 0 {
		b.WriteString("Board: " + formatCards(m.view.CommunityCards) + "\n\n")
	}

	for _, seat := range m.view.Seats {
		if seat.PlayerID == "" {
			continue
		}
		marker := "  "
		if seat.Index == m.view.CurrentSeatIndex {
			marker = "->"
		}
		you := ""
		if seat.PlayerID == m.playerID {
			you = " (you)"
		}
		cardsStr := ""
		if len(seat.HoleCards) > 0 {
			cardsStr = "  [" + formatCards(seat.HoleCards) + "]"
		}
		b.WriteString(fmt.Sprintf("%s %s%s  stack=%d  bet=%d  %s%s\n", marker, seat.Name, you, seat.Stack, seat.BetInRound, seat.Status, cardsStr))
	}
	b.WriteString("\n")

	for _, w := range m.view.Winners {
		hand := w.HandName
		if w.HandDescription != "" {
			hand = w.HandDescription
		}
		b.WriteString(gameInfoStyle.Render(fmt.Sprintf("%s wins %d (%s, %s)", w.Name, w.Amount, w.PotType, hand)) + "\n")
	}

	legal := m.view.ValidActions
	if len(legal) > 0 {
		b.WriteString("\nYour turn:\n")
		for i, a := range legal {
			line := a.Type.String()
			switch {
			case a.Amount > 0:
				line += fmt.Sprintf(" (%d)", a.Amount)
			case a.MaxAmount > 0:
				line += fmt.Sprintf(" [%d-%d]", a.MinAmount, a.MaxAmount)
			}
			if i == m.selected {
				b.WriteString(focusedStyle.Render("> "+line) + "\n")
			} else {
				b.WriteString(blurredStyle.Render("  "+line) + "\n")
			}
		}
	}

	if m.betFocus {
		b.WriteString(fmt.Sprintf("\namount: %s (enter to confirm, esc to cancel)\n", m.betInput))
	}

	if m.message != "" {
		b.WriteString("\n" + errorStyle.Render(m.message) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("s: start hand  up/down: choose  enter: act  q: quit"))
	return b.String()
}

func totalPot(v session.GameStateView) int64 {
	var total int64
	for _, p := range v.Pots {
		total += p.Amount
	}
	return total
}

func formatCards(cs []cards.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
