package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/neurotech/internal/chat"
	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/state"
)

const (
	DefaultViewportWidth  = 80
	DefaultViewportHeight = 18
	chatChromeHeight      = 6
	minViewportHeight     = 5
)

// SendFunc posts a chat message and returns what the store recorded.
type SendFunc func(ctx context.Context, content string) (state.Exchange, error)

// exchangeMsg carries a finished send back into Update.
type exchangeMsg struct {
	exchange state.Exchange
	err      error
}

// ChatModel is the interactive team chat. While an @AI reply is pending,
// Enter does nothing.
type ChatModel struct {
	ctx      context.Context
	send     SendFunc
	userName string

	messages []dashboard.Message
	pending  bool
	err      error

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
}

// NewChatModel starts the chat with the existing log.
func NewChatModel(ctx context.Context, userName string, history []dashboard.Message, send SendFunc) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Message the team, mention @AI for help..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = DefaultViewportWidth - 4

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePrimary

	m := ChatModel{
		ctx:      ctx,
		send:     send,
		userName: userName,
		messages: append([]dashboard.Message(nil), history...),
		input:    ti,
		viewport: viewport.New(DefaultViewportWidth, DefaultViewportHeight),
		spinner:  s,
	}
	m.refresh()
	return m
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Pending reports whether an AI reply is outstanding.
func (m ChatModel) Pending() bool {
	return m.pending
}

// Messages returns what the chat currently shows.
func (m ChatModel) Messages() []dashboard.Message {
	return m.messages
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-chatChromeHeight, minViewportHeight)
		m.input.Width = msg.Width - 8
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.pending {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			m.err = nil
			m.messages = append(m.messages, dashboard.NewMessage(m.userName, text, false))
			m.refresh()
			if !chat.MentionsAI(text) {
				return m, m.sendCmd(text)
			}
			m.pending = true
			return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case exchangeMsg:
		m.pending = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if msg.exchange.Reply != nil {
			m.messages = append(m.messages, *msg.exchange.Reply)
			m.refresh()
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m ChatModel) sendCmd(text string) tea.Cmd {
	ctx, send := m.ctx, m.send
	return func() tea.Msg {
		ex, err := send(ctx, text)
		return exchangeMsg{exchange: ex, err: err}
	}
}

func (m *ChatModel) refresh() {
	lines := make([]string, len(m.messages))
	for i, msg := range m.messages {
		lines[i] = RenderMessage(msg)
	}
	m.viewport.SetContent(strings.Join(lines, "\n\n"))
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	status := StyleSubtle.Render("Enter to send · Esc to quit")
	switch {
	case m.pending:
		status = m.spinner.View() + " " + StyleSubtle.Render(dashboard.AssistantName+" is thinking...")
	case m.err != nil:
		status = StyleError.Render("Error: " + m.err.Error())
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render("Team Chat"),
		m.viewport.View(),
		status,
		StyleInputBox.Render(m.input.View()),
	)
}
