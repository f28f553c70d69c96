package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/go-go-golems/sessionbot/pkg/conversation"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
)

// states:
// - user input
// - user scrolling through the conversation
// - waiting for the model to answer

type State string

const (
	StateUserInput    State = "user_input"
	StateMovingAround State = "moving_around"
	StateWaiting      State = "waiting"
)

type refreshMessageMsg struct {
	GoToBottom bool
}

type model struct {
	ctx       context.Context
	manager   *chatbot.Manager
	backend   *ManagerBackend
	commander *Commander

	viewport viewport.Model
	textArea textarea.Model
	help     help.Model

	keyMap KeyMap
	style  *Style
	width  int
	height int

	state        State
	quitReceived bool

	// pending is the user message currently being answered
	pending string
	// notice is the output of the last slash command
	notice string
	// status describes the last inference event
	status string
}

// InitialModel builds the chat TUI over manager. Messages typed into the input
// go to the current session; lines starting with "/" run commands.
func InitialModel(ctx context.Context, manager *chatbot.Manager, commander *Commander) tea.Model {
	ret := model{
		ctx:       ctx,
		manager:   manager,
		backend:   NewManagerBackend(manager),
		commander: commander,
		style:     DefaultStyles(),
		keyMap:    DefaultKeyMap,
		viewport:  viewport.New(0, 0),
		help:      help.New(),
		status:    fmt.Sprintf("model: %s", manager.Model()),
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Type your message here... (/help for commands)"
	ret.textArea.ShowLineNumbers = false
	ret.textArea.Focus()
	ret.state = StateUserInput

	ret.viewport.SetContent(ret.messageView())
	ret.viewport.GotoBottom()

	ret.updateKeyBindings()

	return ret
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			if !m.quitReceived {
				m.quitReceived = true
				m.backend.Interrupt()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.CancelCompletion):
			m.backend.Interrupt()
			return m, nil

		case key.Matches(msg, m.keyMap.UnfocusMessage):
			m.textArea.Blur()
			m.state = StateMovingAround
			m.updateKeyBindings()
			return m, nil

		case key.Matches(msg, m.keyMap.FocusMessage):
			cmd = m.textArea.Focus()
			m.state = StateUserInput
			m.updateKeyBindings()
			return m, cmd

		case key.Matches(msg, m.keyMap.SubmitMessage):
			return m, m.submit()

		case key.Matches(msg, m.keyMap.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.recomputeSize()
			return m, nil

		default:
			switch m.state {
			case StateUserInput:
				m.textArea, cmd = m.textArea.Update(msg)
			case StateMovingAround, StateWaiting:
				m.viewport, cmd = m.viewport.Update(msg)
			}
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.recomputeSize()

	case ReplyMsg:
		m.pending = ""
		m.state = StateUserInput
		cmds = append(cmds, m.textArea.Focus())
		m.updateKeyBindings()
		m.recomputeSize()
		if m.quitReceived {
			return m, tea.Quit
		}

	case EventMsg:
		m.status = statusFromEvent(msg.Event)

	case refreshMessageMsg:
		m.viewport.SetContent(m.messageView())
		m.recomputeSize()
		if msg.GoToBottom {
			m.viewport.GotoBottom()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) updateKeyBindings() {
	m.keyMap.FocusMessage.SetEnabled(m.state == StateMovingAround)
	m.keyMap.UnfocusMessage.SetEnabled(m.state == StateUserInput)
	m.keyMap.SubmitMessage.SetEnabled(m.state == StateUserInput)
	m.keyMap.CancelCompletion.SetEnabled(m.state == StateWaiting)
}

func (m *model) recomputeSize() {
	headerHeight := lipgloss.Height(m.headerView())
	textAreaHeight := lipgloss.Height(m.textAreaView())
	helpViewHeight := lipgloss.Height(m.help.View(m.keyMap))
	statusHeight := lipgloss.Height(m.statusView())

	newHeight := m.height - textAreaHeight - headerHeight - helpViewHeight - statusHeight
	if newHeight < 0 {
		newHeight = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = newHeight
	m.viewport.YPosition = headerHeight + 1

	h, _ := m.style.FocusedMessage.GetFrameSize()
	m.textArea.SetWidth(m.width - h)

	m.viewport.SetContent(m.messageView())
	m.viewport.GotoBottom()
}

func (m model) headerView() string {
	return m.style.Header.Render(fmt.Sprintf("SESSIONBOT  session: %s", m.manager.CurrentSession()))
}

func (m model) statusView() string {
	return m.style.Status.Render(m.status)
}

func (m model) renderTurn(role conversation.Role, text string, style lipgloss.Style) string {
	w, _ := style.GetFrameSize()
	v := wrapWords(fmt.Sprintf("[%s]: %s", role, text), m.width-w)
	if m.width > w {
		style = style.Width(m.width - w + style.GetHorizontalPadding())
	}
	return style.Render(v)
}

func (m model) messageView() string {
	var sb strings.Builder

	for _, turn := range m.manager.Turns("") {
		style := m.style.UnselectedMessage
		if turn.Role == conversation.RoleAssistant && strings.HasPrefix(turn.Text, engine.FaultPrefix) {
			style = m.style.FaultMessage
		}
		sb.WriteString(m.renderTurn(turn.Role, turn.Text, style))
		sb.WriteString("\n")
	}

	if m.pending != "" {
		sb.WriteString(m.renderTurn(conversation.RoleUser, m.pending, m.style.SelectedMessage))
		sb.WriteString("\n")
	}

	if m.notice != "" {
		sb.WriteString(m.style.Notice.Render(wrapWords(m.notice, m.width-2)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (m model) textAreaView() string {
	if m.state == StateWaiting {
		return m.style.UnselectedMessage.Render("Bot is thinking...")
	}

	v := m.textArea.View()
	switch m.state {
	case StateUserInput:
		v = m.style.FocusedMessage.Render(v)
	case StateMovingAround:
		v = m.style.UnselectedMessage.Render(v)
	}
	return v
}

func (m model) View() string {
	return m.headerView() + "\n" +
		m.viewport.View() + "\n" +
		m.textAreaView() + "\n" +
		m.statusView() + "\n" +
		m.help.View(m.keyMap)
}

func (m *model) submit() tea.Cmd {
	input := m.textArea.Value()
	if strings.TrimSpace(input) == "" {
		return nil
	}
	m.textArea.SetValue("")

	refresh := func() tea.Msg {
		return refreshMessageMsg{GoToBottom: true}
	}

	if cmd, ok := ParseCommand(input); ok {
		res, err := m.commander.Run(cmd)
		if err != nil {
			m.notice = err.Error()
			return refresh
		}
		m.notice = res.Output
		if res.Quit {
			return tea.Quit
		}
		return refresh
	}

	input = ChatMessage(input)
	start, err := m.backend.Start(m.ctx, input)
	if err != nil {
		m.notice = err.Error()
		return refresh
	}

	m.notice = ""
	m.pending = input
	m.textArea.Blur()
	m.state = StateWaiting
	m.updateKeyBindings()

	return tea.Batch(refresh, start)
}

func statusFromEvent(e events.Event) string {
	md := e.Metadata
	switch e.Type {
	case events.EventTypeStart:
		return fmt.Sprintf("model: %s  thinking...", md.Model)
	case events.EventTypeFinal:
		parts := []string{fmt.Sprintf("model: %s", md.Model)}
		if md.Usage != nil {
			parts = append(parts, fmt.Sprintf("tokens: %d in / %d out", md.Usage.InputTokens, md.Usage.OutputTokens))
		}
		if md.DurationMs != nil {
			parts = append(parts, fmt.Sprintf("%dms", *md.DurationMs))
		}
		return strings.Join(parts, "  ")
	case events.EventTypeError:
		return fmt.Sprintf("model: %s  %s", md.Model, e.Text)
	default:
		return ""
	}
}
