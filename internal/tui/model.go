package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"librarian/internal/librarian"
)

// Librarian is the TUI-facing subset of the conversation service.
type Librarian interface {
	Answer(ctx context.Context, utterance string) (*librarian.Reply, error)
}

// turn is one rendered exchange line in the transcript.
type turn struct {
	speaker string
	text    string
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service    Librarian
	input      textinput.Model
	viewport   viewport.Model
	transcript []turn
	status     string
	ready      bool
}

// New creates a new chat model instance.
func New(service Librarian) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask for a book and press Enter ('exit' to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, status: "Ready. Ask me about a book."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			if isExitWord(q) {
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, turn{speaker: "You", text: q})
			reply, err := m.service.Answer(context.Background(), q)
			switch {
			case err != nil:
				m.transcript = append(m.transcript, turn{speaker: "Error", text: err.Error()})
				m.status = "Turn failed. Ask again."
			case reply != nil:
				m.transcript = append(m.transcript, turn{speaker: "Assistant", text: reply.Text})
				m.status = statusFor(reply)
			}
			m.viewport.SetContent(m.renderTranscript())
			m.viewport.GotoBottom()
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Smart Librarian")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return "No conversation yet."
	}
	var sb strings.Builder
	for i, t := range m.transcript {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(speakerStyle.Render(t.speaker+":") + " " + t.text)
	}
	return sb.String()
}

func statusFor(reply *librarian.Reply) string {
	switch reply.Kind {
	case librarian.ReplyAnswer:
		return fmt.Sprintf("Recommended %q", reply.Title)
	case librarian.ReplyRefused:
		return "Rephrase and try again."
	case librarian.ReplyNoMatch:
		return "Nothing matched. Try another theme."
	case librarian.ReplyToolNotCalled:
		return "The model misbehaved. Retry the question."
	}
	return ""
}

func isExitWord(q string) bool {
	switch strings.ToLower(q) {
	case "exit", "quit":
		return true
	}
	return false
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	speakerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
