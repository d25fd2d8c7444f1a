package tui

import (
	"fmt"
	"strings"

	"edupulse/internal/api"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type chatMessage struct {
	fromBot bool
	text    string
}

type chatReplyMsg struct {
	reply string
	err   error
}

// chatModel is the floating EduBot panel. While open it owns the
// keyboard except for its toggle and close keys.
type chatModel struct {
	client  *api.Client
	profile *api.StudentProfile

	open     bool
	messages []chatMessage
	pending  bool

	input   textinput.Model
	vp      viewport.Model
	spinner spinner.Model
	width   int
}

func newChatModel(client *api.Client, profile *api.StudentProfile) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Tanya EduBot..."
	ti.CharLimit = 280

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	m := chatModel{
		client:  client,
		profile: profile,
		input:   ti,
		vp:      viewport.New(60, 10),
		spinner: sp,
	}
	m.messages = append(m.messages, chatMessage{
		fromBot: true,
		text: fmt.Sprintf(
			"Halo %s! Saya EduBot. Ada yang bisa saya bantu terkait nilai atau materi kuliah?",
			profile.Name),
	})
	m.refreshViewport()
	return m
}

func (m *chatModel) setSize(width, height int) {
	m.width = width
	w := width - 8
	if w < 30 {
		w = 30
	}
	if w > 70 {
		w = 70
	}
	h := height / 3
	if h < 6 {
		h = 6
	}
	m.vp.Width = w
	m.vp.Height = h
	m.input.Width = w - 4
	m.refreshViewport()
}

func (m chatModel) toggle() chatModel {
	m.open = !m.open
	if m.open {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	return m
}

func (m *chatModel) refreshViewport() {
	var b strings.Builder
	for _, msg := range m.messages {
		if msg.fromBot {
			b.WriteString(chatBotStyle.Render("EduBot: "+msg.text) + "\n")
		} else {
			b.WriteString(chatUserStyle.Render("Anda: "+msg.text) + "\n")
		}
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m chatModel) send() (chatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.pending {
		return m, nil
	}
	// Optimistic append: the user's line shows before the reply lands.
	m.messages = append(m.messages, chatMessage{text: text})
	m.input.Reset()
	m.pending = true
	m.refreshViewport()

	client := m.client
	userID := m.profile.UserID
	style := m.profile.LearningStyle
	ask := func() tea.Msg {
		reply, err := client.Chat(userID, text, style)
		return chatReplyMsg{reply: reply, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, ask)
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		m.pending = false
		reply := msg.reply
		if msg.err != nil {
			reply = "Maaf, koneksi server terputus."
		}
		m.messages = append(m.messages, chatMessage{fromBot: true, text: reply})
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m.toggle(), nil
		case "enter":
			return m.send()
		case "up", "pgup":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		case "down", "pgdown":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("EduBot") + "\n")
	b.WriteString(m.vp.View() + "\n")
	if m.pending {
		b.WriteString(helpStyle.Render(m.spinner.View()+" EduBot sedang mengetik...") + "\n")
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render("enter: kirim • esc: tutup"))
	return chatBoxStyle.Render(b.String())
}
