package tui

import (
	"log"
	"strings"

	"edupulse/internal/api"
	"edupulse/internal/config"
	"edupulse/internal/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// sessionState is the application-level state machine. Exactly one
// state is active at a time; the impossible flag combinations of an ad
// hoc boolean approach (admin with a student profile, login screen
// while authenticated) cannot be expressed.
type sessionState int

const (
	stateInitializing sessionState = iota
	stateLanding
	stateLogin
	stateStudent
	stateAdmin
)

// studentScreen is the routed screen inside the authenticated student
// shell. Unknown requests fall back to the dashboard.
type studentScreen int

const (
	screenDashboard studentScreen = iota
	screenProfile
	screenRecommendations
)

type shellKeyMap struct {
	Dashboard key.Binding
	Profile   key.Binding
	Recs      key.Binding
	Chat      key.Binding
	Logout    key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func (k shellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Chat, k.Logout, k.Quit, k.Help}
}

func (k shellKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Dashboard, k.Profile, k.Recs},
		{k.Chat, k.Logout, k.Quit},
	}
}

func newShellKeys(cfg config.Config) shellKeyMap {
	return shellKeyMap{
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dasbor"),
		),
		Profile: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "profil"),
		),
		Recs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "rekomendasi AI"),
		),
		Chat: key.NewBinding(
			key.WithKeys(cfg.Hotkeys.Chat),
			key.WithHelp(cfg.Hotkeys.Chat, "chat EduBot"),
		),
		Logout: key.NewBinding(
			key.WithKeys(cfg.Hotkeys.Logout),
			key.WithHelp(cfg.Hotkeys.Logout, "keluar"),
		),
		Quit: key.NewBinding(
			key.WithKeys(cfg.Hotkeys.Quit, "ctrl+c"),
			key.WithHelp(cfg.Hotkeys.Quit, "tutup aplikasi"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "bantuan"),
		),
	}
}

type Model struct {
	cfg    config.Config
	client *api.Client
	store  *session.Store
	sess   *session.Active

	state  sessionState
	screen studentScreen

	login     loginModel
	dashboard dashboardModel
	profile   profileModel
	recs      recsModel
	chat      chatModel
	admin     adminModel

	keys     shellKeyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	quitting bool
}

func NewModel(cfg config.Config, client *api.Client, store *session.Store) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		cfg:     cfg,
		client:  client,
		store:   store,
		sess:    &session.Active{},
		state:   stateInitializing,
		login:   newLoginModel(client, store),
		keys:    newShellKeys(cfg),
		help:    help.New(),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.restoreSession())
}

// sessionRestoredMsg completes the Initializing state. An empty role
// means no usable persisted session; any failed student restore has
// already cleared the durable store before the message is delivered, so
// the next start cannot loop on the same broken session.
type sessionRestoredMsg struct {
	role    session.Role
	profile *api.StudentProfile
	err     error
}

func (m Model) restoreSession() tea.Cmd {
	store := m.store
	client := m.client
	return func() tea.Msg {
		p, err := store.Load()
		if err != nil {
			store.Clear()
			return sessionRestoredMsg{err: err}
		}
		if p == nil {
			return sessionRestoredMsg{}
		}
		if p.Role == session.RoleAdmin {
			// Admins restore without a network call.
			return sessionRestoredMsg{role: session.RoleAdmin}
		}
		profile, err := client.Student(p.StudentID)
		if err != nil {
			store.Clear()
			return sessionRestoredMsg{err: err}
		}
		return sessionRestoredMsg{role: session.RoleStudent, profile: profile}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat.setSize(msg.Width, msg.Height)
		m.dashboard.width = msg.Width
		m.admin.width = msg.Width
		return m, nil

	case sessionRestoredMsg:
		if msg.err != nil {
			log.Printf("session restore failed: %v", msg.err)
		}
		switch msg.role {
		case session.RoleAdmin:
			return m.enterAdmin()
		case session.RoleStudent:
			return m.enterStudent(msg.profile)
		default:
			m.state = stateLanding
			return m, nil
		}

	case loginDoneMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(msg)
			return m, cmd
		}
		if msg.role == session.RoleAdmin {
			return m.enterAdmin()
		}
		return m.enterStudent(msg.profile)
	}

	switch m.state {
	case stateInitializing:
		return m.updateInitializing(msg)
	case stateLanding:
		return m.updateLanding(msg)
	case stateLogin:
		return m.updateLogin(msg)
	case stateStudent:
		return m.updateStudent(msg)
	case stateAdmin:
		return m.updateAdmin(msg)
	}
	return m, nil
}

func (m Model) updateInitializing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateLanding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ":
			m.login = newLoginModel(m.client, m.store)
			m.state = stateLogin
			return m, m.login.Focus()
		case m.cfg.Hotkeys.Quit, "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			// Back to the landing page; the toggle is purely local.
			m.state = stateLanding
			return m, nil
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)
	return m, cmd
}

func (m Model) enterStudent(profile *api.StudentProfile) (Model, tea.Cmd) {
	m.sess.Begin(session.RoleStudent, profile)
	m.state = stateStudent
	m.screen = screenDashboard

	var cmd tea.Cmd
	m.dashboard, cmd = newDashboardModel(m.client, m.sess.Profile(), "", false)
	m.dashboard.width = m.width
	m.profile = newProfileModel(m.client, m.sess)
	m.recs = newRecsModel(m.client, m.sess.Profile())
	m.chat = newChatModel(m.client, m.sess.Profile())
	m.chat.setSize(m.width, m.height)
	return m, cmd
}

func (m Model) enterAdmin() (Model, tea.Cmd) {
	m.sess.Begin(session.RoleAdmin, nil)
	m.state = stateAdmin

	var cmd tea.Cmd
	m.admin, cmd = newAdminModel(m.client, m.cfg)
	m.admin.width = m.width
	return m, cmd
}

func (m Model) logout() (Model, tea.Cmd) {
	if err := m.store.Clear(); err != nil {
		log.Printf("clearing session: %v", err)
	}
	m.sess.End()
	m.state = stateLanding
	m.screen = screenDashboard
	m.login = newLoginModel(m.client, m.store)
	return m, nil
}

func (m Model) updateStudent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case quizLoadedMsg:
		m.dashboard, cmd = m.dashboard.Update(msg)
		return m, cmd
	case profileSavedMsg, passwordChangedMsg:
		m.profile, cmd = m.profile.Update(msg)
		return m, cmd
	case analysisDoneMsg:
		m.recs, cmd = m.recs.Update(msg)
		return m, cmd
	case chatReplyMsg:
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		// Spinners carry IDs; only the matching one advances.
		var cmds []tea.Cmd
		m.dashboard, cmd = m.dashboard.Update(msg)
		cmds = append(cmds, cmd)
		m.recs, cmd = m.recs.Update(msg)
		cmds = append(cmds, cmd)
		m.chat, cmd = m.chat.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		// An open chat panel or an active profile form owns the
		// keyboard; global shortcuts would be swallowed by typing.
		if m.chat.open {
			m.chat, cmd = m.chat.Update(msg)
			return m, cmd
		}
		if m.screen == screenProfile && m.profile.capturesInput() {
			if msg.String() == "esc" {
				m.profile = m.profile.cancelEdit()
				return m, nil
			}
			m.profile, cmd = m.profile.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Logout):
			return m.logout()
		case key.Matches(msg, m.keys.Chat):
			m.chat = m.chat.toggle()
			return m, nil
		case key.Matches(msg, m.keys.Dashboard):
			m.screen = screenDashboard
			return m, nil
		case key.Matches(msg, m.keys.Profile):
			m.screen = screenProfile
			return m, nil
		case key.Matches(msg, m.keys.Recs):
			m.screen = screenRecommendations
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if msg.String() == "esc" && m.screen != screenDashboard {
			m.screen = screenDashboard
			return m, nil
		}
		if msg.String() == m.cfg.Hotkeys.Refresh && m.screen == screenDashboard {
			if m.dashboard.selected >= 0 {
				m.dashboard, cmd = m.dashboard.selectCourse(m.dashboard.selected)
				return m, cmd
			}
			return m, nil
		}

		switch m.screen {
		case screenDashboard:
			m.dashboard, cmd = m.dashboard.Update(msg)
		case screenProfile:
			m.profile, cmd = m.profile.Update(msg)
		case screenRecommendations:
			m.recs, cmd = m.recs.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) updateAdmin(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.admin.capturesInput() {
			switch keyMsg.String() {
			case m.cfg.Hotkeys.Quit:
				m.quitting = true
				return m, tea.Quit
			case m.cfg.Hotkeys.Logout:
				return m.logout()
			}
		}
	}

	m.admin, cmd = m.admin.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case stateInitializing:
		return "\n  " + m.spinner.View() + " Memuat sesi..."
	case stateLanding:
		return m.renderLanding()
	case stateLogin:
		return m.login.View()
	case stateStudent:
		return m.renderStudentShell()
	case stateAdmin:
		return m.admin.View()
	}
	return ""
}

func (m Model) renderLanding() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("EduPulse") + "\n")
	b.WriteString(subtitleStyle.Render("AI Learning Recommendation untuk mahasiswa PJJ") + "\n\n")
	b.WriteString("  Pantau nilai, engagement, dan klaster belajar Anda,\n")
	b.WriteString("  lalu dapatkan rekomendasi materi dari AI Engine.\n\n")
	b.WriteString(statusStyle.Render("  [enter] Masuk") + "\n")
	b.WriteString(helpStyle.Render("  q: keluar"))
	return b.String()
}

func (m Model) renderStudentShell() string {
	var b strings.Builder

	profile := m.sess.Profile()
	tabs := []string{"Dasbor", "Profil & Nilai", "Rekomendasi AI"}
	var rendered []string
	for i, tab := range tabs {
		label := " " + tab + " "
		if studentScreen(i) == m.screen {
			rendered = append(rendered, selectedItemStyle.Render(label))
		} else {
			rendered = append(rendered, listItemStyle.Render(label))
		}
	}
	b.WriteString(titleStyle.Render("EduPulse") + "  " + strings.Join(rendered, " "))
	b.WriteString(subtitleStyle.Render("  " + profile.Name))
	b.WriteString("\n\n")

	switch m.screen {
	case screenDashboard:
		b.WriteString(m.dashboard.View())
	case screenProfile:
		b.WriteString(m.profile.View())
	case screenRecommendations:
		b.WriteString(m.recs.View())
	}

	if m.chat.open {
		b.WriteString("\n" + m.chat.View())
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func Run(cfg config.Config, client *api.Client, store *session.Store) error {
	m := NewModel(cfg, client, store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
