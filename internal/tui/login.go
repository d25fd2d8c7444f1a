package tui

import (
	"log"
	"strings"

	"edupulse/internal/api"
	"edupulse/internal/session"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginTab int

const (
	tabStudent loginTab = iota
	tabAdmin
)

const (
	errStudentLogin  = "Login Gagal! Periksa ID atau Password (Default: mhs123)."
	errStudentFetch  = "Gagal mengambil data profil."
	errAdminPassword = "Password Admin Salah! (Default: admin123)"
)

// loginDoneMsg finishes a login attempt. On success the durable session
// has already been written by the command, so a reload restores the
// same identity without asking for the password again.
type loginDoneMsg struct {
	role    session.Role
	profile *api.StudentProfile
	err     error
	errMsg  string
}

type loginModel struct {
	client *api.Client
	store  *session.Store

	tab      loginTab
	userID   textinput.Model
	password textinput.Model
	focus    int
	loading  bool
	errMsg   string
	spinner  spinner.Model
}

func newLoginModel(client *api.Client, store *session.Store) loginModel {
	id := textinput.New()
	id.Placeholder = "Contoh: 104554"
	id.SetValue("104554")
	id.Width = 30

	pw := textinput.New()
	pw.Placeholder = "Default: mhs123"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.Width = 30

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return loginModel{
		client:   client,
		store:    store,
		userID:   id,
		password: pw,
		spinner:  sp,
	}
}

func (m loginModel) Focus() tea.Cmd {
	return m.userID.Focus()
}

// switchTab flips between the student and admin flows. Switching clears
// the shared error but keeps the typed user id.
func (m loginModel) switchTab() loginModel {
	if m.tab == tabStudent {
		m.tab = tabAdmin
	} else {
		m.tab = tabStudent
	}
	m.errMsg = ""
	m.focus = 0
	m.password.SetValue("")
	if m.tab == tabAdmin {
		m.userID.Blur()
		m.password.Focus()
		m.password.Placeholder = "Default: admin123"
	} else {
		m.password.Blur()
		m.userID.Focus()
		m.password.Placeholder = "Default: mhs123"
	}
	return m
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.errMsg = ""

	client := m.client
	store := m.store

	if m.tab == tabAdmin {
		password := m.password.Value()
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			// The admin username is fixed.
			if err := client.Login("admin", password); err != nil {
				return loginDoneMsg{err: err, errMsg: errAdminPassword}
			}
			if err := store.Save(session.Persisted{Role: session.RoleAdmin}); err != nil {
				log.Printf("saving session: %v", err)
			}
			return loginDoneMsg{role: session.RoleAdmin}
		})
	}

	userID := strings.TrimSpace(m.userID.Value())
	password := m.password.Value()
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		// Token exchange first; the token itself is not retained.
		if err := client.Login(userID, password); err != nil {
			return loginDoneMsg{err: err, errMsg: errStudentLogin}
		}
		profile, err := client.Student(userID)
		if err != nil {
			return loginDoneMsg{err: err, errMsg: errStudentFetch}
		}
		if err := store.Save(session.Persisted{Role: session.RoleStudent, StudentID: userID}); err != nil {
			log.Printf("saving session: %v", err)
		}
		return loginDoneMsg{role: session.RoleStudent, profile: profile}
	})
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		// Only failures reach this model; success replaces the screen.
		m.loading = false
		m.errMsg = msg.errMsg
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t", "left", "right":
			return m.switchTab(), nil
		case "tab", "down", "up":
			if m.tab == tabStudent {
				if m.focus == 0 {
					m.focus = 1
					m.userID.Blur()
					return m, m.password.Focus()
				}
				m.focus = 0
				m.password.Blur()
				return m, m.userID.Focus()
			}
			return m, nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.tab == tabStudent && m.focus == 0 {
		m.userID, cmd = m.userID.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("EduPulse") + "\n")
	b.WriteString(subtitleStyle.Render("Silakan masuk ke akun Anda") + "\n\n")

	studentTab := listItemStyle.Render(" Mahasiswa ")
	adminTab := listItemStyle.Render(" Administrator ")
	if m.tab == tabStudent {
		studentTab = selectedItemStyle.Render(" Mahasiswa ")
	} else {
		adminTab = selectedItemStyle.Render(" Administrator ")
	}
	b.WriteString(studentTab + " " + adminTab + "\n\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
	}

	if m.tab == tabStudent {
		b.WriteString("  User ID\n")
		b.WriteString(inputStyle.Render(m.userID.View()) + "\n")
		b.WriteString("  Password\n")
		b.WriteString(inputStyle.Render(m.password.View()) + "\n\n")
	} else {
		b.WriteString("  Admin Username\n")
		b.WriteString(subtitleStyle.Render("  admin (tetap)") + "\n")
		b.WriteString("  Password\n")
		b.WriteString(inputStyle.Render(m.password.View()) + "\n\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " Verifikasi...\n")
	}

	b.WriteString(helpStyle.Render("  enter: login • tab: ganti kolom • ←/→: ganti tab • esc: kembali"))
	return b.String()
}
