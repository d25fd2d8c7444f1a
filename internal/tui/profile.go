package tui

import (
	"strings"

	"edupulse/internal/api"
	"edupulse/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

type profileMode int

const (
	profileMenu profileMode = iota
	profileEdit
	profilePassword
)

type profileDraft struct {
	name          string
	learningStyle string
	interest      string
}

type passwordDraft struct {
	old     string
	new     string
	confirm string
}

// profileSavedMsg reports a profile save. The submitted fields ride
// along so a success can be merged into the shared session profile.
type profileSavedMsg struct {
	draft profileDraft
	err   error
}

type passwordChangedMsg struct {
	err error
}

// profileModel owns the two independent forms of the profile screen.
// Its session handle is the save flow's authorized path for mutating
// the shared profile; every other screen reads it only.
type profileModel struct {
	client *api.Client
	sess   *session.Active

	mode    profileMode
	cursor  int
	form    *huh.Form
	draft   profileDraft
	pwDraft passwordDraft
	saving  bool

	status    string
	statusErr bool
}

func newProfileModel(client *api.Client, sess *session.Active) profileModel {
	m := profileModel{client: client, sess: sess}
	m.resetDraft()
	return m
}

// resetDraft reseeds the edit draft from the current session profile.
func (m *profileModel) resetDraft() {
	p := m.sess.Profile()
	if p == nil {
		return
	}
	m.draft = profileDraft{
		name:          p.Name,
		learningStyle: p.LearningStyle,
		interest:      p.Interest,
	}
}

func (m *profileModel) initEditForm() {
	name := m.draft.name
	style := m.draft.learningStyle
	interest := m.draft.interest

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nama Lengkap").
				Value(&name).
				Key("name"),

			huh.NewSelect[string]().
				Title("Gaya Belajar").
				Options(huh.NewOptions("Visual", "Auditory", "Kinesthetic")...).
				Value(&style).
				Key("style"),

			huh.NewInput().
				Title("Minat Utama").
				Value(&interest).
				Placeholder("Computer Science").
				Key("interest"),
		),
	)
}

func (m *profileModel) initPasswordForm() {
	old := m.pwDraft.old
	newPw := m.pwDraft.new
	confirm := m.pwDraft.confirm

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password Lama").
				EchoMode(huh.EchoModePassword).
				Value(&old).
				Key("old"),

			huh.NewInput().
				Title("Password Baru").
				EchoMode(huh.EchoModePassword).
				Value(&newPw).
				Key("new"),

			huh.NewInput().
				Title("Konfirmasi Password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Key("confirm"),
		),
	)
}

// capturesInput reports whether a form currently owns the keyboard.
func (m profileModel) capturesInput() bool {
	return m.mode != profileMenu
}

// cancelEdit leaves the active form without submitting.
func (m profileModel) cancelEdit() profileModel {
	m.mode = profileMenu
	m.form = nil
	return m
}

func (m profileModel) saveProfile() (profileModel, tea.Cmd) {
	m.saving = true
	draft := m.draft
	client := m.client
	userID := m.sess.Profile().UserID
	return m, func() tea.Msg {
		err := client.UpdateProfile(userID, draft.name, draft.learningStyle, draft.interest)
		return profileSavedMsg{draft: draft, err: err}
	}
}

// submitPassword checks the confirmation locally; a mismatch never
// reaches the network.
func (m profileModel) submitPassword() (profileModel, tea.Cmd) {
	if m.pwDraft.new != m.pwDraft.confirm {
		m.status = "Password baru tidak cocok!"
		m.statusErr = true
		m.initPasswordForm()
		return m, m.form.Init()
	}
	return m.changePassword()
}

func (m profileModel) changePassword() (profileModel, tea.Cmd) {
	m.saving = true
	client := m.client
	userID := m.sess.Profile().UserID
	old, newPw := m.pwDraft.old, m.pwDraft.new
	return m, func() tea.Msg {
		return passwordChangedMsg{err: client.ChangePassword(userID, old, newPw)}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			// Draft is retained so the user can retry without
			// re-typing.
			m.status = "Error saving profile"
			m.statusErr = true
			m.initEditForm()
			return m, m.form.Init()
		}
		m.sess.MergeProfile(msg.draft.name, msg.draft.learningStyle, msg.draft.interest)
		m.resetDraft()
		m.mode = profileMenu
		m.form = nil
		m.status = "Profil berhasil disimpan permanen!"
		m.statusErr = false
		return m, nil

	case passwordChangedMsg:
		m.saving = false
		if msg.err != nil {
			m.status = "Gagal: " + msg.err.Error()
			m.statusErr = true
			m.initPasswordForm()
			return m, m.form.Init()
		}
		m.pwDraft = passwordDraft{}
		m.mode = profileMenu
		m.form = nil
		m.status = "Password berhasil diubah!"
		m.statusErr = false
		return m, nil
	}

	if m.mode == profileMenu {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < 1 {
					m.cursor++
				}
			case "enter":
				m.status = ""
				if m.cursor == 0 {
					m.mode = profileEdit
					m.initEditForm()
				} else {
					m.mode = profilePassword
					m.initPasswordForm()
				}
				return m, m.form.Init()
			}
		}
		return m, nil
	}

	if m.form == nil || m.saving {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.mode == profileEdit {
			m.draft = profileDraft{
				name:          strings.TrimSpace(m.form.GetString("name")),
				learningStyle: m.form.GetString("style"),
				interest:      strings.TrimSpace(m.form.GetString("interest")),
			}
			return m.saveProfile()
		}

		m.pwDraft = passwordDraft{
			old:     m.form.GetString("old"),
			new:     m.form.GetString("new"),
			confirm: m.form.GetString("confirm"),
		}
		return m.submitPassword()
	}

	return m, cmd
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Edit Profil & Keamanan") + "\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status) + "\n\n")
		} else {
			b.WriteString(statusStyle.Render(m.status) + "\n\n")
		}
	}

	if m.mode == profileMenu {
		entries := []string{"Detail Pribadi", "Ganti Password"}
		for i, entry := range entries {
			if i == m.cursor {
				b.WriteString(selectedItemStyle.Render(" "+entry+" ") + "\n")
			} else {
				b.WriteString(listItemStyle.Render(entry) + "\n")
			}
		}
		p := m.sess.Profile()
		b.WriteString("\n" + boxStyle.Render(
			"Nama          : "+p.Name+"\n"+
				"Jurusan       : "+p.Major+"\n"+
				"Gaya Belajar  : "+p.LearningStyle+"\n"+
				"Minat Utama   : "+p.Interest) + "\n")
		b.WriteString(helpStyle.Render("  enter: ubah • esc: kembali ke dasbor"))
		return b.String()
	}

	if m.mode == profileEdit {
		b.WriteString(subtitleStyle.Render("Detail Pribadi") + "\n")
	} else {
		b.WriteString(subtitleStyle.Render("Ganti Password") + "\n")
	}

	if m.saving {
		b.WriteString("  Menyimpan...\n")
		return b.String()
	}

	b.WriteString(m.form.View() + "\n")
	b.WriteString(helpStyle.Render("  esc: batal"))
	return b.String()
}
