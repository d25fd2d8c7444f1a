package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"edupulse/internal/api"
	"edupulse/internal/config"
	"edupulse/internal/export"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type adminLevel int

const (
	levelClasses adminLevel = iota
	levelStudents
	levelDetail
)

var pageSizes = []int{10, 25, 40, 50}

type adminOverviewMsg struct {
	summary *api.AdminSummary
	classes []api.ClassSummary
	err     error
}

type rosterMsg struct {
	token uuid.UUID
	rows  []api.StudentRow
	err   error
}

type detailMsg struct {
	token   uuid.UUID
	profile *api.StudentProfile
	err     error
}

type resetDoneMsg struct {
	studentID int
	err       error
}

// adminModel is the three-level drill-down: class overview, roster,
// and a single student's dashboard.
type adminModel struct {
	client *api.Client
	cfg    config.Config

	level   adminLevel
	loading bool
	status  string
	spinner spinner.Model
	width   int

	summary *api.AdminSummary
	classes []api.ClassSummary
	cursor  int

	// Roster state. rows is the server response, filtered the view
	// of it after the search term is applied.
	class       api.ClassSummary
	rows        []api.StudentRow
	filtered    []api.StudentRow
	rowCursor   int
	search      textinput.Model
	searching   bool
	pag         paginator.Model
	pageSizeIdx int
	rosterToken uuid.UUID

	// Detail state.
	detailID    int
	detailDash  dashboardModel
	detailReady bool
	detailToken uuid.UUID

	confirm  *huh.Form
	resetFor int
}

func newAdminModel(client *api.Client, cfg config.Config) (adminModel, tea.Cmd) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ti := textinput.New()
	ti.Placeholder = "Cari ID, status, atau cluster..."
	ti.CharLimit = 40

	sizeIdx := 0
	for i, s := range pageSizes {
		if s == cfg.PageSize {
			sizeIdx = i
		}
	}

	pag := paginator.New()
	pag.Type = paginator.Arabic
	pag.ArabicFormat = "Halaman %d dari %d"
	pag.PerPage = pageSizes[sizeIdx]

	m := adminModel{
		client:      client,
		cfg:         cfg,
		loading:     true,
		spinner:     sp,
		search:      ti,
		pag:         pag,
		pageSizeIdx: sizeIdx,
	}

	fetch := func() tea.Msg {
		summary, err := client.AdminSummary()
		if err != nil {
			return adminOverviewMsg{err: err}
		}
		classes, err := client.AdminClasses()
		return adminOverviewMsg{summary: summary, classes: classes, err: err}
	}
	return m, tea.Batch(sp.Tick, fetch)
}

func (m adminModel) capturesInput() bool {
	return m.searching || m.confirm != nil
}

// filterRows keeps the rows whose id, status, or cluster contains the
// term, case-insensitively. An empty term keeps everything.
func filterRows(rows []api.StudentRow, term string) []api.StudentRow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	var out []api.StudentRow
	for _, r := range rows {
		if strings.Contains(strconv.Itoa(r.ID), term) ||
			strings.Contains(strings.ToLower(r.Status), term) ||
			strings.Contains(strings.ToLower(r.Cluster), term) {
			out = append(out, r)
		}
	}
	return out
}

// applyFilter recomputes the filtered view and snaps back to page one.
// SetTotalPages ignores zero, so an empty result is clamped to one page.
func (m *adminModel) applyFilter() {
	m.filtered = filterRows(m.rows, m.search.Value())
	m.pag.SetTotalPages(max(len(m.filtered), 1))
	m.pag.Page = 0
	m.rowCursor = 0
}

func (m adminModel) openRoster(class api.ClassSummary) (adminModel, tea.Cmd) {
	m.class = class
	m.loading = true
	m.status = ""
	m.rosterToken = uuid.New()
	token := m.rosterToken
	client := m.client
	fetch := func() tea.Msg {
		rows, err := client.StudentsByClass(class.ClassID)
		return rosterMsg{token: token, rows: rows, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, fetch)
}

func (m adminModel) openDetail(studentID int) (adminModel, tea.Cmd) {
	m.detailID = studentID
	m.detailReady = false
	m.loading = true
	m.status = ""
	m.detailToken = uuid.New()
	token := m.detailToken
	client := m.client
	fetch := func() tea.Msg {
		profile, err := client.Student(strconv.Itoa(studentID))
		return detailMsg{token: token, profile: profile, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, fetch)
}

func (m adminModel) askReset(studentID int) (adminModel, tea.Cmd) {
	m.resetFor = studentID
	confirmed := false
	m.confirm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Yakin ingin mereset password Mahasiswa %d menjadi 'mhs123'?", studentID)).
				Affirmative("Ya, reset").
				Negative("Batal").
				Value(&confirmed).
				Key("ok"),
		),
	)
	return m, m.confirm.Init()
}

func (m adminModel) runReset() (adminModel, tea.Cmd) {
	id := m.resetFor
	client := m.client
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return resetDoneMsg{studentID: id, err: client.ResetPassword(id)}
	})
}

// pageRows returns the slice of filtered rows on the current page.
func (m adminModel) pageRows() []api.StudentRow {
	start, end := m.pag.GetSliceBounds(len(m.filtered))
	return m.filtered[start:end]
}

func (m adminModel) exportCurrent() adminModel {
	dir := config.DataDir()
	var (
		path string
		err  error
	)
	switch m.level {
	case levelClasses:
		if m.summary == nil {
			return m
		}
		path = filepath.Join(dir, "rekap-kelas.xlsx")
		err = export.Classes(*m.summary, m.classes, path)
	case levelStudents:
		path = filepath.Join(dir, "rekap-"+m.class.ClassID+".xlsx")
		err = export.Roster(m.class, m.filtered, path)
	default:
		return m
	}
	if err != nil {
		m.status = "Ekspor gagal: " + err.Error()
		return m
	}
	m.status = "Tersimpan: " + path
	return m
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case adminOverviewMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("admin overview: %v", msg.err)
			m.status = "Gagal memuat data admin."
			return m, nil
		}
		m.summary = msg.summary
		m.classes = msg.classes
		return m, nil

	case rosterMsg:
		if msg.token != m.rosterToken {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("admin roster: %v", msg.err)
			m.status = "Gagal memuat daftar mahasiswa."
			return m, nil
		}
		m.level = levelStudents
		m.rows = msg.rows
		m.search.Reset()
		m.searching = false
		m.applyFilter()
		return m, nil

	case detailMsg:
		if msg.token != m.detailToken {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("admin detail: %v", msg.err)
			m.status = "Gagal mengambil data profil."
			return m, nil
		}
		m.level = levelDetail
		m.detailReady = true
		// The clicked class stays selected in the drill-down.
		m.detailDash, cmd = newDashboardModel(m.client, msg.profile, m.class.ClassID, true)
		return m, cmd

	case resetDoneMsg:
		m.loading = false
		if msg.err != nil {
			log.Printf("admin reset: %v", msg.err)
			m.status = "Gagal mereset password."
			return m, nil
		}
		m.status = fmt.Sprintf("Sukses! Password Mahasiswa %d sekarang adalah 'mhs123'.", msg.studentID)
		return m, nil

	case quizLoadedMsg:
		if m.detailReady {
			m.detailDash, cmd = m.detailDash.Update(msg)
		}
		return m, cmd

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		if m.detailReady {
			m.detailDash, cmd = m.detailDash.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m adminModel) updateKeys(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	var cmd tea.Cmd

	if m.confirm != nil {
		if msg.String() == "esc" {
			m.confirm = nil
			return m, nil
		}
		form, cmd := m.confirm.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.confirm = f
		}
		if m.confirm.State == huh.StateCompleted {
			ok := m.confirm.GetBool("ok")
			m.confirm = nil
			if ok {
				return m.runReset()
			}
			return m, nil
		}
		return m, cmd
	}

	if m.searching {
		switch msg.String() {
		case "esc", "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		m.search, cmd = m.search.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	if m.loading {
		return m, nil
	}

	switch m.level {
	case levelClasses:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.classes)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.classes) > 0 {
				return m.openRoster(m.classes[m.cursor])
			}
		case m.cfg.Hotkeys.Export:
			m = m.exportCurrent()
		}

	case levelStudents:
		page := m.pageRows()
		switch msg.String() {
		case "esc":
			// Back without refetching; the roster is kept.
			m.level = levelClasses
			m.status = ""
		case "up", "k":
			if m.rowCursor > 0 {
				m.rowCursor--
			}
		case "down", "j":
			if m.rowCursor < len(page)-1 {
				m.rowCursor++
			}
		case "left", "h":
			m.pag.PrevPage()
			m.rowCursor = 0
		case "right", "l":
			m.pag.NextPage()
			m.rowCursor = 0
		case "p":
			m.pageSizeIdx = (m.pageSizeIdx + 1) % len(pageSizes)
			m.pag.PerPage = pageSizes[m.pageSizeIdx]
			m.pag.SetTotalPages(max(len(m.filtered), 1))
			m.pag.Page = 0
			m.rowCursor = 0
		case m.cfg.Hotkeys.Search:
			m.searching = true
			m.search.Focus()
		case m.cfg.Hotkeys.Export:
			m = m.exportCurrent()
		case "u":
			if m.rowCursor < len(page) {
				return m.askReset(page[m.rowCursor].ID)
			}
		case "enter":
			if m.rowCursor < len(page) {
				return m.openDetail(page[m.rowCursor].ID)
			}
		}

	case levelDetail:
		switch msg.String() {
		case "esc":
			m.level = levelStudents
			m.detailReady = false
			m.status = ""
		case "u":
			return m.askReset(m.detailID)
		default:
			if m.detailReady {
				m.detailDash, cmd = m.detailDash.Update(msg)
			}
		}
	}

	return m, cmd
}

func (m adminModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("EduPulse Admin") + "\n")

	if m.loading {
		b.WriteString("  " + m.spinner.View() + " Memuat...\n")
		return b.String()
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n\n")
	}

	if m.confirm != nil {
		b.WriteString(m.confirm.View())
		return b.String()
	}

	switch m.level {
	case levelClasses:
		b.WriteString(m.viewClasses())
	case levelStudents:
		b.WriteString(m.viewRoster())
	case levelDetail:
		if m.detailReady {
			b.WriteString(subtitleStyle.Render(fmt.Sprintf("Mahasiswa %d (%s)", m.detailID, m.class.ClassID)) + "\n")
			b.WriteString(m.detailDash.View())
			b.WriteString("\n" + helpStyle.Render("  u: reset password • esc: kembali"))
		}
	}
	return b.String()
}

func (m adminModel) viewClasses() string {
	var b strings.Builder
	if m.summary != nil {
		cards := lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Render(fmt.Sprintf("Total Mahasiswa\n%d", m.summary.TotalStudents)),
			cardStyle.Render(fmt.Sprintf("Rata-rata GPA\n%.2f", m.summary.AvgGPA)),
			cardStyle.Render(fmt.Sprintf("Berisiko\n%d", m.summary.AtRiskCount)),
		)
		b.WriteString(cards + "\n\n")
	}
	b.WriteString(subtitleStyle.Render("Kelas") + "\n")
	for i, c := range m.classes {
		line := fmt.Sprintf("%-12s %3d mahasiswa   rata-rata %.1f", c.ClassID, c.StudentCount, c.AvgScore)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render(" "+line+" ") + "\n")
		} else {
			b.WriteString(listItemStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n" + helpStyle.Render("  enter: lihat mahasiswa • x: ekspor xlsx • L: keluar • q: tutup"))
	return b.String()
}

func (m adminModel) viewRoster() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Kelas "+m.class.ClassID) + "\n")

	if m.searching {
		b.WriteString(inputStyle.Render(m.search.View()) + "\n")
	} else if m.search.Value() != "" {
		b.WriteString(helpStyle.Render("  filter: "+m.search.Value()) + "\n")
	}

	b.WriteString(fmt.Sprintf("  %-12s %-6s %-10s %-12s %-6s %s\n", "Nama", "GPA", "Status", "Cluster", "Nilai", "Aktivitas"))
	for i, r := range m.pageRows() {
		badge := badgeSuccess
		if r.Status == "Berisiko" {
			badge = badgeDanger
		}
		line := fmt.Sprintf("%-12s %-6.2f %-10s %-12s %-6.1f %d",
			"Mhs-"+strconv.Itoa(r.ID), r.GPA, badge.Render(r.Status), r.Cluster, r.Score, r.Activities)
		if i == m.rowCursor {
			b.WriteString(selectedItemStyle.Render(" "+line+" ") + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n  " + m.pag.View())
	b.WriteString(helpStyle.Render(fmt.Sprintf("  (%d mahasiswa, %d per halaman)", len(m.filtered), m.pag.PerPage)) + "\n")
	b.WriteString(helpStyle.Render("  enter: detail • /: cari • p: ukuran halaman • u: reset password • x: ekspor • esc: kembali"))
	return b.String()
}
