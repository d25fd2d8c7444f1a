package tui

import (
	"fmt"
	"log"
	"strings"

	"edupulse/internal/api"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// quizLoadedMsg carries one quiz-detail fetch result. The token ties
// the response to the selection it was issued for: a slow response for
// a class the user already left is discarded on arrival, so the
// last-issued request always wins.
type quizLoadedMsg struct {
	token   uuid.UUID
	quizzes []api.QuizDetail
	err     error
}

type dashboardModel struct {
	client  *api.Client
	profile *api.StudentProfile

	// adminView marks the admin drill-down rendering of this screen.
	adminView bool

	selected   int
	quizzes    []api.QuizDetail
	loading    bool
	fetchToken uuid.UUID
	spinner    spinner.Model
	width      int
}

// newDashboardModel builds the screen and issues the initial fetch.
// forcedClassID pre-selects a class (the admin drill-down path);
// otherwise the first course is the default. With zero courses nothing
// is selected and nothing is fetched.
func newDashboardModel(client *api.Client, profile *api.StudentProfile, forcedClassID string, adminView bool) (dashboardModel, tea.Cmd) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := dashboardModel{
		client:    client,
		profile:   profile,
		adminView: adminView,
		selected:  -1,
		spinner:   sp,
	}

	if len(profile.Courses) == 0 {
		return m, nil
	}

	idx := 0
	if forcedClassID != "" {
		for i, c := range profile.Courses {
			if c.ClassID == forcedClassID {
				idx = i
				break
			}
		}
	}
	return m.selectCourse(idx)
}

func (m dashboardModel) selectedClassID() string {
	if m.selected < 0 || m.selected >= len(m.profile.Courses) {
		return ""
	}
	return m.profile.Courses[m.selected].ClassID
}

// selectCourse switches the active class and issues exactly one fetch
// for its quiz breakdown, superseding any in-flight request.
func (m dashboardModel) selectCourse(idx int) (dashboardModel, tea.Cmd) {
	m.selected = idx
	m.loading = true
	m.quizzes = nil
	m.fetchToken = uuid.New()

	token := m.fetchToken
	client := m.client
	userID := m.profile.UserID
	classID := m.profile.Courses[idx].ClassID
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		quizzes, err := client.QuizDetails(userID, classID)
		return quizLoadedMsg{token: token, quizzes: quizzes, err: err}
	})
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case quizLoadedMsg:
		if msg.token != m.fetchToken {
			// Stale response for a superseded selection.
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			log.Printf("quiz detail fetch failed: %v", msg.err)
			m.quizzes = nil
			return m, nil
		}
		m.quizzes = msg.quizzes
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if len(m.profile.Courses) == 0 {
			return m, nil
		}
		switch msg.String() {
		case "left", "h":
			if m.selected > 0 {
				return m.selectCourse(m.selected - 1)
			}
		case "right", "l":
			if m.selected < len(m.profile.Courses)-1 {
				return m.selectCourse(m.selected + 1)
			}
		}
	}

	return m, nil
}

// comparisonPoint is one bar in the per-course comparison chart,
// computed fresh from the course list on every render.
type comparisonPoint struct {
	name  string
	full  string
	score float64
}

func comparisonSeries(courses []api.Course) []comparisonPoint {
	points := make([]comparisonPoint, 0, len(courses))
	for _, c := range courses {
		name := c.Subject
		if runes := []rune(name); len(runes) > 15 {
			name = string(runes[:15]) + "..."
		}
		points = append(points, comparisonPoint{name: name, full: c.Subject, score: c.Score})
	}
	return points
}

func renderBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := int(score / 100 * float64(width))
	return barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func (m dashboardModel) View() string {
	var b strings.Builder
	p := m.profile

	if !m.adminView {
		b.WriteString(fmt.Sprintf("Selamat datang kembali, %s\n", p.Name))
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Ringkasan performa akademik Anda (User ID: %d)", p.UserID)) + "\n\n")
	}

	cards := []string{
		cardStyle.Render(fmt.Sprintf("IPK (Estimasi)\n%.2f", p.GPA)),
		cardStyle.Render(fmt.Sprintf("Rata-rata Global\n%.1f%%", p.AverageScore)),
		cardStyle.Render(fmt.Sprintf("Skor Engagement\n%.0f", p.EngagementScore)),
		cardStyle.Render("Kategori Performa\n" + performanceBadge(p.PerformanceCategory)),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	b.WriteString(titleStyle.Render("Riwayat Nilai Kuis & Tugas") + "\n")
	if len(p.Courses) == 0 {
		b.WriteString(subtitleStyle.Render("  Tidak ada mata kuliah terdaftar.") + "\n")
	} else {
		var tabs []string
		for i, c := range p.Courses {
			label := " " + c.Subject + " "
			if i == m.selected {
				tabs = append(tabs, selectedItemStyle.Render(label))
			} else {
				tabs = append(tabs, listItemStyle.Render(label))
			}
		}
		b.WriteString(strings.Join(tabs, " ") + "\n\n")

		switch {
		case m.loading:
			b.WriteString("  " + m.spinner.View() + " Memuat data kuis...\n")
		case len(m.quizzes) == 0:
			b.WriteString(subtitleStyle.Render("  Belum ada data kuis untuk mata kuliah ini.") + "\n")
		default:
			for _, q := range m.quizzes {
				b.WriteString(fmt.Sprintf("  %-24s %s %5.1f\n", q.QuizName, renderBar(q.Score, 30), q.Score))
			}
		}
	}

	b.WriteString("\n" + titleStyle.Render("Perbandingan Rata-rata Matkul") + "\n")
	for _, point := range comparisonSeries(p.Courses) {
		b.WriteString(fmt.Sprintf("  %-18s %s %5.1f\n", point.name, renderBar(point.score, 24), point.score))
	}

	b.WriteString("\n" + titleStyle.Render("Profil Belajar") + "\n")
	b.WriteString("  Gaya Belajar : " + badgeMuted.Render(p.LearningStyle) + "\n")
	b.WriteString(fmt.Sprintf("  Klaster ML   : %s\n", badgeMuted.Render(fmt.Sprintf("Cluster ID: %d", p.ClusterID))))
	tip := "Pertahankan performa ini untuk hasil maksimal."
	if p.PerformanceCategory == "Low" {
		tip = "Segera tingkatkan frekuensi akses materi di LMS."
	}
	b.WriteString(boxStyle.Render("Tips Pro\n"+tip) + "\n")

	if !m.adminView {
		b.WriteString(helpStyle.Render("  ←/→: ganti mata kuliah"))
	}
	return b.String()
}
