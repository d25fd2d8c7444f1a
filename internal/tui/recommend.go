package tui

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"edupulse/internal/api"
	"edupulse/internal/config"
	"edupulse/internal/studyplan"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type recsPhase int

const (
	recsIdle recsPhase = iota
	recsAnalyzing
	recsResult
)

type analysisDoneMsg struct {
	rec *api.Recommendation
	err error
}

type recsModel struct {
	client  *api.Client
	profile *api.StudentProfile

	phase  recsPhase
	rec    *api.Recommendation
	notice string
	status string

	spinner spinner.Model
	width   int
}

func newRecsModel(client *api.Client, profile *api.StudentProfile) recsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return recsModel{
		client:  client,
		profile: profile,
		spinner: sp,
	}
}

func (m recsModel) analyze() (recsModel, tea.Cmd) {
	m.phase = recsAnalyzing
	m.notice = ""
	m.status = ""
	client := m.client
	userID := m.profile.UserID
	style := m.profile.LearningStyle
	interest := m.profile.Interest
	fetch := func() tea.Msg {
		rec, err := client.Recommendation(userID, style, interest)
		return analysisDoneMsg{rec: rec, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, fetch)
}

// savePlan writes the recommended study session to an ICS file in the
// data directory so it can be imported into any calendar app.
func (m recsModel) savePlan() recsModel {
	path := filepath.Join(config.DataDir(), fmt.Sprintf("rencana-belajar-%d.ics", m.profile.UserID))
	if err := studyplan.WriteICS(m.rec, m.profile.UserID, path); err != nil {
		m.status = "Gagal menyimpan jadwal: " + err.Error()
		return m
	}
	m.status = "Jadwal tersimpan: " + path
	return m
}

func (m recsModel) Update(msg tea.Msg) (recsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisDoneMsg:
		if m.phase != recsAnalyzing {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("recommendation: %v", msg.err)
			m.phase = recsIdle
			m.notice = "Gagal menghubungi AI Engine."
			return m, nil
		}
		m.phase = recsResult
		m.rec = msg.rec
		return m, nil

	case spinner.TickMsg:
		if m.phase != recsAnalyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// A pending notice blocks everything until dismissed.
		if m.notice != "" {
			if msg.String() == "enter" || msg.String() == "esc" {
				m.notice = ""
			}
			return m, nil
		}
		switch m.phase {
		case recsIdle:
			if msg.String() == "enter" || msg.String() == "a" {
				return m.analyze()
			}
		case recsResult:
			switch msg.String() {
			case "a":
				return m.analyze()
			case "s":
				return m.savePlan(), nil
			}
		}
	}
	return m, nil
}

func (m recsModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rekomendasi AI") + "\n")

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice+"\n\n[enter] tutup") + "\n")
		return b.String()
	}

	switch m.phase {
	case recsIdle:
		b.WriteString("  Analisis pola belajar Anda untuk mendapatkan\n")
		b.WriteString("  rekomendasi materi yang dipersonalisasi.\n\n")
		b.WriteString(selectedItemStyle.Render(" Mulai Analisis (enter) ") + "\n")

	case recsAnalyzing:
		b.WriteString("  " + m.spinner.View() + " Menganalisis pola belajar...\n")

	case recsResult:
		rec := m.rec
		if rec.Tips != "" {
			b.WriteString(subtitleStyle.Render(`"`+rec.Tips+`"`) + "\n")
		}
		left := cardStyle.Render(
			subtitleStyle.Render("Profil Analisis") + "\n" +
				fmt.Sprintf("Kecocokan      : %.0f%%\n", rec.MatchPercentage) +
				"Mapel Terlemah : " + rec.WeakSubject + "\n" +
				"Waktu Optimal  : " + rec.OptimalTime + "\n" +
				fmt.Sprintf("Prediksi Nilai : %.1f", rec.PredictedScore))
		right := cardStyle.Render(
			subtitleStyle.Render("Strategi") + "\n" + wordwrapLines(rec.Strategy, 40))
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n\n")

		if rec.Mentor != "" || len(rec.PeerGroup) > 0 {
			b.WriteString(boxStyle.Render(
				"Mentor     : "+rec.Mentor+"\n"+
					"Teman Belajar : "+strings.Join(rec.PeerGroup, ", ")) + "\n\n")
		}

		videos, refs := rec.SplitMaterials()
		if len(videos) > 0 {
			b.WriteString(subtitleStyle.Render("Video Pembelajaran") + "\n")
			for _, v := range videos {
				b.WriteString("  ▶ " + v.Title + "\n")
				b.WriteString(helpStyle.Render("    "+v.URL) + "\n")
			}
		}
		if len(refs) > 0 {
			b.WriteString(subtitleStyle.Render("Referensi Bacaan") + "\n")
			for _, r := range refs {
				b.WriteString("  • " + r.Title + "\n")
				b.WriteString(helpStyle.Render("    "+r.URL) + "\n")
			}
		}

		if m.status != "" {
			b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("  a: analisis ulang • s: simpan jadwal belajar (.ics)"))
	}

	return b.String()
}

// wordwrapLines is a crude greedy wrapper for prose panels.
func wordwrapLines(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
