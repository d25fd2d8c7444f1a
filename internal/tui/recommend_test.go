package tui

import (
	"fmt"
	"testing"

	"edupulse/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

func TestRecsAnalyzeFlow(t *testing.T) {
	m := newRecsModel(nil, testProfile())
	if m.phase != recsIdle {
		t.Fatal("recs start idle")
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != recsAnalyzing || cmd == nil {
		t.Fatal("enter should start an analysis")
	}

	rec := &api.Recommendation{WeakSubject: "Kalkulus", Strategy: "Latihan rutin."}
	m, _ = m.Update(analysisDoneMsg{rec: rec})
	if m.phase != recsResult {
		t.Errorf("phase = %v", m.phase)
	}
	if m.rec.WeakSubject != "Kalkulus" {
		t.Errorf("rec = %+v", m.rec)
	}
}

func TestRecsFailureShowsBlockingNotice(t *testing.T) {
	m := newRecsModel(nil, testProfile())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = m.Update(analysisDoneMsg{err: fmt.Errorf("dial tcp: refused")})
	if m.phase != recsIdle {
		t.Errorf("phase = %v, want back to idle", m.phase)
	}
	if m.notice != "Gagal menghubungi AI Engine." {
		t.Errorf("notice = %q", m.notice)
	}

	// The notice blocks everything until dismissed.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.phase != recsIdle || m.notice != "" {
		t.Error("first enter should only dismiss the notice")
	}
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.phase != recsAnalyzing || cmd == nil {
		t.Error("after dismissal a retry should start")
	}
}

func TestRecsIgnoresResultWhenIdle(t *testing.T) {
	m := newRecsModel(nil, testProfile())

	rec := &api.Recommendation{WeakSubject: "Kalkulus"}
	m, _ = m.Update(analysisDoneMsg{rec: rec})
	if m.phase != recsIdle || m.rec != nil {
		t.Error("a result without a running analysis must be dropped")
	}
}

func TestRecsReanalyzeReplacesResult(t *testing.T) {
	m := newRecsModel(nil, testProfile())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(analysisDoneMsg{rec: &api.Recommendation{WeakSubject: "Kalkulus"}})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.phase != recsAnalyzing || cmd == nil {
		t.Fatal("a should re-run the analysis")
	}
	m, _ = m.Update(analysisDoneMsg{rec: &api.Recommendation{WeakSubject: "Statistika"}})
	if m.rec.WeakSubject != "Statistika" {
		t.Errorf("rec = %+v, want wholesale replacement", m.rec)
	}
}
