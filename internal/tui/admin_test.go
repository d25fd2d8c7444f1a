package tui

import (
	"fmt"
	"testing"

	"edupulse/internal/api"

	tea "github.com/charmbracelet/bubbletea"
)

func testRows(n int) []api.StudentRow {
	rows := make([]api.StudentRow, 0, n)
	for i := 0; i < n; i++ {
		status := "Aman"
		cluster := "Steady"
		if i%3 == 0 {
			status = "Berisiko"
			cluster = "At Risk"
		}
		rows = append(rows, api.StudentRow{ID: 100 + i, Status: status, Cluster: cluster})
	}
	return rows
}

func rosterAdminModel(t *testing.T, rows []api.StudentRow) adminModel {
	t.Helper()
	m, _ := newAdminModel(nil, testConfig())
	m.loading = false
	m.level = levelStudents
	m.class = api.ClassSummary{ClassID: "IF101"}
	m.rows = rows
	m.applyFilter()
	return m
}

func TestFilterRows(t *testing.T) {
	rows := testRows(12)

	if got := filterRows(rows, ""); len(got) != 12 {
		t.Errorf("empty term kept %d rows, want all 12", len(got))
	}
	if got := filterRows(rows, "berisiko"); len(got) != 4 {
		t.Errorf("status filter kept %d rows, want 4", len(got))
	}
	if got := filterRows(rows, "BERISIKO"); len(got) != 4 {
		t.Errorf("filter must be case-insensitive, kept %d", len(got))
	}
	if got := filterRows(rows, "103"); len(got) != 1 || got[0].ID != 103 {
		t.Errorf("id filter = %+v", got)
	}
	if got := filterRows(rows, "tidak ada"); got != nil {
		t.Errorf("no-match filter = %+v", got)
	}
}

func TestRosterPagination(t *testing.T) {
	m := rosterAdminModel(t, testRows(12))

	if m.pag.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", m.pag.TotalPages)
	}
	view := m.pag.View()
	if view != "Halaman 1 dari 2" {
		t.Errorf("paginator view = %q", view)
	}
	if len(m.pageRows()) != 10 {
		t.Errorf("page 1 has %d rows, want 10", len(m.pageRows()))
	}

	m, _ = m.updateKeys(tea.KeyMsg{Type: tea.KeyRight})
	if m.pag.Page != 1 {
		t.Errorf("Page = %d after next", m.pag.Page)
	}
	if len(m.pageRows()) != 2 {
		t.Errorf("page 2 has %d rows, want 2", len(m.pageRows()))
	}
}

func TestSearchResetsPage(t *testing.T) {
	m := rosterAdminModel(t, testRows(30))
	m.pag.Page = 2

	m.search.SetValue("berisiko")
	m.applyFilter()

	if m.pag.Page != 0 {
		t.Errorf("Page = %d, want reset to first page", m.pag.Page)
	}
	if len(m.filtered) != 10 {
		t.Errorf("filtered = %d rows, want 10", len(m.filtered))
	}

	// A term matching nothing still collapses to a single page.
	m.search.SetValue("tidak ada yang cocok")
	m.applyFilter()
	if m.pag.TotalPages != 1 {
		t.Errorf("TotalPages = %d with zero matches, want 1", m.pag.TotalPages)
	}
	if got := m.pag.View(); got != "Halaman 1 dari 1" {
		t.Errorf("paginator label with zero matches = %q", got)
	}
}

func TestPageSizeCycleResetsPage(t *testing.T) {
	m := rosterAdminModel(t, testRows(60))
	m.pag.Page = 3

	m, _ = m.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.pag.PerPage != 25 {
		t.Errorf("PerPage = %d, want 25", m.pag.PerPage)
	}
	if m.pag.Page != 0 {
		t.Errorf("Page = %d, want 0", m.pag.Page)
	}

	// Cycle wraps back to the smallest size.
	for i := 0; i < 3; i++ {
		m, _ = m.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	}
	if m.pag.PerPage != 10 {
		t.Errorf("PerPage = %d after full cycle, want 10", m.pag.PerPage)
	}
}

func TestRosterBackKeepsData(t *testing.T) {
	m := rosterAdminModel(t, testRows(5))

	m, cmd := m.updateKeys(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("going back must not refetch")
	}
	if m.level != levelClasses {
		t.Errorf("level = %v", m.level)
	}
	if len(m.rows) != 5 {
		t.Error("roster data should be kept for a cheap return")
	}
}

func TestStaleRosterDiscarded(t *testing.T) {
	m, _ := newAdminModel(nil, testConfig())
	m.loading = false

	m, _ = m.openRoster(api.ClassSummary{ClassID: "IF101"})
	m, _ = m.openRoster(api.ClassSummary{ClassID: "IF102"})

	// The superseded IF101 response arrives with its old token.
	stale := rosterMsg{rows: testRows(3)}
	m, _ = m.Update(stale)
	if m.level == levelStudents {
		t.Error("stale roster response must be discarded")
	}
	if !m.loading {
		t.Error("still waiting for the live request")
	}
}

func TestDetailForcesClickedClass(t *testing.T) {
	m := rosterAdminModel(t, testRows(5))
	m.class = api.ClassSummary{ClassID: "IF102"}

	m, _ = m.openDetail(104554)
	m, _ = m.Update(detailMsg{token: m.detailToken, profile: testProfile()})

	if m.level != levelDetail || !m.detailReady {
		t.Fatalf("level = %v, ready = %v", m.level, m.detailReady)
	}
	if got := m.detailDash.selectedClassID(); got != "IF102" {
		t.Errorf("detail dashboard selected class = %q, want the clicked class IF102", got)
	}
}

func TestResetConfirmCapturesInput(t *testing.T) {
	m := rosterAdminModel(t, testRows(5))
	if m.capturesInput() {
		t.Fatal("idle roster should not capture input")
	}

	m, _ = m.askReset(103)
	if !m.capturesInput() {
		t.Error("an open confirm dialog must capture input")
	}
	if m.resetFor != 103 {
		t.Errorf("resetFor = %d", m.resetFor)
	}

	m, _ = m.updateKeys(tea.KeyMsg{Type: tea.KeyEsc})
	if m.capturesInput() {
		t.Error("esc must dismiss the confirm dialog")
	}
}

func TestResetOutcomeMessages(t *testing.T) {
	m := rosterAdminModel(t, testRows(5))

	m, _ = m.Update(resetDoneMsg{studentID: 103})
	if m.status != "Sukses! Password Mahasiswa 103 sekarang adalah 'mhs123'." {
		t.Errorf("status = %q", m.status)
	}

	m, _ = m.Update(resetDoneMsg{studentID: 103, err: fmt.Errorf("boom")})
	if m.status != "Gagal mereset password." {
		t.Errorf("status = %q", m.status)
	}
}
