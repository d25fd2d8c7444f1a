package tui

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"edupulse/internal/api"
	"edupulse/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLoginDefaultUserID(t *testing.T) {
	m := newLoginModel(nil, nil)
	if m.userID.Value() != "104554" {
		t.Errorf("user id prefill = %q", m.userID.Value())
	}
	if m.tab != tabStudent {
		t.Error("login starts on the student tab")
	}
}

func TestLoginSwitchTabClearsError(t *testing.T) {
	m := newLoginModel(nil, nil)
	m.errMsg = errStudentLogin
	m.password.SetValue("secret")

	m = m.switchTab()
	if m.tab != tabAdmin {
		t.Fatalf("tab = %v", m.tab)
	}
	if m.errMsg != "" || m.password.Value() != "" {
		t.Error("switching tabs must clear the error and password")
	}
	if m.userID.Value() != "104554" {
		t.Error("the typed user id survives a tab switch")
	}
}

func TestLoginStudentFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			fmt.Fprint(w, `{"access_token":"abc"}`)
		case "/api/student/104554":
			fmt.Fprint(w, `{"user_id":104554}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := newEmptyTestStore(t)
	m := newLoginModel(api.NewClient(srv.URL), store)
	m.password.SetValue("mhs123")

	m, cmd := m.submit()
	if !m.loading || cmd == nil {
		t.Fatal("submit should start loading")
	}

	done := runBatchFor[loginDoneMsg](t, cmd)
	if done.err != nil {
		t.Fatalf("login failed: %v (%s)", done.err, done.errMsg)
	}
	if done.role != session.RoleStudent || done.profile == nil {
		t.Errorf("done = %+v", done)
	}

	p, err := store.Load()
	if err != nil || p == nil || p.StudentID != "104554" {
		t.Errorf("persisted = %+v, err = %v", p, err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newEmptyTestStore(t)
	m := newLoginModel(api.NewClient(srv.URL), store)
	m.password.SetValue("salah")

	m, cmd := m.submit()
	done := runBatchFor[loginDoneMsg](t, cmd)
	if done.errMsg != errStudentLogin {
		t.Errorf("errMsg = %q", done.errMsg)
	}

	m, _ = m.Update(done)
	if m.loading {
		t.Error("failure should stop the spinner")
	}
	if m.errMsg != errStudentLogin {
		t.Errorf("shown error = %q", m.errMsg)
	}

	if p, _ := store.Load(); p != nil {
		t.Error("a failed login must not persist a session")
	}
}

func TestLoginAdminWrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := newLoginModel(api.NewClient(srv.URL), newEmptyTestStore(t))
	m = m.switchTab()
	m.password.SetValue("salah")

	_, cmd := m.submit()
	done := runBatchFor[loginDoneMsg](t, cmd)
	if done.errMsg != errAdminPassword {
		t.Errorf("errMsg = %q", done.errMsg)
	}
}

func TestLoginSucceedsWhenSessionWriteFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			fmt.Fprint(w, `{"access_token":"abc"}`)
		case "/api/student/104554":
			fmt.Fprint(w, `{"user_id":104554}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	// A data dir nested under a regular file cannot be created, so the
	// session write fails while the login itself works.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	store := session.NewStore(filepath.Join(blocker, "data"))

	m := newLoginModel(api.NewClient(srv.URL), store)
	m.password.SetValue("mhs123")

	_, cmd := m.submit()
	done := runBatchFor[loginDoneMsg](t, cmd)
	if done.err != nil || done.role != session.RoleStudent {
		t.Errorf("done = %+v, want a successful login despite the failed write", done)
	}
}

func TestLoginBlocksWhileLoading(t *testing.T) {
	m := newLoginModel(nil, nil)
	m.loading = true

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("keys must be ignored while a login is in flight")
	}
	if !m.loading {
		t.Error("loading state lost")
	}
}

// runBatchFor executes a command tree and returns the first message of
// type T it produces. Spinner ticks and other noise are skipped.
func runBatchFor[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if typed, ok := msg.(T); ok {
			return typed
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
		}
	}
	t.Fatalf("command produced no %T", zero)
	return zero
}
