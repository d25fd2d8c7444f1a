package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogin(t *testing.T) {
	var gotForm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" {
			t.Errorf("path = %q, want /token", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotForm = string(body)
		fmt.Fprint(w, `{"access_token":"abc"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Login("104554", "mhs123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !strings.Contains(gotForm, "username=104554") || !strings.Contains(gotForm, "password=mhs123") {
		t.Errorf("form body = %q", gotForm)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Login("104554", "wrong"); err == nil {
		t.Fatal("expected error for 401")
	}
}

func TestStudentAppliesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user_id":104554,"courses":[{"class_id":"IF101","subject":"Algoritma","score":88}]}`)
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).Student("104554")
	if err != nil {
		t.Fatalf("Student: %v", err)
	}
	if p.Name != "Mahasiswa 104554" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.LearningStyle != "Visual" {
		t.Errorf("LearningStyle = %q", p.LearningStyle)
	}
	if p.Interest != "Computer Science" {
		t.Errorf("Interest = %q", p.Interest)
	}
	if p.Major != "PJJ Informatika" {
		t.Errorf("Major = %q", p.Major)
	}
	if len(p.Courses) != 1 || p.Courses[0].ClassID != "IF101" {
		t.Errorf("Courses = %+v", p.Courses)
	}
}

func TestStudentRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"X"}`)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Student("104554"); err == nil {
		t.Fatal("expected error for profile without user_id")
	}
}

func TestQuizDetailsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("user_id") != "104554" || q.Get("class_id") != "IF101" {
			t.Errorf("query = %v", q)
		}
		fmt.Fprint(w, `[{"quiz_name":"Kuis 1","score":75}]`)
	}))
	defer srv.Close()

	quizzes, err := NewClient(srv.URL).QuizDetails(104554, "IF101")
	if err != nil {
		t.Fatalf("QuizDetails: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Score != 75 {
		t.Errorf("quizzes = %+v", quizzes)
	}
}

func TestUpdateProfileSendsStringID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["user_id"] != "104554" {
			t.Errorf("user_id = %q, want string \"104554\"", body["user_id"])
		}
		if body["full_name"] != "Budi" {
			t.Errorf("full_name = %q", body["full_name"])
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).UpdateProfile(104554, "Budi", "Visual", "AI"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
}

func TestChangePasswordReturnsDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail":"Password lama salah"}`)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).ChangePassword(104554, "bad", "new")
	if err == nil || err.Error() != "Password lama salah" {
		t.Fatalf("err = %v, want detail text", err)
	}
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["message"] != "nilai saya?" {
			t.Errorf("message = %v", body["message"])
		}
		fmt.Fprint(w, `{"reply":"Nilai rata-rata Anda 82."}`)
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL).Chat(104554, "nilai saya?", "Visual")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Nilai rata-rata Anda 82." {
		t.Errorf("reply = %q", reply)
	}
}

func TestRecommendationFillsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["learning_style"] != "Visual" || body["interest"] != "Computer Science" {
			t.Errorf("body = %v", body)
		}
		fmt.Fprint(w, `{"status":"ok","weak_subject":"Kalkulus"}`)
	}))
	defer srv.Close()

	rec, err := NewClient(srv.URL).Recommendation(104554, "", "")
	if err != nil {
		t.Fatalf("Recommendation: %v", err)
	}
	if rec.WeakSubject != "Kalkulus" {
		t.Errorf("WeakSubject = %q", rec.WeakSubject)
	}
}

func TestResetPasswordPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/admin/reset-password/42" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).ResetPassword(42); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
}

func TestErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "boom")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).AdminSummary()
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("err = %v", err)
	}
}

func TestSplitMaterials(t *testing.T) {
	rec := Recommendation{Materials: []Material{
		{Title: "Video A", Type: MaterialTypeVideo},
		{Title: "Artikel B", Type: "Article"},
		{Title: "Video C", Type: MaterialTypeVideo},
		{Title: "Modul D", Type: "Module"},
	}}

	videos, refs := rec.SplitMaterials()
	if len(videos) != 2 || len(refs) != 2 {
		t.Fatalf("videos = %d, refs = %d", len(videos), len(refs))
	}
	if videos[0].Title != "Video A" || videos[1].Title != "Video C" {
		t.Errorf("videos = %+v", videos)
	}
	if refs[0].Title != "Artikel B" || refs[1].Title != "Modul D" {
		t.Errorf("refs = %+v", refs)
	}
}
