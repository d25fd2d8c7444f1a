package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the EduPulse backend. All intelligence (clustering,
// recommendations, chat replies) lives server-side; this client only
// moves JSON.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges credentials for a token. Only the HTTP status is
// consulted; the token itself is never retained.
func (c *Client) Login(username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.client.Post(c.baseURL+"/token", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("login rejected: status %d", resp.StatusCode)
	}
	return nil
}

// Student fetches a profile by id and normalizes it at the decode
// boundary, so screens always see a fully populated profile.
func (c *Client) Student(userID string) (*StudentProfile, error) {
	var profile StudentProfile
	if err := c.getJSON("/api/student/"+url.PathEscape(userID), &profile); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	profile.ApplyDefaults()
	return &profile, nil
}

// QuizDetails fetches the quiz breakdown for one (student, class) pair.
func (c *Client) QuizDetails(userID int, classID string) ([]QuizDetail, error) {
	q := url.Values{}
	q.Set("user_id", fmt.Sprintf("%d", userID))
	q.Set("class_id", classID)

	var quizzes []QuizDetail
	if err := c.getJSON("/api/student/quiz_detail?"+q.Encode(), &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

// UpdateProfile replaces the editable profile fields server-side.
func (c *Client) UpdateProfile(userID int, fullName, learningStyle, interest string) error {
	body := map[string]string{
		"user_id":        fmt.Sprintf("%d", userID),
		"full_name":      fullName,
		"learning_style": learningStyle,
		"interest":       interest,
	}
	return c.sendJSON(http.MethodPut, "/api/student/profile", body, nil)
}

// ChangePassword submits a password change. On rejection the server's
// reason (the "detail" field) is returned as the error text.
func (c *Client) ChangePassword(userID int, oldPassword, newPassword string) error {
	body := map[string]string{
		"user_id":      fmt.Sprintf("%d", userID),
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.sendJSON(http.MethodPut, "/api/auth/change-password", body, nil)
}

// Chat sends one message and returns the bot reply.
func (c *Client) Chat(userID int, message, learningStyle string) (string, error) {
	body := map[string]any{
		"user_id":        userID,
		"message":        message,
		"learning_style": learningStyle,
	}
	var out struct {
		Reply string `json:"reply"`
	}
	if err := c.sendJSON(http.MethodPost, "/api/chat", body, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Recommendation requests a fresh AI analysis.
func (c *Client) Recommendation(userID int, learningStyle, interest string) (*Recommendation, error) {
	if learningStyle == "" {
		learningStyle = DefaultLearningStyle
	}
	if interest == "" {
		interest = DefaultInterest
	}
	body := map[string]any{
		"user_id":        userID,
		"learning_style": learningStyle,
		"interest":       interest,
	}
	var rec Recommendation
	if err := c.sendJSON(http.MethodPost, "/api/recommendation", body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) AdminSummary() (*AdminSummary, error) {
	var summary AdminSummary
	if err := c.getJSON("/api/admin/summary", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) AdminClasses() ([]ClassSummary, error) {
	var classes []ClassSummary
	if err := c.getJSON("/api/admin/classes", &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) StudentsByClass(classID string) ([]StudentRow, error) {
	q := url.Values{}
	q.Set("class_id", classID)

	var rows []StudentRow
	if err := c.getJSON("/api/admin/students_by_class?"+q.Encode(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ResetPassword resets a student's password to the default one. The
// roster row is not refreshed afterwards; callers show only a notice.
func (c *Client) ResetPassword(studentID int) error {
	return c.sendJSON(http.MethodPut, fmt.Sprintf("/api/admin/reset-password/%d", studentID), nil, nil)
}

func (c *Client) getJSON(path string, v any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request %s: %s", path, readDetail(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) sendJSON(method, path string, body, v any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s", readDetail(resp))
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// readDetail extracts the server's error reason. The backend reports
// failures as {"detail": "..."}; anything else falls back to the status.
func readDetail(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			return payload.Detail
		}
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
