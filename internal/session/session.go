package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"edupulse/internal/api"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Persisted is what survives a restart: the role flag and, for
// students, the user id. Both live in one file so they are always
// written and removed together.
type Persisted struct {
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"`
}

// Store reads and writes the persisted session file.
type Store struct {
	path string
}

func NewStore(dataDir string) *Store {
	return &Store{path: filepath.Join(dataDir, "session.json")}
}

// Load returns the persisted session, or nil if none exists.
func (s *Store) Load() (*Persisted, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Persisted
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	if p.Role != RoleStudent && p.Role != RoleAdmin {
		return nil, fmt.Errorf("corrupt session file: unknown role %q", p.Role)
	}
	return &p, nil
}

func (s *Store) Save(p Persisted) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the session file. Clearing an already-absent session is
// not an error, so a failed restore can always log out fully.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Active is the one session object shared across screens. Every screen
// receives it read-only; only Begin/End (login and logout) and
// MergeProfile (the profile save) may mutate it. Mutation happens
// synchronously inside one event-handler turn, so no locking is needed.
type Active struct {
	role    Role
	profile *api.StudentProfile
}

func (a *Active) Role() Role                   { return a.role }
func (a *Active) Profile() *api.StudentProfile { return a.profile }

// Begin installs an authenticated identity. For admins the profile is
// nil.
func (a *Active) Begin(role Role, profile *api.StudentProfile) {
	a.role = role
	a.profile = profile
}

// End clears the in-memory identity on logout.
func (a *Active) End() {
	a.role = ""
	a.profile = nil
}

// MergeProfile folds a successful profile save back into the shared
// profile so every screen reflects the change immediately.
func (a *Active) MergeProfile(name, learningStyle, interest string) {
	if a.profile == nil {
		return
	}
	a.profile.Name = name
	a.profile.LearningStyle = learningStyle
	a.profile.Interest = interest
}
