package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrEmptyTodo          = errors.New("todo text is empty")
	ErrCredentialsMissing = errors.New("repository credentials are not configured")
	ErrPublishRejected    = errors.New("remote rejected the update")
	ErrInvalidPassword    = errors.New("invalid admin password")
	ErrInvalidDuration    = errors.New("invalid pomodoro duration")
	ErrTestNotFound       = errors.New("test not found")

	ErrFetchTransport = errors.New("dataset source unreachable")
	ErrFetchStatus    = errors.New("dataset source returned a non-success status")
	ErrFetchDecode    = errors.New("dataset source returned malformed JSON")
	ErrFetchShape     = errors.New("dataset is missing required fields")
)

// Local store keys
const (
	KeyUserSettings    = "userSettings"
	KeyRepoCredentials = "githubConfig"
	KeyTodos           = "todos"
)

// DefaultClassID is the class shown before the user picks one.
const DefaultClassID = "21HR"

// UserSettings is the per-installation display preference record.
type UserSettings struct {
	ClassID string `json:"classId" validate:"required,max=32"`
	ICalURL string `json:"icalUrl" validate:"omitempty,max=320"`
}

// DefaultUserSettings returns the settings used when nothing is stored.
func DefaultUserSettings() UserSettings {
	return UserSettings{ClassID: DefaultClassID}
}

// CalendarID returns the Google calendar id when one is configured.
func (s UserSettings) CalendarID() (string, bool) {
	id := strings.TrimSpace(s.ICalURL)
	if !strings.Contains(id, "@") {
		return "", false
	}
	return id, true
}

// RepoCredentials identifies the repository holding the shared dataset.
// JSON names match the records written by the browser dashboard.
type RepoCredentials struct {
	Owner string `json:"user" validate:"omitempty,max=100"`
	Repo  string `json:"repo" validate:"omitempty,max=100"`
	Token string `json:"token" validate:"omitempty,max=255"`
}

// HasMirror reports whether the raw-content mirror can be addressed.
func (c RepoCredentials) HasMirror() bool {
	return c.Owner != "" && c.Repo != ""
}

// CanPublish reports whether the contents API can be written to.
func (c RepoCredentials) CanPublish() bool {
	return c.Token != "" && c.HasMirror()
}

// Redacted returns a copy safe to hand back to clients.
func (c RepoCredentials) Redacted() RepoCredentials {
	if c.Token == "" {
		return c
	}
	masked := "****"
	if len(c.Token) > 8 {
		masked = c.Token[:4] + "****"
	}
	c.Token = masked
	return c
}

// TodoItem is a single entry of the to-do list.
type TodoItem struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Done      bool      `json:"done"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// NewTodoItem creates an open item with a fresh id.
func NewTodoItem(text string, now time.Time) TodoItem {
	return TodoItem{
		ID:        uuid.New().String(),
		Text:      text,
		CreatedAt: &now,
	}
}

// TodoProgress summarizes completion of the list.
type TodoProgress struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// ComputeTodoProgress counts finished items.
func ComputeTodoProgress(items []TodoItem) TodoProgress {
	p := TodoProgress{Total: len(items)}
	for _, item := range items {
		if item.Done {
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Done) / float64(p.Total) * 100
	}
	return p
}

type PomodoroMode string

const (
	PomodoroModeWork  PomodoroMode = "work"
	PomodoroModeBreak PomodoroMode = "break"
)

// Pomodoro defaults, in minutes.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
	MaxPomodoroMinutes  = 180
)

// PomodoroState is the transient timer state.
type PomodoroState struct {
	Mode             PomodoroMode `json:"mode"`
	RemainingSeconds int          `json:"remainingSeconds"`
	Running          bool         `json:"running"`
	WorkMinutes      int          `json:"workMinutes"`
	BreakMinutes     int          `json:"breakMinutes"`
}

// NewPomodoroState returns a stopped timer at the start of a work phase.
func NewPomodoroState(workMinutes, breakMinutes int) PomodoroState {
	return PomodoroState{
		Mode:             PomodoroModeWork,
		RemainingSeconds: workMinutes * 60,
		WorkMinutes:      workMinutes,
		BreakMinutes:     breakMinutes,
	}
}

// Display renders the remaining time as MM:SS.
func (s PomodoroState) Display() string {
	return fmt.Sprintf("%02d:%02d", s.RemainingSeconds/60, s.RemainingSeconds%60)
}

// PhaseMinutes returns the configured length of the current phase.
func (s PomodoroState) PhaseMinutes() int {
	if s.Mode == PomodoroModeBreak {
		return s.BreakMinutes
	}
	return s.WorkMinutes
}
